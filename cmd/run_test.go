package cmd

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"apishell/internal/apiclient"
	"apishell/internal/assembler"
	"apishell/internal/config"
	"apishell/internal/session"
	"apishell/internal/shell"
	"apishell/internal/stage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type shellLaunch struct {
	ns     *shell.Namespace
	prompt shell.Prompt
	opts   shell.Options
}

type runResult struct {
	stdout   string
	stderr   string
	err      error
	launches []shellLaunch
	built    int
}

var envVars = []string{
	"APISHELL_API_URL", "APISHELL_API_TOKEN",
	"APISHELL_SEARCH_API_URL", "APISHELL_SEARCH_API_TOKEN",
	"APISHELL_CDP_API_URL", "APISHELL_CDP_API_TOKEN",
	"APISHELL_READ_WRITE", "APISHELL_DEBUG", "APISHELL_LOG_LEVEL",
}

// runApishell executes a fresh root command with the OS, config and shell seams mocked.
func runApishell(t *testing.T, args ...string) runResult {
	t.Helper()
	return runApishellWithEnv(t, nil, args...)
}

// runApishellWithEnv is runApishell with some APISHELL_* variables set.
func runApishellWithEnv(t *testing.T, env map[string]string, args ...string) runResult {
	t.Helper()
	return execute(t, env, nil, args...)
}

// runApishellWith is runApishell with extra seam overrides applied after the defaults.
func runApishellWith(t *testing.T, setup func(), args ...string) runResult {
	t.Helper()
	return execute(t, nil, setup, args...)
}

func execute(t *testing.T, env map[string]string, setup func(), args ...string) runResult {
	t.Helper()
	for _, name := range envVars {
		t.Setenv(name, "")
	}
	for k, v := range env {
		t.Setenv(k, v)
	}

	originalLoadConfig := loadConfig
	originalCurrentUser := currentUser
	originalLaunchShell := launchShell
	originalNewConstructors := newConstructors
	t.Cleanup(func() {
		loadConfig = originalLoadConfig
		currentUser = originalCurrentUser
		launchShell = originalLaunchShell
		newConstructors = originalNewConstructors
	})

	var res runResult
	loadConfig = func() (config.ApishellConfig, error) { return config.GetDefaultConfig(), nil }
	currentUser = func(context.Context) string { return "dev@example.test" }
	launchShell = func(ctx context.Context, ns *shell.Namespace, prompt shell.Prompt, opts shell.Options) error {
		res.launches = append(res.launches, shellLaunch{ns, prompt, opts})
		return nil
	}
	newConstructors = func() assembler.Constructors {
		c := assembler.DefaultConstructors()
		data, search, cdp := c.Data, c.Search, c.CDP
		c.Data = func(baseURL, authToken, user string, opts apiclient.Options) *apiclient.DataClient {
			res.built++
			return data(baseURL, authToken, user, opts)
		}
		c.Search = func(baseURL, authToken, user string, opts apiclient.Options) *apiclient.SearchClient {
			res.built++
			return search(baseURL, authToken, user, opts)
		}
		c.CDP = func(baseURL, apiKey string, opts apiclient.Options) *apiclient.CDPClient {
			res.built++
			return cdp(baseURL, apiKey, opts)
		}
		return c
	}
	if setup != nil {
		setup()
	}

	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(normalizeArgs(args))

	res.err = cmd.Execute()
	res.stdout = stdout.String()
	res.stderr = stderr.String()
	return res
}

func baseURLOf(t *testing.T, ns *shell.Namespace, name string) string {
	t.Helper()
	b, ok := ns.Lookup(name)
	require.Truef(t, ok, "%s is bound", name)
	u, ok := b.Value.(interface{ GetBaseURL() string })
	require.True(t, ok)
	return u.GetBaseURL()
}

func TestRun_LocalWithoutFlags(t *testing.T) {
	res := runApishell(t)
	require.NoError(t, res.err)
	require.Len(t, res.launches, 1)

	launch := res.launches[0]
	assert.Equal(t, []string{"data", "search"}, launch.ns.Names())
	assert.Equal(t, shell.Prompt{Stage: stage.Local, ReadWrite: false}, launch.prompt)

	data, _ := launch.ns.Lookup("data")
	assert.IsType(t, &apiclient.ReadOnlyDataClient{}, data.Value)
	assert.True(t, data.ReadOnly)
	assert.Equal(t, "http://localhost:5000", baseURLOf(t, launch.ns, "data"))
	assert.Equal(t, "http://localhost:5009", baseURLOf(t, launch.ns, "search"))

	assert.Equal(t, "Setting user to 'dev@example.test'...\n"+
		"Setting API tokens...\n"+
		"Creating clients...\n"+
		"Creating Data API client...\n"+
		"Use 'data' for Data API client\n"+
		"Creating Search API client...\n"+
		"Use 'search' for Search API client\n"+
		"Dropping into shell...\n", res.stdout)
}

func TestRun_DevelopmentWithOnlyCDPToken(t *testing.T) {
	res := runApishell(t, "development", "--cdp-api-token", "secret")
	require.NoError(t, res.err)
	require.Len(t, res.launches, 1)

	ns := res.launches[0].ns
	assert.Equal(t, []string{"cdp"}, ns.Names())
	assert.Equal(t, "https://data-sharing.dev.supplier-information.find-tender.service.gov.uk", baseURLOf(t, ns, "cdp"))
	assert.Equal(t, 1, res.built)
}

func TestRun_DevelopmentWithoutTokens(t *testing.T) {
	res := runApishell(t, "development")

	require.Error(t, res.err)
	assert.True(t, errors.Is(res.err, session.ErrNoTokens))
	assert.Empty(t, res.launches, "no shell is launched")
	assert.Zero(t, res.built, "no client is constructed")
	assert.Contains(t, res.stderr, "Must supply one of --api-token, --search-api-token or --cdp-api-token to access the client")
	assert.NotContains(t, res.stdout, "Creating clients...")
	assert.NotContains(t, res.stderr, "Error:", "the message is printed once")
}

func TestRun_ReadWrite(t *testing.T) {
	for _, flag := range []string{"--read-write", "-rw"} {
		t.Run(flag, func(t *testing.T) {
			res := runApishell(t, "preview", "--api-token", "tok", flag)
			require.NoError(t, res.err)
			require.Len(t, res.launches, 1)

			launch := res.launches[0]
			data, ok := launch.ns.Lookup("data")
			require.True(t, ok)
			assert.IsType(t, &apiclient.DataClient{}, data.Value)
			assert.False(t, data.ReadOnly)
			assert.True(t, launch.prompt.ReadWrite)
			assert.Equal(t, stage.Preview, launch.prompt.Stage)
		})
	}
}

func TestRun_URLOverride(t *testing.T) {
	res := runApishell(t, "pre-production", "--search-api-token", "tok", "--search-api-url", "http://search.example.test")
	require.NoError(t, res.err)
	require.Len(t, res.launches, 1)

	ns := res.launches[0].ns
	assert.Equal(t, []string{"search"}, ns.Names())
	assert.Equal(t, "http://search.example.test", baseURLOf(t, ns, "search"))
}

func TestRun_ExplicitTokenOnLocal(t *testing.T) {
	res := runApishell(t, "local", "--cdp-api-token", "cdp")
	require.NoError(t, res.err)
	require.Len(t, res.launches, 1)

	assert.Equal(t, []string{"data", "search", "cdp"}, res.launches[0].ns.Names())
}

func TestRun_EnvironmentTokens(t *testing.T) {
	t.Run("env supplies token", func(t *testing.T) {
		res := runApishellWithEnv(t, map[string]string{"APISHELL_API_TOKEN": "from-env"}, "preview")
		require.NoError(t, res.err)
		require.Len(t, res.launches, 1)
		assert.Equal(t, []string{"data"}, res.launches[0].ns.Names())
		assert.Equal(t, "https://api.preview.marketplace.team", baseURLOf(t, res.launches[0].ns, "data"))
	})

	t.Run("flag wins over env", func(t *testing.T) {
		res := runApishellWithEnv(t, map[string]string{"APISHELL_API_URL": "http://env.example.test"},
			"preview", "--api-token", "t", "--api-url", "http://flag.example.test")
		require.NoError(t, res.err)
		require.Len(t, res.launches, 1)
		assert.Equal(t, "http://flag.example.test", baseURLOf(t, res.launches[0].ns, "data"))
	})

	t.Run("env enables read-write", func(t *testing.T) {
		res := runApishellWithEnv(t, map[string]string{"APISHELL_READ_WRITE": "true"})
		require.NoError(t, res.err)
		require.Len(t, res.launches, 1)
		assert.True(t, res.launches[0].prompt.ReadWrite)
	})
}

func TestRun_InvalidStage(t *testing.T) {
	res := runApishell(t, "staging")

	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "pre-production")
	assert.Empty(t, res.launches)
}

func TestRun_TooManyArgs(t *testing.T) {
	res := runApishell(t, "local", "preview")

	require.Error(t, res.err)
	assert.Empty(t, res.launches)
}

func TestRun_ConfigError(t *testing.T) {
	res := runApishellWith(t, func() {
		loadConfig = func() (config.ApishellConfig, error) {
			return config.ApishellConfig{}, errors.New("bad yaml")
		}
	})

	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "failed to load configuration: bad yaml")
	assert.Empty(t, res.launches)
}

func TestRun_ShellOptionsFromConfig(t *testing.T) {
	res := runApishellWith(t, func() {
		loadConfig = func() (config.ApishellConfig, error) {
			cfg := config.GetDefaultConfig()
			cfg.Shell.HistoryFile = "/tmp/history"
			cfg.Shell.OutputFormat = config.OutputFormatYAML
			return cfg, nil
		}
	})

	require.NoError(t, res.err)
	require.Len(t, res.launches, 1)
	assert.Equal(t, shell.Options{HistoryFile: "/tmp/history", OutputFormat: config.OutputFormatYAML}, res.launches[0].opts)
}

func TestRun_LogLevel(t *testing.T) {
	const resolved = "resolved session for stage local as dev@example.test"

	t.Run("default hides info", func(t *testing.T) {
		res := runApishell(t)
		require.NoError(t, res.err)
		assert.NotContains(t, res.stderr, resolved)
	})

	t.Run("flag", func(t *testing.T) {
		res := runApishell(t, "--log-level", "info")
		require.NoError(t, res.err)
		assert.Contains(t, res.stderr, resolved)
		assert.Contains(t, res.stderr, "level=INFO")
	})

	t.Run("environment", func(t *testing.T) {
		res := runApishellWithEnv(t, map[string]string{"APISHELL_LOG_LEVEL": "INFO"})
		require.NoError(t, res.err)
		assert.Contains(t, res.stderr, resolved)
	})

	t.Run("debug wins", func(t *testing.T) {
		res := runApishell(t, "--log-level", "error", "--debug")
		require.NoError(t, res.err)
		assert.Contains(t, res.stderr, resolved)
	})

	t.Run("invalid", func(t *testing.T) {
		res := runApishell(t, "--log-level", "loud")
		require.Error(t, res.err)
		assert.Contains(t, res.err.Error(), `invalid --log-level: unknown log level "loud"`)
		assert.Empty(t, res.launches)
	})
}

func TestRun_RetriesDisabledByConfig(t *testing.T) {
	var got []apiclient.Options
	res := runApishellWith(t, func() {
		loadConfig = func() (config.ApishellConfig, error) {
			cfg := config.GetDefaultConfig()
			zero := 0
			cfg.HTTP.RetryMax = &zero
			return cfg, nil
		}
		newConstructors = func() assembler.Constructors {
			c := assembler.DefaultConstructors()
			data := c.Data
			c.Data = func(baseURL, authToken, user string, opts apiclient.Options) *apiclient.DataClient {
				got = append(got, opts)
				return data(baseURL, authToken, user, opts)
			}
			return c
		}
	})

	require.NoError(t, res.err)
	require.Len(t, got, 1)
	assert.Equal(t, 0, got[0].RetryMax)
}

func TestUserAgent(t *testing.T) {
	cmd := newRootCmd()
	assert.Equal(t, "apishell/dev", userAgent(cmd))

	cmd.Version = "1.4.0"
	assert.Equal(t, "apishell/1.4.0", userAgent(cmd))
}
