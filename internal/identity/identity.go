// Package identity resolves the user identifier that apishell attaches to
// write requests as "updated_by".
package identity

import (
	"context"
	"os"
	"os/exec"
	"os/user"
	"strings"
	"time"
)

// Unknown is returned when no source yields an identifier.
const Unknown = "unknown"

// For mocking in tests
var (
	gitUserEmail = func(ctx context.Context) (string, error) {
		out, err := exec.CommandContext(ctx, "git", "config", "user.email").Output()
		if err != nil {
			return "", err
		}
		return string(out), nil
	}
	osCurrentUser = user.Current
	osGetenv      = os.Getenv
)

const gitLookupTimeout = 2 * time.Second

// CurrentUser returns the configured git email, falling back to the OS
// login name, then $USER, then Unknown. It never fails.
func CurrentUser(ctx context.Context) string {
	ctx, cancel := context.WithTimeout(ctx, gitLookupTimeout)
	defer cancel()

	if email, err := gitUserEmail(ctx); err == nil {
		if email = strings.TrimSpace(email); email != "" {
			return email
		}
	}

	if u, err := osCurrentUser(); err == nil && u.Username != "" {
		return u.Username
	}

	if name := strings.TrimSpace(osGetenv("USER")); name != "" {
		return name
	}

	return Unknown
}
