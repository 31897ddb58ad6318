// Package assembler constructs the API clients a session has credentials
// for and binds them into a shell namespace.
package assembler

import (
	"fmt"
	"io"

	"apishell/internal/apiclient"
	"apishell/internal/session"
	"apishell/internal/shell"
	"apishell/pkg/logging"
)

// Binding names in the namespace.
const (
	NameData   = "data"
	NameSearch = "search"
	NameCDP    = "cdp"
)

// Constructors builds clients. Tests replace it to observe construction.
type Constructors struct {
	Data   func(baseURL, authToken, user string, opts apiclient.Options) *apiclient.DataClient
	Search func(baseURL, authToken, user string, opts apiclient.Options) *apiclient.SearchClient
	CDP    func(baseURL, apiKey string, opts apiclient.Options) *apiclient.CDPClient
}

// DefaultConstructors uses the real apiclient constructors.
func DefaultConstructors() Constructors {
	return Constructors{
		Data:   apiclient.NewDataClient,
		Search: apiclient.NewSearchClient,
		CDP:    apiclient.NewCDPClient,
	}
}

// Assembler turns a session into a namespace, printing a progress line per client.
type Assembler struct {
	out          io.Writer
	opts         apiclient.Options
	constructors Constructors
}

// New creates an Assembler writing progress to out.
func New(out io.Writer, opts apiclient.Options, constructors Constructors) *Assembler {
	return &Assembler{out: out, opts: opts, constructors: constructors}
}

// Assemble constructs a client for every configured service, in the order
// data, search, cdp. The Data client is wrapped read-only unless the
// session is read-write.
func (a *Assembler) Assemble(s *session.Session) (*shell.Namespace, error) {
	ns := shell.NewNamespace()

	for _, service := range session.Services() {
		ep := s.Endpoint(service)
		if ep == nil {
			continue
		}

		a.creating(service)
		name, value, readOnly := a.construct(service, ep, s)
		if err := a.bind(ns, name, service, value, readOnly); err != nil {
			return nil, err
		}
	}

	return ns, nil
}

// construct builds the client for service and returns its binding.
func (a *Assembler) construct(service session.Service, ep *session.Endpoint, s *session.Session) (name string, value any, readOnly bool) {
	switch service {
	case session.ServiceData:
		full := a.constructors.Data(ep.URL, ep.Token, s.User, a.opts)
		if s.ReadWrite {
			return NameData, full, false
		}
		return NameData, apiclient.ReadOnly(full), true
	case session.ServiceSearch:
		return NameSearch, a.constructors.Search(ep.URL, ep.Token, s.User, a.opts), false
	default:
		return NameCDP, a.constructors.CDP(ep.URL, ep.Token, a.opts), false
	}
}

func (a *Assembler) creating(service session.Service) {
	fmt.Fprintf(a.out, "Creating %s client...\n", service.DisplayName())
}

func (a *Assembler) bind(ns *shell.Namespace, name string, service session.Service, value any, readOnly bool) error {
	if err := ns.Bind(name, value, readOnly); err != nil {
		return fmt.Errorf("failed to bind %s client: %w", service.DisplayName(), err)
	}
	logging.Logger("assembler").Debug("bound client", "name", name, "type", fmt.Sprintf("%T", value), "readOnly", readOnly)
	fmt.Fprintf(a.out, "Use '%s' for %s client\n", name, service.DisplayName())
	return nil
}
