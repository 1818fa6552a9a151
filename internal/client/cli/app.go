// Package cli implements the interactive console for the staffdir admin
// client: a small REPL that drives the session and employee services and
// renders their state as text.
package cli

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/dmitrijs2005/staffdir/internal/client/api"
	"github.com/dmitrijs2005/staffdir/internal/client/config"
	"github.com/dmitrijs2005/staffdir/internal/client/services"
	"github.com/dmitrijs2005/staffdir/internal/logging"
)

// App wires the console commands to the application services. It owns no
// domain state itself: session and collection state live in their services,
// the App only renders them.
type App struct {
	config    *config.Config
	session   services.SessionService
	employees services.EmployeeService
	client    api.Client
	log       logging.Logger
	reader    *bufio.Reader
	out       io.Writer
}

// NewApp builds the console against the directory service named in cfg.
// The session service is registered as both the bearer-header source and the
// auth-failure handler of the HTTP client, so the token has a single owner
// and a server-side token rejection forces a sign-out.
func NewApp(cfg *config.Config, log logging.Logger) (*App, error) {
	apiClient, err := api.NewHTTPClient(cfg.BaseURL, cfg.RequestTimeout, log)
	if err != nil {
		return nil, err
	}

	ss := services.NewSessionService(apiClient, log)
	apiClient.SetAuthHeaderSource(ss)
	apiClient.SetAuthFailureHandler(ss)

	es := services.NewEmployeeServiceWithPageSize(apiClient, cfg.PageSize, log)

	return &App{
		config:    cfg,
		session:   ss,
		employees: es,
		client:    apiClient,
		log:       log,
		reader:    bufio.NewReader(os.Stdin),
		out:       os.Stdout,
	}, nil
}

// Run starts the REPL and blocks until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	defer a.client.Close()
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
}

func (a *App) isLoggedIn() bool {
	return a.session.Session().Authenticated()
}

// status renders the prompt suffix, e.g. "(ann@x.com ADMIN)".
func (a *App) status() string {
	sess := a.session.Session()
	if !sess.Authenticated() {
		return ""
	}
	return "(" + sess.User.Email + " " + string(sess.User.Role) + ")"
}
