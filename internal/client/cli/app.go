package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/client/client"
	"github.com/dmitrijs2005/gophauth/internal/client/config"
	"github.com/dmitrijs2005/gophauth/internal/client/services"
)

type App struct {
	authService services.AuthService
	ctrl        *Controller
	reader      *bufio.Reader
	out         io.Writer
	timeout     time.Duration
}

// NewApp opens the session database and the API client named by c.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	db, err := client.InitDatabase(ctx, c.SessionDBPath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	apiClient, err := client.New(c)
	if err != nil {
		db.Close()
		return nil, err
	}

	return newApp(services.NewAuthService(apiClient, db), os.Stdin, os.Stdout, c.RequestTimeout), nil
}

func newApp(svc services.AuthService, in io.Reader, out io.Writer, timeout time.Duration) *App {
	return &App{
		authService: svc,
		ctrl:        NewController(),
		reader:      bufio.NewReader(in),
		out:         out,
		timeout:     timeout,
	}
}

// Run restores a saved session, then serves the REPL until exit or EOF.
func (a *App) Run(ctx context.Context) error {
	defer a.authService.Close()

	fmt.Fprintln(a.out, "Welcome to GophAuth CLI (type 'help' for commands)")
	a.restore(ctx)

	runREPL(ctx, a, a.getStatus, a.reader)
	return nil
}

func (a *App) State() State {
	return a.ctrl.State()
}

func (a *App) getStatus() string {
	if a.ctrl.State() == StateLoggedIn {
		return a.ctrl.Username()
	}
	return a.ctrl.State().String()
}

func (a *App) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.timeout)
}

func (a *App) restore(ctx context.Context) {
	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	username, ok, err := a.authService.Restore(ctx)
	if err != nil {
		fmt.Fprintln(a.out, userMessage(err))
		return
	}
	if ok {
		a.fire(EventLoggedIn, username)
	}
}

// fire applies ev and prints the resulting notice.
func (a *App) fire(ev Event, username string) {
	notice, err := a.ctrl.Fire(ev, username)
	if err != nil {
		fmt.Fprintln(a.out, err)
		return
	}
	if notice != "" {
		fmt.Fprintln(a.out, notice)
	}
}
