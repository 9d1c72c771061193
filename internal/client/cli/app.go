package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/mydrive/internal/client/client"
	"github.com/dmitrijs2005/mydrive/internal/client/config"
	"github.com/dmitrijs2005/mydrive/internal/client/services"
	"github.com/dmitrijs2005/mydrive/internal/client/session"
	"github.com/dmitrijs2005/mydrive/internal/client/views"
	"github.com/dmitrijs2005/mydrive/internal/logging"
	"github.com/dmitrijs2005/mydrive/internal/timex"

	_ "modernc.org/sqlite"
)

type App struct {
	config  *config.Config
	db      *sql.DB
	log     logging.Logger
	api     client.Client
	session *session.Store
	auth    services.AuthService
	router  *views.Router
	drive   *views.Drive
	groups  *views.Groups
	reader  *bufio.Reader
	out     io.Writer
}

// NewApp opens the local database and wires the API client, session store
// and views. Diagnostics go to stderr, user output to stdout.
func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()

	log, err := logging.Setup(logging.Options{Level: c.LogLevel, Format: c.LogFormat, Output: os.Stderr})
	if err != nil {
		return nil, err
	}

	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "path", c.DatabasePath, "error", err)
		return nil, err
	}

	store := session.NewStore(db, timex.RealClock{}, c.SessionTTL, log)
	api := client.NewHTTPClient(c.ServerBaseURL, client.WithLogger(log))

	a := newApp(c, api, store, log, os.Stdin, os.Stdout)
	a.db = db
	return a, nil
}

func newApp(c *config.Config, api client.Client, store *session.Store, log logging.Logger, in io.Reader, out io.Writer) *App {
	a := &App{
		config:  c,
		log:     log,
		api:     api,
		session: store,
		auth:    services.NewAuthService(api, store, nil, log),
		router:  views.NewRouter(store),
		reader:  bufio.NewReader(in),
		out:     out,
	}
	a.resetViews()
	return a
}

// resetViews drops all per-view caches, so a new login never sees the
// previous user's listings.
func (a *App) resetViews() {
	a.drive = views.NewDrive(a.api, a.session, a.config.DownloadDir, a.log)
	a.groups = views.NewGroups(a.api, a.session, a.config.DownloadDir, a.log)
}

// Run restores a saved session and starts the REPL. It blocks until the
// user exits or input ends.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	fmt.Fprintln(a.out, "Welcome to MyDrive CLI (type 'help' for commands)")

	id, err := a.auth.Restore(ctx)
	if err != nil {
		a.log.Warn(ctx, "session restore failed", "error", err)
	}
	if id != nil {
		fmt.Fprintf(a.out, "Logged in as %s\n", id.Username)
		if err := a.open(ctx, views.PathDrive); err != nil {
			fmt.Fprintln(a.out, "Error:", err)
		}
	} else {
		fmt.Fprintln(a.out, "Please login or register")
	}

	runREPL(ctx, a, a.status, a.reader)
}

func (a *App) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

func (a *App) view() views.View {
	return a.router.Current()
}

// status renders the prompt decoration, e.g. "(alice drive)".
func (a *App) status() string {
	v := a.view()
	if id := a.auth.Current(); id != nil {
		return fmt.Sprintf("(%s %s)", id.Username, v)
	}
	return fmt.Sprintf("(%s)", v)
}

// open navigates to path and loads the view that ends up showing.
func (a *App) open(ctx context.Context, path string) error {
	switch a.router.Navigate(path) {
	case views.ViewDrive:
		if err := a.drive.Mount(ctx); err != nil {
			return err
		}
		a.printFiles()
	case views.ViewGroups:
		err := a.groups.Mount(ctx)
		a.printGroups()
		return err
	default:
		fmt.Fprintln(a.out, "Please login first")
	}
	return nil
}
