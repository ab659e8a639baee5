// Package cli implements the interactive terminal front end: a REPL over the
// session and product containers.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"time"

	_ "modernc.org/sqlite"

	"github.com/amleal/produtos-manager/internal/api"
	"github.com/amleal/produtos-manager/internal/config"
	"github.com/amleal/produtos-manager/internal/logging"
	"github.com/amleal/produtos-manager/internal/products"
	"github.com/amleal/produtos-manager/internal/session"
	"github.com/amleal/produtos-manager/internal/store"
)

// App wires the containers behind the REPL.
type App struct {
	config   *config.Config
	log      logging.Logger
	db       *sql.DB
	session  *session.Container
	products *products.Container
	reader   *bufio.Reader
	out      io.Writer
}

// NewApp builds the full object graph: state database, token store, API
// client, containers. A previously persisted session is restored.
func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Nop()
	}

	db, err := store.Open(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	tokens := store.NewTokenStore(store.NewSQLiteMetadata(db))
	client := api.NewClient(cfg.APIBaseURL, tokens, logger,
		api.WithTimeout(cfg.RequestTimeout),
		api.WithRateLimit(cfg.RequestsPerSecond),
	)

	sess := session.NewContainer(client, db, tokens, logger)
	if err := sess.Load(ctx); err != nil {
		logger.Warn(ctx, "could not restore session", "error", err)
	}

	return &App{
		config:   cfg,
		log:      logger,
		db:       db,
		session:  sess,
		products: products.NewContainer(client, logger),
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}, nil
}

// Close releases the state database.
func (a *App) Close() error {
	return a.db.Close()
}

// Run revalidates any restored session and drops into the REPL.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to Produtos Manager (type 'help' for commands)")

	if a.session.Token() != "" {
		if err := a.session.RefreshSession(ctx); err != nil {
			fmt.Fprintln(a.out, "Stored session is no longer valid, please log in again.")
		}
	}

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner, a.out)
}

// status builds the prompt suffix: current user plus token expiry.
func (a *App) status() string {
	u := a.session.User()
	if u == nil || !a.session.IsAuthenticated() {
		return ""
	}
	s := u.Email
	if exp, ok := a.session.ExpiresAt(); ok {
		s += " until " + exp.Local().Format(time.Kitchen)
	}
	return "(" + s + ")"
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}
