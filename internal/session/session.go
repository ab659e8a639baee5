// Package session owns the authentication lifecycle: the current user, the
// bearer token, and the authenticated flag. State transitions are
// Anonymous -> Authenticated on login and back on logout or failed refresh;
// registration deliberately leaves the session anonymous.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/amleal/produtos-manager/internal/api"
	"github.com/amleal/produtos-manager/internal/logging"
	"github.com/amleal/produtos-manager/internal/models"
	"github.com/amleal/produtos-manager/internal/store"
)

// ErrOperationInFlight is returned when a network-bound session operation is
// issued while another one is still running.
var ErrOperationInFlight = errors.New("session operation already in flight")

// Credentials is the login input.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the account-creation input. VerifyPassword is validated by
// the caller and submitted as-is.
type Registration struct {
	Name           string       `json:"name"`
	Email          string       `json:"email"`
	Password       string       `json:"password"`
	VerifyPassword string       `json:"verifyPassword"`
	Phone          models.Phone `json:"phone"`
}

// persisted is the session blob stored in the metadata table. The token is
// deliberately absent: it lives only under the token store's canonical key.
type persisted struct {
	User          *models.User `json:"user"`
	Authenticated bool         `json:"isAuthenticated"`
}

// Container holds the Session entity. Only login/register/logout/refresh
// mutate it. Safe for concurrent use; overlapping network-bound operations
// are rejected with ErrOperationInFlight.
type Container struct {
	api    *api.Client
	db     *sql.DB
	tokens *store.TokenStore
	log    logging.Logger

	mu            sync.Mutex
	user          *models.User
	token         string
	authenticated bool
	loading       bool
	inflight      string
}

// NewContainer wires a session container to the API transport and the local
// state database. Call Load to restore a persisted session.
func NewContainer(client *api.Client, db *sql.DB, tokens *store.TokenStore, logger logging.Logger) *Container {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Container{api: client, db: db, tokens: tokens, log: logger}
}

// Load restores {user, token, authenticated} persisted by a previous run.
// loading always starts false.
func (c *Container) Load(ctx context.Context) error {
	meta := store.NewSQLiteMetadata(c.db)
	blob, err := meta.Get(ctx, store.SessionKey)
	if err != nil {
		return err
	}
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}

	var p persisted
	if len(blob) > 0 {
		if err := json.Unmarshal(blob, &p); err != nil {
			return fmt.Errorf("decode persisted session: %w", err)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.user = p.User
	c.authenticated = p.Authenticated
	c.token = token
	c.loading = false
	return nil
}

// Login authenticates against POST /auth/login. On success the session holds
// the returned user and token and is persisted. The original error is
// returned unchanged on failure.
func (c *Container) Login(ctx context.Context, creds Credentials) error {
	id, err := c.begin()
	if err != nil {
		return err
	}
	defer c.end(id)

	var resp models.LoginResponse
	if err := c.api.Post(ctx, "/auth/login", creds, &resp); err != nil {
		return err
	}

	c.mu.Lock()
	c.user = &resp.User
	c.token = resp.Token
	c.authenticated = true
	c.mu.Unlock()

	if err := c.persist(ctx); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	c.log.Info(ctx, "logged in", "user", resp.User.Email)
	return nil
}

// Register creates an account via POST /users. The session stays anonymous:
// the user is expected to log in separately.
func (c *Container) Register(ctx context.Context, reg Registration) (*models.RegisterResponse, error) {
	id, err := c.begin()
	if err != nil {
		return nil, err
	}
	defer c.end(id)

	var resp models.RegisterResponse
	if err := c.api.Post(ctx, "/users", reg, &resp); err != nil {
		return nil, err
	}
	c.log.Info(ctx, "registered", "user", reg.Email)
	return &resp, nil
}

// Logout resets the session to its initial anonymous shape and wipes the
// local state store in one sweep: session blob, token slot, and any legacy
// keys. No network call is made; the in-memory state is reset even when
// clearing the durable store fails.
func (c *Container) Logout(ctx context.Context) error {
	c.mu.Lock()
	c.user = nil
	c.token = ""
	c.authenticated = false
	c.loading = false
	c.mu.Unlock()

	return store.NewSQLiteMetadata(c.db).Clear(ctx)
}

// RefreshSession revalidates the held token against GET /auth/session and
// updates the user record. Without a token it is a no-op. A failed refresh
// degrades to a full logout so the session never stays half-authenticated.
func (c *Container) RefreshSession(ctx context.Context) error {
	if c.Token() == "" {
		return nil
	}

	id, err := c.begin()
	if err != nil {
		return err
	}
	defer c.end(id)

	var user models.User
	if err := c.api.Get(ctx, "/auth/session", &user); err != nil {
		c.log.Warn(ctx, "session refresh failed, logging out", "error", err)
		if lerr := c.Logout(ctx); lerr != nil {
			c.log.Error(ctx, "logout after failed refresh", "error", lerr)
		}
		return err
	}

	c.mu.Lock()
	c.user = &user
	c.authenticated = true
	c.mu.Unlock()

	if err := c.persist(ctx); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

// RenewToken rotates the bearer token via POST /auth/session. On failure the
// stored token is removed and the error is returned.
func (c *Container) RenewToken(ctx context.Context) error {
	id, err := c.begin()
	if err != nil {
		return err
	}
	defer c.end(id)

	var resp models.LoginResponse
	if err := c.api.Post(ctx, "/auth/session", nil, &resp); err != nil {
		if rerr := c.tokens.RemoveToken(ctx); rerr != nil {
			c.log.Error(ctx, "remove token after failed renew", "error", rerr)
		}
		return err
	}

	c.mu.Lock()
	c.token = resp.Token
	c.user = &resp.User
	c.authenticated = true
	c.mu.Unlock()

	return c.persist(ctx)
}

// persist writes the session blob and the token in one transaction, both
// through the canonical accessors.
func (c *Container) persist(ctx context.Context) error {
	c.mu.Lock()
	blob, err := json.Marshal(persisted{User: c.user, Authenticated: c.authenticated})
	token := c.token
	c.mu.Unlock()
	if err != nil {
		return err
	}

	return store.InTx(ctx, c.db, func(ctx context.Context, tx store.DBTX) error {
		meta := store.NewSQLiteMetadata(tx)
		if err := meta.Set(ctx, store.SessionKey, blob); err != nil {
			return err
		}
		return store.NewTokenStore(meta).SetToken(ctx, token)
	})
}

func (c *Container) begin() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inflight != "" {
		return "", ErrOperationInFlight
	}
	id := uuid.NewString()
	c.inflight = id
	c.loading = true
	return id, nil
}

func (c *Container) end(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inflight == id {
		c.inflight = ""
		c.loading = false
	}
}

// User returns the current user, or nil when anonymous.
func (c *Container) User() *models.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.user == nil {
		return nil
	}
	u := *c.user
	return &u
}

// Token returns the held bearer token, "" when anonymous.
func (c *Container) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// IsAuthenticated reports whether a login has succeeded and not been undone.
func (c *Container) IsAuthenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.authenticated
}

// IsLoading reports whether a session operation is in flight.
func (c *Container) IsLoading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}
