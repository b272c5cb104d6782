// Package httpapi is the gin-based HTTP surface: authentication endpoints,
// the access guard, contacts CRUD and image search.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/MLowen1/basicwebapp/internal/logging"
	"github.com/MLowen1/basicwebapp/internal/server/auth"
	"github.com/MLowen1/basicwebapp/internal/server/models"
	"github.com/MLowen1/basicwebapp/internal/server/openverse"
	"github.com/MLowen1/basicwebapp/internal/server/services"
	"github.com/gin-gonic/gin"
)

type Authenticator interface {
	Register(ctx context.Context, username, password string) (*models.User, *auth.AccessToken, error)
	Login(ctx context.Context, username, password string) (*models.User, *auth.AccessToken, error)
	Logout(ctx context.Context, claims *auth.Claims) error
	Validate(ctx context.Context, raw string) (*auth.Claims, error)
	CurrentUser(ctx context.Context, claims *auth.Claims) (*models.User, error)
	IssueResetToken(ctx context.Context, userID int64) (*auth.AccessToken, error)
	ResetPassword(ctx context.Context, raw, newPassword string) error
}

type ContactService interface {
	List(ctx context.Context) ([]models.Contact, error)
	Get(ctx context.Context, id int64) (*models.Contact, error)
	Create(ctx context.Context, in services.ContactInput) (*models.Contact, error)
	Update(ctx context.Context, id int64, patch services.ContactPatch) (*models.Contact, error)
	Delete(ctx context.Context, id int64) error
}

type ImageSearcher interface {
	Search(ctx context.Context, q openverse.Query) (*openverse.SearchResult, error)
}

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Deps struct {
	Auth     Authenticator
	Contacts ContactService
	Images   ImageSearcher
	DB       Pinger
	Logger   logging.Logger
}

type Options struct {
	Addr            string
	AllowedOrigin   string
	ShutdownTimeout time.Duration
}

type Server struct {
	opts     Options
	engine   *gin.Engine
	auth     Authenticator
	contacts ContactService
	images   ImageSearcher
	db       Pinger
	logger   logging.Logger
}

func NewServer(d Deps, o Options) *Server {
	s := &Server{
		opts:     o,
		engine:   gin.New(),
		auth:     d.Auth,
		contacts: d.Contacts,
		images:   d.Images,
		db:       d.DB,
		logger:   d.Logger.With("module", "http_server"),
	}
	s.routes()
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, lis)
}

// Serve handles requests on lis until ctx is done, then drains in-flight
// requests for at most ShutdownTimeout.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(lis)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", lis.Addr().String())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
