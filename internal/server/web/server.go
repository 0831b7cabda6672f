// Package web serves the HTML interface. Requests pass through the request
// logger and the session middleware before reaching a handler; handlers call
// the services and turn their errors into page states.
package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/todolists/internal/logging"
	"github.com/dmitrijs2005/todolists/internal/server/forms"
	"github.com/dmitrijs2005/todolists/internal/server/models"
	"github.com/gin-gonic/gin"
)

type UserService interface {
	Register(ctx context.Context, in forms.RegisterInput) (*models.User, error)
	Login(ctx context.Context, in forms.LoginInput) (string, *models.User, error)
	Authenticate(ctx context.Context, token string) (*models.User, error)
	ChangePassword(ctx context.Context, user *models.User, in forms.PasswordChangeInput) error
	Logout(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type ListService interface {
	Create(ctx context.Context, userID string, in forms.ListInput) (*models.List, error)
	Get(ctx context.Context, userID, id string) (*models.List, error)
	ListForOwner(ctx context.Context, userID string) ([]*models.List, error)
	Update(ctx context.Context, userID, id string, in forms.ListInput) (*models.List, error)
	Delete(ctx context.Context, userID, id string) error
}

type TaskService interface {
	Create(ctx context.Context, userID, listID string, in forms.TaskInput) (*models.Task, error)
	Get(ctx context.Context, userID, id string) (*models.Task, error)
	ListForList(ctx context.Context, userID, listID string) (*models.List, []*models.Task, error)
	Update(ctx context.Context, userID, id string, in forms.TaskUpdateInput) (*models.Task, error)
	Delete(ctx context.Context, userID, id string) (*models.Task, error)
}

type ExportService interface {
	Enabled() bool
	ExportList(ctx context.Context, userID, listID string) (string, error)
}

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Deps struct {
	Users   UserService
	Lists   ListService
	Tasks   TaskService
	Exports ExportService
	DB      Pinger
}

type Options struct {
	Addr          string
	SecureCookies bool
}

type Server struct {
	opts    Options
	users   UserService
	lists   ListService
	tasks   TaskService
	exports ExportService
	db      Pinger
	logger  logging.Logger
	router  *gin.Engine
}

func NewServer(opts Options, l logging.Logger, d Deps) (*Server, error) {
	s := &Server{
		opts:    opts,
		users:   d.Users,
		lists:   d.Lists,
		tasks:   d.Tasks,
		exports: d.Exports,
		db:      d.DB,
		logger:  l.With("module", "web_server"),
	}

	tmpl, err := loadTemplates()
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(s.requestLogger, gin.Recovery(), s.sessionMiddleware)
	r.NoRoute(s.notFound)
	s.routes(r)
	s.router = r

	return s, nil
}

func (s *Server) routes(r *gin.Engine) {
	r.GET("/healthz", s.healthz)

	r.GET("/", s.index)
	r.POST("/", s.requireUser, func(c *gin.Context) { c.Redirect(http.StatusSeeOther, "/lists/new") })

	r.GET("/register", s.registerForm)
	r.POST("/register", s.register)
	r.GET("/login", s.loginForm)
	r.POST("/login", s.login)

	authed := r.Group("/", s.requireUser)
	{
		authed.POST("/logout", s.logout)

		authed.GET("/account", s.account)
		authed.GET("/account/password", s.passwordForm)
		authed.POST("/account/password", s.changePassword)
		authed.POST("/account/delete", s.deleteAccount)

		authed.GET("/lists/new", s.newListForm)
		authed.POST("/lists/new", s.createList)
		authed.GET("/lists/:id", s.showList)
		authed.GET("/lists/:id/edit", s.editListForm)
		authed.POST("/lists/:id/edit", s.updateList)
		authed.POST("/lists/:id/delete", s.deleteList)
		authed.POST("/lists/:id/export", s.exportList)

		authed.GET("/tasks/new", s.newTaskForm)
		authed.POST("/tasks/new", s.createTask)
		authed.GET("/tasks/:id/edit", s.editTaskForm)
		authed.POST("/tasks/:id/edit", s.updateTask)
		authed.POST("/tasks/:id/delete", s.deleteTask)
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", s.opts.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) healthz(c *gin.Context) {
	if s.db != nil {
		if err := s.db.PingContext(c.Request.Context()); err != nil {
			s.logger.Warn(c.Request.Context(), "database ping failed", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
