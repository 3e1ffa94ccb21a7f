package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/AntonStoeckl/library-lending-go/library/core"
	"github.com/AntonStoeckl/library-lending-go/library/features/query/listloans"
	"github.com/AntonStoeckl/library-lending-go/library/identity"
)

// Lending is the part of lending.Service the API serves.
type Lending interface {
	AddBook(ctx context.Context, details core.BookDetails) (core.Book, error)
	UpdateBook(ctx context.Context, bookID core.BookIDString, patch core.BookPatch) (core.Book, error)
	RemoveBook(ctx context.Context, bookID core.BookIDString) error
	ListBooks(ctx context.Context) ([]core.Book, error)
	Book(ctx context.Context, bookID core.BookIDString) (core.Book, error)

	RequestLoan(ctx context.Context, userID core.UserIDString, bookID core.BookIDString, periodDays int) (core.Loan, error)
	ReturnLoan(ctx context.Context, loanID core.LoanIDString) (core.Loan, error)
	Loan(ctx context.Context, loanID core.LoanIDString) (core.Loan, error)
	ListLoans(ctx context.Context) ([]listloans.LoanView, error)
	ListLoansOfUser(ctx context.Context, userID core.UserIDString) ([]listloans.LoanView, error)

	ListUsers(ctx context.Context) ([]core.User, error)
	RemoveUser(ctx context.Context, userID core.UserIDString) error
}

// Authenticator is the part of identity.Provider the API uses.
type Authenticator interface {
	Register(ctx context.Context, registration core.Registration, password string) (core.User, error)
	Authenticate(ctx context.Context, username, password string) (string, core.User, error)
	Verify(ctx context.Context, token string) (identity.Principal, error)
}

// Server builds the HTTP handler of the API.
type Server struct {
	lending        Lending
	auth           Authenticator
	logger         *slog.Logger
	metricsHandler http.Handler
	corsOrigins    []string
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger for request and error logs, slog.Default() otherwise.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetricsHandler serves handler at GET /metrics.
func WithMetricsHandler(handler http.Handler) Option {
	return func(s *Server) {
		s.metricsHandler = handler
	}
}

// WithCORSOrigins allows browsers on the given origins to call the API.
func WithCORSOrigins(origins ...string) Option {
	return func(s *Server) {
		s.corsOrigins = origins
	}
}

// NewServer creates a Server.
func NewServer(lending Lending, auth Authenticator, opts ...Option) *Server {
	s := &Server{
		lending: lending,
		auth:    auth,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Handler returns the gin engine with all routes registered.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), s.correlationID(), s.requestLog())
	_ = r.SetTrustedProxies(nil)

	if len(s.corsOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     s.corsOrigins,
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", headerCorrelationID},
			ExposeHeaders:    []string{"Content-Length", headerCorrelationID},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.GET("/healthz", func(c *gin.Context) { respond(c, http.StatusOK, "ok") })
	if s.metricsHandler != nil {
		r.GET("/metrics", gin.WrapH(s.metricsHandler))
	}

	r.NoRoute(func(c *gin.Context) { abortWithMessage(c, http.StatusNotFound, "route not found") })

	api := r.Group("/api")

	authRoutes := api.Group("/auth")
	authRoutes.POST("/login", s.login)
	authRoutes.POST("/register", s.register)

	authenticated := api.Group("", s.requireAuth())
	admin := authenticated.Group("", requireRole(core.RoleAdmin))
	borrower := authenticated.Group("", requireRole(core.RoleStudent, core.RoleTeacher))

	authenticated.GET("/books", s.listBooks)
	authenticated.GET("/books/:id", s.bookDetails)
	admin.POST("/books", s.addBook)
	admin.PUT("/books/:id", s.updateBook)
	admin.DELETE("/books/:id", s.removeBook)

	admin.GET("/loans", s.listLoans)
	authenticated.GET("/loans/user/:userId", s.listLoansOfUser)
	borrower.POST("/loans", s.requestLoan)
	authenticated.PUT("/loans/:id/return", s.returnLoan)

	admin.GET("/users", s.listUsers)
	admin.DELETE("/users/:id", s.removeUser)

	return r
}
