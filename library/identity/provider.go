package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/AntonStoeckl/library-lending-go/library/core"
)

const (
	defaultIssuer   = "library-lending"
	defaultTokenTTL = 24 * time.Hour

	minPasswordLength = 8
	maxPasswordLength = 72 // bcrypt ignores everything beyond
)

var (
	ErrMissingSecret      = errors.New("jwt secret must not be empty")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid token")
)

// Directory is the user registry the provider works on, lending.Service implements it.
type Directory interface {
	RegisterUser(ctx context.Context, registration core.Registration, passwordHash string) (core.User, error)
	UserByUsername(ctx context.Context, username string) (core.User, error)
	User(ctx context.Context, userID core.UserIDString) (core.User, error)
}

// Principal is the verified identity behind a request.
type Principal struct {
	UserID   core.UserIDString
	Username string
	Name     string
	Role     core.Role
}

// IsAdmin reports whether the principal has the admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == core.RoleAdmin
}

// Claims are the JWT claims issued at login, the subject is the UserID.
type Claims struct {
	Username string    `json:"username"`
	Role     core.Role `json:"role"`
	jwt.RegisteredClaims
}

// Provider issues and verifies tokens for the users of the Directory.
type Provider struct {
	directory  Directory
	secret     []byte
	issuer     string
	tokenTTL   time.Duration
	bcryptCost int
	clock      func() time.Time
}

// Option configures a Provider.
type Option func(*Provider)

// WithIssuer sets the iss claim.
func WithIssuer(issuer string) Option {
	return func(p *Provider) {
		p.issuer = issuer
	}
}

// WithTokenTTL sets how long issued tokens are valid.
func WithTokenTTL(ttl time.Duration) Option {
	return func(p *Provider) {
		p.tokenTTL = ttl
	}
}

// WithBcryptCost sets the bcrypt cost, tests use bcrypt.MinCost.
func WithBcryptCost(cost int) Option {
	return func(p *Provider) {
		p.bcryptCost = cost
	}
}

// WithClock replaces time.Now for issuing and validating tokens.
func WithClock(clock func() time.Time) Option {
	return func(p *Provider) {
		p.clock = clock
	}
}

// NewProvider creates a Provider that signs tokens with the secret.
func NewProvider(directory Directory, secret string, opts ...Option) (*Provider, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}

	provider := &Provider{
		directory:  directory,
		secret:     []byte(secret),
		issuer:     defaultIssuer,
		tokenTTL:   defaultTokenTTL,
		bcryptCost: bcrypt.DefaultCost,
		clock:      time.Now,
	}

	for _, opt := range opts {
		opt(provider)
	}

	return provider, nil
}

// Register signs up a student or a teacher. Admins only come from the bootstrap.
func (p *Provider) Register(ctx context.Context, registration core.Registration, password string) (core.User, error) {
	if registration.Role == core.RoleAdmin {
		return core.User{}, fmt.Errorf("%w: admins can't sign up", core.ErrNotPermitted)
	}

	return p.register(ctx, registration, password)
}

// EnsureAdmin registers the admin unless a user with the username exists.
// An existing user with another role is a Conflict.
func (p *Provider) EnsureAdmin(ctx context.Context, username, password, name string) (core.User, bool, error) {
	existing, err := p.directory.UserByUsername(ctx, username)

	switch {
	case err == nil && existing.Role == core.RoleAdmin:
		return existing, false, nil
	case err == nil:
		return core.User{}, false, fmt.Errorf("%w: user %s exists without the admin role", core.ErrConflict, existing.Username)
	case !errors.Is(err, core.ErrNotFound):
		return core.User{}, false, err
	}

	admin, err := p.register(ctx, core.Registration{Username: username, Name: name, Role: core.RoleAdmin}, password)
	if err != nil {
		return core.User{}, false, err
	}

	return admin, true, nil
}

// Authenticate checks the password and issues a token.
func (p *Provider) Authenticate(ctx context.Context, username, password string) (string, core.User, error) {
	user, err := p.directory.UserByUsername(ctx, username)
	if errors.Is(err, core.ErrNotFound) {
		return "", core.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return "", core.User{}, err
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", core.User{}, ErrInvalidCredentials
	}

	token, err := p.issue(user)
	if err != nil {
		return "", core.User{}, err
	}

	return token, user, nil
}

// Verify validates the token and resolves the user it was issued for.
func (p *Provider) Verify(ctx context.Context, token string) (Principal, error) {
	claims := &Claims{}

	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return p.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(p.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.clock),
	)
	if err != nil || !parsed.Valid {
		return Principal{}, errors.Join(ErrInvalidToken, err)
	}

	user, err := p.directory.User(ctx, claims.Subject)
	if errors.Is(err, core.ErrNotFound) {
		return Principal{}, fmt.Errorf("%w: user %s no longer exists", ErrInvalidToken, claims.Subject)
	}
	if err != nil {
		return Principal{}, err
	}

	return Principal{
		UserID:   user.UserID,
		Username: user.Username,
		Name:     user.Name,
		Role:     user.Role,
	}, nil
}

func (p *Provider) register(ctx context.Context, registration core.Registration, password string) (core.User, error) {
	if len(password) < minPasswordLength || len(password) > maxPasswordLength {
		return core.User{}, fmt.Errorf(
			"%w: password must have %d to %d characters",
			core.ErrValidation, minPasswordLength, maxPasswordLength,
		)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.bcryptCost)
	if err != nil {
		return core.User{}, err
	}

	return p.directory.RegisterUser(ctx, registration, string(hash))
}

func (p *Provider) issue(user core.User) (string, error) {
	now := p.clock()

	claims := Claims{
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.UserID,
			Issuer:    p.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.tokenTTL)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
}
