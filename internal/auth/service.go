package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	pkgauth "github.com/tumblera/tumblera-backend/pkg/auth"
	"github.com/tumblera/tumblera-backend/pkg/auth/session"
	"github.com/tumblera/tumblera-backend/pkg/config"
	"github.com/tumblera/tumblera-backend/pkg/enums"
	pkgerrors "github.com/tumblera/tumblera-backend/pkg/errors"
	"github.com/tumblera/tumblera-backend/pkg/logger"
	"github.com/tumblera/tumblera-backend/pkg/security"
	"github.com/tumblera/tumblera-backend/pkg/supabase"
)

type gateway interface {
	SignUp(ctx context.Context, email, password string, metadata map[string]string) (supabase.AuthUser, error)
	SignInWithPassword(ctx context.Context, email, password string) (supabase.AuthSession, error)
	CreateProfile(ctx context.Context, userID string, profile supabase.ProfileRecord) (supabase.ProfileRecord, error)
}

type sessionWriter interface {
	Create(ctx context.Context, accessID, email string) error
	Revoke(ctx context.Context, accessID string) error
}

// SignUpInput carries the registration form fields.
type SignUpInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

// Grant is an issued login: our JWT plus the identity baked into it.
type Grant struct {
	Token     string
	Email     string
	Role      enums.ActorRole
	ExpiresAt time.Time
}

// Service issues and revokes logins. Customer accounts live in the remote
// auth store; the single seller account is provisioned from the environment
// with an argon2id hash. Both paths end in the same place: our JWT with a
// role claim and a redis-backed session.
type Service interface {
	SignUp(ctx context.Context, input SignUpInput) (Grant, error)
	SignIn(ctx context.Context, email, password string) (Grant, error)
	SellerLogin(ctx context.Context, email, password string) (Grant, error)
	Logout(ctx context.Context, accessID string) error
}

type service struct {
	gateway  gateway
	sessions sessionWriter
	jwtCfg   config.JWTConfig
	seller   config.SellerConfig
	logg     *logger.Logger
	now      func() time.Time
}

// NewService wires the auth service. The gateway may be nil when the remote
// auth store is not configured; customer sign-up and sign-in then refuse.
func NewService(gw gateway, sessions sessionWriter, jwtCfg config.JWTConfig, seller config.SellerConfig, logg *logger.Logger) (Service, error) {
	if sessions == nil {
		return nil, errors.New("session manager is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	if jwtCfg.Secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	return &service{
		gateway:  gw,
		sessions: sessions,
		jwtCfg:   jwtCfg,
		seller:   seller,
		logg:     logg,
		now:      time.Now,
	}, nil
}

// SignUp registers a customer account remotely, mirrors it into the users
// table, and signs the new customer in.
func (s *service) SignUp(ctx context.Context, input SignUpInput) (Grant, error) {
	if s.gateway == nil {
		return Grant{}, pkgerrors.New(pkgerrors.CodeDependency, "remote auth is not configured")
	}
	if strings.TrimSpace(input.Email) == "" || input.Password == "" {
		return Grant{}, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}

	user, err := s.gateway.SignUp(ctx, input.Email, input.Password, map[string]string{
		"first_name": input.FirstName,
		"last_name":  input.LastName,
	})
	if err != nil {
		return Grant{}, err
	}

	profile := supabase.ProfileRecord{
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Phone:     input.Phone,
		Role:      enums.ActorRoleCustomer,
	}
	if _, err := s.gateway.CreateProfile(ctx, user.ID, profile); err != nil {
		// The auth account exists either way; a missing users row only costs
		// prefill data.
		s.logg.Warn(s.logg.WithUserEmail(ctx, input.Email), "failed to create profile row: "+err.Error())
	}

	return s.issue(ctx, input.Email, enums.ActorRoleCustomer)
}

// SignIn authenticates a customer against the remote auth store and issues
// our own token.
func (s *service) SignIn(ctx context.Context, email, password string) (Grant, error) {
	if s.gateway == nil {
		return Grant{}, pkgerrors.New(pkgerrors.CodeDependency, "remote auth is not configured")
	}
	if strings.TrimSpace(email) == "" || password == "" {
		return Grant{}, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}

	if _, err := s.gateway.SignInWithPassword(ctx, email, password); err != nil {
		return Grant{}, err
	}
	return s.issue(ctx, email, enums.ActorRoleCustomer)
}

// SellerLogin checks the env-provisioned seller credential. The failure
// message never says which half was wrong.
func (s *service) SellerLogin(ctx context.Context, email, password string) (Grant, error) {
	if !strings.EqualFold(strings.TrimSpace(email), s.seller.Email) {
		return Grant{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid seller credentials")
	}

	ok, err := security.VerifyPassword(password, s.seller.PasswordHash)
	if err != nil {
		return Grant{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "seller credential check failed")
	}
	if !ok {
		return Grant{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid seller credentials")
	}

	grant, err := s.issue(ctx, s.seller.Email, enums.ActorRoleSeller)
	if err != nil {
		return Grant{}, err
	}
	s.logg.Info(s.logg.WithActorRole(s.logg.WithUserEmail(ctx, s.seller.Email), string(enums.ActorRoleSeller)), "seller signed in")
	return grant, nil
}

// Logout revokes the session behind the token id. Revoking an unknown id is
// a no-op.
func (s *service) Logout(ctx context.Context, accessID string) error {
	if accessID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "access id is required")
	}
	return s.sessions.Revoke(ctx, accessID)
}

func (s *service) issue(ctx context.Context, email string, role enums.ActorRole) (Grant, error) {
	jti := session.NewAccessID()
	now := s.now()

	token, err := pkgauth.MintAccessToken(s.jwtCfg, now, pkgauth.AccessTokenPayload{
		Email: email,
		Role:  role,
		JTI:   jti,
	})
	if err != nil {
		return Grant{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to mint access token")
	}

	if err := s.sessions.Create(ctx, jti, email); err != nil {
		return Grant{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to create session")
	}

	return Grant{
		Token:     token,
		Email:     email,
		Role:      role,
		ExpiresAt: now.Add(time.Duration(s.jwtCfg.ExpirationMinutes) * time.Minute),
	}, nil
}
