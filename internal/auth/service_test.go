package auth

import (
	"context"
	"testing"

	pkgauth "github.com/tumblera/tumblera-backend/pkg/auth"
	"github.com/tumblera/tumblera-backend/pkg/config"
	"github.com/tumblera/tumblera-backend/pkg/enums"
	pkgerrors "github.com/tumblera/tumblera-backend/pkg/errors"
	"github.com/tumblera/tumblera-backend/pkg/logger"
	"github.com/tumblera/tumblera-backend/pkg/security"
	"github.com/tumblera/tumblera-backend/pkg/supabase"
)

type stubAuthGateway struct {
	signUpUser   supabase.AuthUser
	signUpErr    error
	signInErr    error
	profileErr   error
	lastMetadata map[string]string
	lastProfile  supabase.ProfileRecord
	lastUserID   string
}

func (g *stubAuthGateway) SignUp(_ context.Context, email, _ string, metadata map[string]string) (supabase.AuthUser, error) {
	g.lastMetadata = metadata
	if g.signUpErr != nil {
		return supabase.AuthUser{}, g.signUpErr
	}
	if g.signUpUser.Email == "" {
		g.signUpUser.Email = email
	}
	return g.signUpUser, nil
}

func (g *stubAuthGateway) SignInWithPassword(_ context.Context, email, _ string) (supabase.AuthSession, error) {
	if g.signInErr != nil {
		return supabase.AuthSession{}, g.signInErr
	}
	return supabase.AuthSession{AccessToken: "remote-token", User: supabase.AuthUser{Email: email}}, nil
}

func (g *stubAuthGateway) CreateProfile(_ context.Context, userID string, profile supabase.ProfileRecord) (supabase.ProfileRecord, error) {
	g.lastUserID = userID
	g.lastProfile = profile
	if g.profileErr != nil {
		return supabase.ProfileRecord{}, g.profileErr
	}
	return profile, nil
}

type stubSessions struct {
	created []string
	revoked []string
}

func (s *stubSessions) Create(_ context.Context, accessID, _ string) error {
	s.created = append(s.created, accessID)
	return nil
}

func (s *stubSessions) Revoke(_ context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret-test-secret-test-secret",
		Issuer:            "tumblera-test",
		ExpirationMinutes: 60,
	}
}

func testSellerConfig(t *testing.T, password string) config.SellerConfig {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	return config.SellerConfig{Email: "seller@tumblera.ph", PasswordHash: hash}
}

func newTestService(t *testing.T, gw gateway, sessions *stubSessions, seller config.SellerConfig) Service {
	t.Helper()
	svc, err := NewService(gw, sessions, testJWTConfig(), seller, logger.New(logger.Options{ServiceName: "test"}))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestSignUpCreatesProfileAndIssuesCustomerToken(t *testing.T) {
	gw := &stubAuthGateway{signUpUser: supabase.AuthUser{ID: "uid-1", Email: "ana@example.com"}}
	sessions := &stubSessions{}
	svc := newTestService(t, gw, sessions, testSellerConfig(t, "secret"))

	grant, err := svc.SignUp(context.Background(), SignUpInput{
		Email:     "ana@example.com",
		Password:  "hunter2!",
		FirstName: "Ana",
		LastName:  "Cruz",
		Phone:     "09171234567",
	})
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	if gw.lastUserID != "uid-1" {
		t.Fatalf("profile created for %q", gw.lastUserID)
	}
	if gw.lastProfile.Role != enums.ActorRoleCustomer || gw.lastProfile.Phone != "09171234567" {
		t.Fatalf("unexpected profile %+v", gw.lastProfile)
	}
	if grant.Role != enums.ActorRoleCustomer {
		t.Fatalf("unexpected role %q", grant.Role)
	}
	if len(sessions.created) != 1 {
		t.Fatalf("expected one session, got %d", len(sessions.created))
	}

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), grant.Token)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.Email != "ana@example.com" || claims.Role != enums.ActorRoleCustomer {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if claims.ID != sessions.created[0] {
		t.Fatalf("token jti %q does not match session %q", claims.ID, sessions.created[0])
	}
}

func TestSignUpSurvivesProfileRowFailure(t *testing.T) {
	gw := &stubAuthGateway{
		signUpUser: supabase.AuthUser{ID: "uid-1"},
		profileErr: pkgerrors.New(pkgerrors.CodeDependency, "users table unavailable"),
	}
	svc := newTestService(t, gw, &stubSessions{}, testSellerConfig(t, "secret"))

	_, err := svc.SignUp(context.Background(), SignUpInput{Email: "ana@example.com", Password: "hunter2!"})
	if err != nil {
		t.Fatalf("SignUp must tolerate profile row failure, got %v", err)
	}
}

func TestSignInProxiesRemoteFailure(t *testing.T) {
	gw := &stubAuthGateway{signInErr: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid login credentials")}
	svc := newTestService(t, gw, &stubSessions{}, testSellerConfig(t, "secret"))

	_, err := svc.SignIn(context.Background(), "ana@example.com", "wrong")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected UNAUTHORIZED, got %v", err)
	}
}

func TestSignInIssuesCustomerGrant(t *testing.T) {
	sessions := &stubSessions{}
	svc := newTestService(t, &stubAuthGateway{}, sessions, testSellerConfig(t, "secret"))

	grant, err := svc.SignIn(context.Background(), "ana@example.com", "hunter2!")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if grant.Role != enums.ActorRoleCustomer || grant.Email != "ana@example.com" {
		t.Fatalf("unexpected grant %+v", grant)
	}
	if len(sessions.created) != 1 {
		t.Fatalf("expected one session, got %d", len(sessions.created))
	}
}

func TestSellerLoginVerifiesArgonHash(t *testing.T) {
	sessions := &stubSessions{}
	svc := newTestService(t, &stubAuthGateway{}, sessions, testSellerConfig(t, "top-secret"))

	grant, err := svc.SellerLogin(context.Background(), "seller@tumblera.ph", "top-secret")
	if err != nil {
		t.Fatalf("SellerLogin: %v", err)
	}
	if grant.Role != enums.ActorRoleSeller {
		t.Fatalf("unexpected role %q", grant.Role)
	}

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), grant.Token)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.Role != enums.ActorRoleSeller {
		t.Fatalf("token carries role %q", claims.Role)
	}
}

func TestSellerLoginRejectsBadCredentials(t *testing.T) {
	svc := newTestService(t, &stubAuthGateway{}, &stubSessions{}, testSellerConfig(t, "top-secret"))

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", "seller@tumblera.ph", "nope"},
		{"wrong email", "intruder@example.com", "top-secret"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.SellerLogin(context.Background(), tc.email, tc.password)
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
				t.Fatalf("expected UNAUTHORIZED, got %v", err)
			}
		})
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	sessions := &stubSessions{}
	svc := newTestService(t, &stubAuthGateway{}, sessions, testSellerConfig(t, "secret"))

	if err := svc.Logout(context.Background(), "jti-1"); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if len(sessions.revoked) != 1 || sessions.revoked[0] != "jti-1" {
		t.Fatalf("unexpected revocations %v", sessions.revoked)
	}
}

func TestCustomerFlowsRequireGateway(t *testing.T) {
	svc, err := NewService(nil, &stubSessions{}, testJWTConfig(), testSellerConfig(t, "secret"), logger.New(logger.Options{ServiceName: "test"}))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	_, err = svc.SignIn(context.Background(), "ana@example.com", "pw")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected DEPENDENCY, got %v", err)
	}
}
