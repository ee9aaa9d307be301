package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gdugdh24/spark-backend/internal/domain"
	"github.com/gdugdh24/spark-backend/internal/repository/memory"
	"github.com/golang-jwt/jwt/v5"
)

const providerSecret = "provider-secret-0123456789abcdef"

// discardLog records the users whose drafts were discarded
type discardLog struct {
	users []string
}

func (d *discardLog) Discard(_ context.Context, userID string) error {
	d.users = append(d.users, userID)
	return nil
}

func newTestAuth() (*AuthUseCase, *memory.SessionRepository, *discardLog) {
	sessions := memory.NewSessionRepository()
	drafts := &discardLog{}
	uc := NewAuthUseCase(
		memory.NewUserRepository(),
		sessions,
		memory.NewSessionStateRepository(),
		NewSharedSecretVerifier(providerSecret, ""),
		drafts,
		"test-secret",
		time.Hour,
	)
	return uc, sessions, drafts
}

func providerToken(t *testing.T, secret, sub, email string, ttl time.Duration) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   sub,
		"email": email,
		"iss":   "idp.example.com",
		"exp":   time.Now().Add(ttl).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}
	return signed
}

var phone = ClientInfo{DeviceID: "phone-1", DeviceInfo: "test-client", IPAddress: "127.0.0.1"}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name    string
		req     CredentialsRequest
		message string
	}{
		{"empty email", CredentialsRequest{Email: "", Password: "secret1"}, MsgMissingCredentials},
		{"empty password", CredentialsRequest{Email: "a@example.com"}, MsgMissingCredentials},
		{"no at sign", CredentialsRequest{Email: "example.com", Password: "secret1"}, MsgInvalidEmail},
		{"short password", CredentialsRequest{Email: "a@example.com", Password: "12345"}, MsgPasswordTooShort},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, _, _ := newTestAuth()
			ctx := context.Background()

			_, err := uc.Register(ctx, phone, &tt.req)
			var authErr *AuthError
			if !errors.As(err, &authErr) {
				t.Fatalf("error = %v, want *AuthError", err)
			}
			if authErr.Message != tt.message {
				t.Errorf("Message = %q, want %q", authErr.Message, tt.message)
			}

			state, _ := uc.GetState(ctx, phone.DeviceID)
			if state.Status != domain.AuthStatusUnauthenticated || state.Error == nil || *state.Error != tt.message {
				t.Errorf("state = %+v", state)
			}
		})
	}
}

func TestRegisterLoginLogout(t *testing.T) {
	uc, _, drafts := newTestAuth()
	ctx := context.Background()

	reg, err := uc.Register(ctx, phone, &CredentialsRequest{Email: "Ana@Example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if !reg.IsNewUser || reg.Token == "" || reg.User.Email != "ana@example.com" {
		t.Fatalf("register response = %+v", reg)
	}
	if !reg.State.Authenticated || reg.State.UserID == nil || *reg.State.UserID != reg.User.ID {
		t.Errorf("state = %+v", reg.State)
	}
	stored, _ := uc.GetState(ctx, phone.DeviceID)
	if stored.Token == nil || *stored.Token != reg.Token {
		t.Errorf("stored state = %+v", stored)
	}

	claims, err := uc.VerifyToken(ctx, reg.Token)
	if err != nil {
		t.Fatalf("VerifyToken() error = %v", err)
	}
	if claims.UserID != reg.User.ID || claims.Email != "ana@example.com" {
		t.Errorf("claims = %+v", claims)
	}

	if _, err := uc.Register(ctx, phone, &CredentialsRequest{Email: "ana@example.com", Password: "secret1"}); !errors.Is(err, domain.ErrUserAlreadyExists) {
		t.Errorf("duplicate register error = %v", err)
	}

	login, err := uc.Login(ctx, phone, &CredentialsRequest{Email: "ana@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if login.User.ID != reg.User.ID || login.IsNewUser {
		t.Errorf("login response = %+v", login)
	}

	if err := uc.Logout(ctx, phone.DeviceID, login.User.ID, login.Token); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if len(drafts.users) != 1 || drafts.users[0] != reg.User.ID {
		t.Errorf("discarded drafts = %v, want [%s]", drafts.users, reg.User.ID)
	}
	if _, err := uc.VerifyToken(ctx, login.Token); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("VerifyToken after logout error = %v", err)
	}
	state, _ := uc.GetState(ctx, phone.DeviceID)
	if *state != domain.NewSessionState() {
		t.Errorf("state after logout = %+v", state)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	uc, _, _ := newTestAuth()
	ctx := context.Background()
	if _, err := uc.Register(ctx, phone, &CredentialsRequest{Email: "a@example.com", Password: "secret1"}); err != nil {
		t.Fatal(err)
	}

	cases := []CredentialsRequest{
		{Email: "a@example.com", Password: "wrong-password"},
		{Email: "a@example.com", Password: "123"},
		{Email: "nobody@example.com", Password: "secret1"},
	}
	for _, req := range cases {
		req := req
		_, err := uc.Login(ctx, phone, &req)
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Errorf("Login(%q, %q) error = %v", req.Email, req.Password, err)
		}
		if err != nil && err.Error() != MsgInvalidCredentials {
			t.Errorf("message = %q", err.Error())
		}
	}
}

func TestNextAttemptClearsError(t *testing.T) {
	uc, _, _ := newTestAuth()
	ctx := context.Background()

	_, _ = uc.Login(ctx, phone, &CredentialsRequest{Email: "bad"})
	state, _ := uc.GetState(ctx, phone.DeviceID)
	if state.Error == nil {
		t.Fatal("expected error in state")
	}

	if _, err := uc.Register(ctx, phone, &CredentialsRequest{Email: "b@example.com", Password: "secret1"}); err != nil {
		t.Fatal(err)
	}
	state, _ = uc.GetState(ctx, phone.DeviceID)
	if state.Error != nil {
		t.Errorf("error survived a successful attempt: %q", *state.Error)
	}
}

func TestClearError(t *testing.T) {
	uc, _, _ := newTestAuth()
	ctx := context.Background()
	_, _ = uc.Login(ctx, phone, &CredentialsRequest{})

	state, err := uc.ClearError(ctx, phone.DeviceID)
	if err != nil {
		t.Fatal(err)
	}
	if state.Error != nil || state.Status != domain.AuthStatusUnauthenticated {
		t.Errorf("state = %+v", state)
	}
}

func TestExternal(t *testing.T) {
	uc, _, _ := newTestAuth()
	ctx := context.Background()
	token := providerToken(t, providerSecret, "idp-42", "X@example.com", time.Hour)

	resp, err := uc.External(ctx, phone, &ExternalAuthRequest{UserID: "idp-42", Email: "x@example.com", Token: token})
	if err != nil {
		t.Fatalf("External() error = %v", err)
	}
	if !resp.IsNewUser || resp.User.Provider != domain.ProviderExternal || !resp.State.Authenticated {
		t.Errorf("response = %+v", resp)
	}
	state, _ := uc.GetState(ctx, phone.DeviceID)
	if state.Token == nil || *state.Token != token {
		t.Errorf("state token = %v, want provider token", state.Token)
	}
	if _, err := uc.VerifyToken(ctx, resp.Token); err != nil {
		t.Errorf("issued API token does not verify: %v", err)
	}

	resp, err = uc.External(ctx, phone, &ExternalAuthRequest{UserID: "idp-42", Email: "x@example.com", Token: token})
	if err != nil {
		t.Fatal(err)
	}
	if resp.IsNewUser {
		t.Error("second sign-in reported as new user")
	}

	if _, err := uc.External(ctx, phone, &ExternalAuthRequest{UserID: "idp-42", Email: "x@example.com"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("missing token error = %v", err)
	}
	if _, err := uc.External(ctx, phone, &ExternalAuthRequest{Email: "x@example.com", Token: token}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("missing user id error = %v", err)
	}
}

func TestExternalRefusesUnvouchedIdentity(t *testing.T) {
	uc, _, _ := newTestAuth()
	ctx := context.Background()

	ana, err := uc.Register(ctx, phone, &CredentialsRequest{Email: "ana@example.com", Password: "secret1"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := uc.External(ctx, phone, &ExternalAuthRequest{
		UserID: "idp-7", Email: "idp7@example.com",
		Token: providerToken(t, providerSecret, "idp-7", "idp7@example.com", time.Hour),
	}); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		req  ExternalAuthRequest
	}{
		{"forged signature", ExternalAuthRequest{UserID: "idp-9", Email: "n@example.com",
			Token: providerToken(t, "some-other-secret-0123456789abcd", "idp-9", "n@example.com", time.Hour)}},
		{"expired", ExternalAuthRequest{UserID: "idp-9", Email: "n@example.com",
			Token: providerToken(t, providerSecret, "idp-9", "n@example.com", -time.Minute)}},
		{"token for another user", ExternalAuthRequest{UserID: ana.User.ID, Email: "ana@example.com",
			Token: providerToken(t, providerSecret, "idp-9", "ana@example.com", time.Hour)}},
		{"token for another email", ExternalAuthRequest{UserID: "idp-9", Email: "n@example.com",
			Token: providerToken(t, providerSecret, "idp-9", "m@example.com", time.Hour)}},
		{"password account", ExternalAuthRequest{UserID: ana.User.ID, Email: "ana@example.com",
			Token: providerToken(t, providerSecret, ana.User.ID, "ana@example.com", time.Hour)}},
		{"external account under a new email", ExternalAuthRequest{UserID: "idp-7", Email: "evil@example.com",
			Token: providerToken(t, providerSecret, "idp-7", "evil@example.com", time.Hour)}},
		{"garbage", ExternalAuthRequest{UserID: "idp-9", Email: "n@example.com", Token: "not-a-jwt"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := uc.External(ctx, phone, &tt.req)
			if !errors.Is(err, domain.ErrInvalidCredentials) {
				t.Fatalf("External() = %+v, %v; want ErrInvalidCredentials", resp, err)
			}
			if err.Error() != MsgExternalRejected {
				t.Errorf("message = %q", err.Error())
			}
			state, _ := uc.GetState(ctx, phone.DeviceID)
			if state.Authenticated() {
				t.Errorf("device signed in after refusal: %+v", state)
			}
		})
	}
}

func TestExternalDisabledWithoutVerifier(t *testing.T) {
	uc := NewAuthUseCase(memory.NewUserRepository(), memory.NewSessionRepository(), memory.NewSessionStateRepository(),
		nil, nil, "test-secret", time.Hour)
	_, err := uc.External(context.Background(), phone, &ExternalAuthRequest{
		UserID: "idp-1", Email: "a@example.com",
		Token: providerToken(t, providerSecret, "idp-1", "a@example.com", time.Hour),
	})
	if !errors.Is(err, domain.ErrInvalidCredentials) || err.Error() != MsgExternalDisabled {
		t.Errorf("External() error = %v", err)
	}
}

func TestSharedSecretVerifierIssuer(t *testing.T) {
	token := providerToken(t, providerSecret, "idp-1", "a@example.com", time.Hour)
	ctx := context.Background()

	id, err := NewSharedSecretVerifier(providerSecret, "idp.example.com").VerifyExternal(ctx, token)
	if err != nil || id.UserID != "idp-1" || id.Email != "a@example.com" {
		t.Errorf("VerifyExternal() = %+v, %v", id, err)
	}
	if _, err := NewSharedSecretVerifier(providerSecret, "other-idp").VerifyExternal(ctx, token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Errorf("wrong issuer error = %v", err)
	}
}

func TestVerifyToken(t *testing.T) {
	uc, sessions, _ := newTestAuth()
	ctx := context.Background()

	if _, err := uc.VerifyToken(ctx, "not-a-jwt"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Errorf("garbage token error = %v", err)
	}

	other := NewAuthUseCase(memory.NewUserRepository(), sessions, memory.NewSessionStateRepository(), nil, nil, "other-secret", time.Hour)
	resp, err := other.Register(ctx, phone, &CredentialsRequest{Email: "c@example.com", Password: "secret1"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := uc.VerifyToken(ctx, resp.Token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Errorf("foreign signature error = %v", err)
	}
}

func TestCleanupExpiredSessions(t *testing.T) {
	sessions := memory.NewSessionRepository()
	uc := NewAuthUseCase(memory.NewUserRepository(), sessions, memory.NewSessionStateRepository(), nil, nil, "s", -time.Minute)
	ctx := context.Background()

	if _, err := uc.Register(ctx, phone, &CredentialsRequest{Email: "d@example.com", Password: "secret1"}); err != nil {
		t.Fatal(err)
	}
	n, err := uc.CleanupExpiredSessions(ctx)
	if err != nil || n != 1 {
		t.Errorf("CleanupExpiredSessions() = %d, %v; want 1, nil", n, err)
	}
}

func TestDevicesAreIndependent(t *testing.T) {
	uc, _, _ := newTestAuth()
	ctx := context.Background()
	tablet := ClientInfo{DeviceID: "tablet-1"}

	if _, err := uc.Register(ctx, phone, &CredentialsRequest{Email: "e@example.com", Password: "secret1"}); err != nil {
		t.Fatal(err)
	}
	state, _ := uc.GetState(ctx, tablet.DeviceID)
	if state.Authenticated() {
		t.Error("tablet should not be signed in")
	}
}
