package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/gdugdh24/spark-backend/internal/domain"
	"github.com/gdugdh24/spark-backend/internal/repository"
	"github.com/gdugdh24/spark-backend/internal/usecase/session"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

// Messages shown to the user through the session error.
const (
	MsgMissingCredentials = "Email and password are required"
	MsgInvalidEmail       = "Invalid email format"
	MsgPasswordTooShort   = "Password must be at least 6 characters"
	MsgInvalidCredentials = "Invalid credentials"
	MsgEmailTaken         = "An account with this email already exists"
	MsgMissingIdentity    = "User id, email and provider token are required"
	MsgExternalRejected   = "Sign in with this provider failed"
	MsgExternalDisabled   = "Sign in with an outside provider is not available"
	MsgUnexpected         = "Something went wrong, please try again"
)

// AuthError is a failed sign-in attempt. Message is the text stored in the
// device's session state.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string { return e.Message }

func (e *AuthError) Unwrap() error { return e.Err }

type AuthUseCase struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	stateRepo   repository.SessionStateRepository
	external    ExternalVerifier
	drafts      DraftDiscarder
	jwtSecret   string
	tokenTTL    time.Duration
	locks       sync.Map
}

// NewAuthUseCase wires the auth flows. A nil external verifier turns outside
// sign in off; a nil draft discarder leaves drafts untouched on logout.
func NewAuthUseCase(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	stateRepo repository.SessionStateRepository,
	external ExternalVerifier,
	drafts DraftDiscarder,
	jwtSecret string,
	tokenTTL time.Duration,
) *AuthUseCase {
	return &AuthUseCase{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		stateRepo:   stateRepo,
		external:    external,
		drafts:      drafts,
		jwtSecret:   jwtSecret,
		tokenTTL:    tokenTTL,
	}
}

// CredentialsRequest is used by both register and login
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ExternalAuthRequest is the identity triple handed over by an identity
// provider. Token must vouch for UserID and Email.
type ExternalAuthRequest struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Token  string `json:"token"`
}

// ClientInfo describes the caller of an auth request
type ClientInfo struct {
	DeviceID   string
	DeviceInfo string
	IPAddress  string
}

// AuthResponse represents the authentication response
type AuthResponse struct {
	Token     string              `json:"token"`
	ExpiresAt time.Time           `json:"expires_at"`
	User      *domain.User        `json:"user"`
	IsNewUser bool                `json:"is_new_user"`
	State     domain.SessionView  `json:"state"`
}

func (uc *AuthUseCase) lock(deviceID string) func() {
	v, _ := uc.locks.LoadOrStore(deviceID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (uc *AuthUseCase) loadTracker(ctx context.Context, deviceID string, issuer session.TokenIssuer) (*session.Tracker, error) {
	state, err := uc.stateRepo.Get(ctx, deviceID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionStateNotFound) {
			return session.NewTracker(issuer), nil
		}
		return nil, fmt.Errorf("failed to load session state: %w", err)
	}
	return session.Restore(*state, issuer), nil
}

func (uc *AuthUseCase) saveTracker(ctx context.Context, deviceID string, tr *session.Tracker) error {
	state := tr.State()
	if err := uc.stateRepo.Save(ctx, deviceID, &state); err != nil {
		return fmt.Errorf("failed to save session state: %w", err)
	}
	return nil
}

// attempt runs one sign-in attempt against the device's tracker. The tracker
// goes to loading first and ends either authenticated or carrying the error
// message of the failure.
func (uc *AuthUseCase) attempt(
	ctx context.Context,
	client ClientInfo,
	fn func(tr *session.Tracker, issuer *sessionIssuer) (*AuthResponse, error),
) (*AuthResponse, error) {
	unlock := uc.lock(client.DeviceID)
	defer unlock()

	issuer := &sessionIssuer{uc: uc, ctx: ctx, client: client}
	tr, err := uc.loadTracker(ctx, client.DeviceID, issuer)
	if err != nil {
		return nil, err
	}
	tr.MarkLoading()

	resp, err := fn(tr, issuer)
	if err != nil {
		var authErr *AuthError
		if !errors.As(err, &authErr) {
			log.Printf("[Auth] attempt failed on device %s: %v", client.DeviceID, err)
			authErr = &AuthError{Message: MsgUnexpected, Err: err}
		}
		tr.MarkError(authErr.Message)
		if saveErr := uc.saveTracker(ctx, client.DeviceID, tr); saveErr != nil {
			log.Printf("[Auth] %v", saveErr)
		}
		return nil, authErr
	}

	if err := uc.saveTracker(ctx, client.DeviceID, tr); err != nil {
		return nil, err
	}
	resp.State = tr.State().View()
	return resp, nil
}

func validateCredentials(req *CredentialsRequest, register bool) *AuthError {
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return &AuthError{Message: MsgMissingCredentials, Err: domain.ErrInvalidInput}
	}
	if !strings.Contains(req.Email, "@") {
		return &AuthError{Message: MsgInvalidEmail, Err: domain.ErrInvalidInput}
	}
	if len(req.Password) < minPasswordLength {
		if register {
			return &AuthError{Message: MsgPasswordTooShort, Err: domain.ErrInvalidInput}
		}
		return &AuthError{Message: MsgInvalidCredentials, Err: domain.ErrInvalidCredentials}
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a password account and signs the device in
func (uc *AuthUseCase) Register(ctx context.Context, client ClientInfo, req *CredentialsRequest) (*AuthResponse, error) {
	return uc.attempt(ctx, client, func(tr *session.Tracker, issuer *sessionIssuer) (*AuthResponse, error) {
		if authErr := validateCredentials(req, true); authErr != nil {
			return nil, authErr
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		hashStr := string(hash)

		user := &domain.User{
			ID:           uuid.NewString(),
			Email:        normalizeEmail(req.Email),
			PasswordHash: &hashStr,
			Provider:     domain.ProviderPassword,
		}
		if err := uc.userRepo.Create(ctx, user); err != nil {
			if errors.Is(err, domain.ErrUserAlreadyExists) {
				return nil, &AuthError{Message: MsgEmailTaken, Err: err}
			}
			return nil, fmt.Errorf("failed to create user: %w", err)
		}

		if err := tr.MarkAuthenticated(user.ID, user.Email, ""); err != nil {
			return nil, err
		}
		log.Printf("[Auth] registered user %s", user.ID)
		return &AuthResponse{
			Token:     issuer.token,
			ExpiresAt: issuer.expiresAt,
			User:      user,
			IsNewUser: true,
		}, nil
	})
}

// Login signs the device in with email and password
func (uc *AuthUseCase) Login(ctx context.Context, client ClientInfo, req *CredentialsRequest) (*AuthResponse, error) {
	return uc.attempt(ctx, client, func(tr *session.Tracker, issuer *sessionIssuer) (*AuthResponse, error) {
		if authErr := validateCredentials(req, false); authErr != nil {
			return nil, authErr
		}

		user, err := uc.userRepo.GetByEmail(ctx, normalizeEmail(req.Email))
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				return nil, &AuthError{Message: MsgInvalidCredentials, Err: domain.ErrInvalidCredentials}
			}
			return nil, fmt.Errorf("failed to get user: %w", err)
		}
		if user.PasswordHash == nil ||
			bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)) != nil {
			return nil, &AuthError{Message: MsgInvalidCredentials, Err: domain.ErrInvalidCredentials}
		}

		if err := tr.MarkAuthenticated(user.ID, user.Email, ""); err != nil {
			return nil, err
		}
		return &AuthResponse{
			Token:     issuer.token,
			ExpiresAt: issuer.expiresAt,
			User:      user,
		}, nil
	})
}

// External accepts an identity from an outside provider once the provider
// token checks out. The provider token is what the device's session state
// carries; API access always uses a session token issued here.
func (uc *AuthUseCase) External(ctx context.Context, client ClientInfo, req *ExternalAuthRequest) (*AuthResponse, error) {
	return uc.attempt(ctx, client, func(tr *session.Tracker, issuer *sessionIssuer) (*AuthResponse, error) {
		if req.UserID == "" || strings.TrimSpace(req.Email) == "" || req.Token == "" {
			return nil, &AuthError{Message: MsgMissingIdentity, Err: domain.ErrInvalidInput}
		}
		if uc.external == nil {
			return nil, &AuthError{Message: MsgExternalDisabled, Err: domain.ErrInvalidCredentials}
		}
		email := normalizeEmail(req.Email)

		identity, err := uc.external.VerifyExternal(ctx, req.Token)
		if err != nil {
			log.Printf("[Auth] provider token rejected on device %s: %v", client.DeviceID, err)
			return nil, &AuthError{Message: MsgExternalRejected, Err: domain.ErrInvalidCredentials}
		}
		if identity.UserID != req.UserID || normalizeEmail(identity.Email) != email {
			return nil, &AuthError{Message: MsgExternalRejected, Err: domain.ErrInvalidCredentials}
		}

		isNewUser := false
		user, err := uc.userRepo.GetByID(ctx, req.UserID)
		if errors.Is(err, domain.ErrUserNotFound) {
			user = &domain.User{
				ID:       req.UserID,
				Email:    email,
				Provider: domain.ProviderExternal,
			}
			if err := uc.userRepo.Create(ctx, user); err != nil {
				if errors.Is(err, domain.ErrUserAlreadyExists) {
					return nil, &AuthError{Message: MsgEmailTaken, Err: err}
				}
				return nil, fmt.Errorf("failed to create user: %w", err)
			}
			isNewUser = true
		} else if err != nil {
			return nil, fmt.Errorf("failed to get user: %w", err)
		} else if user.Provider != domain.ProviderExternal || user.Email != email {
			log.Printf("[Auth] external sign in refused for user %s", user.ID)
			return nil, &AuthError{Message: MsgExternalRejected, Err: domain.ErrInvalidCredentials}
		}

		if _, err := issuer.Issue(user.ID, user.Email); err != nil {
			return nil, err
		}
		if err := tr.MarkAuthenticated(user.ID, user.Email, req.Token); err != nil {
			return nil, err
		}
		return &AuthResponse{
			Token:     issuer.token,
			ExpiresAt: issuer.expiresAt,
			User:      user,
			IsNewUser: isNewUser,
		}, nil
	})
}

// Logout drops the server session and the user's onboarding draft, then
// signs the device out
func (uc *AuthUseCase) Logout(ctx context.Context, deviceID, userID, tokenString string) error {
	unlock := uc.lock(deviceID)
	defer unlock()

	if err := uc.sessionRepo.DeleteByToken(ctx, hashToken(tokenString)); err != nil &&
		!errors.Is(err, domain.ErrSessionNotFound) {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if uc.drafts != nil && userID != "" {
		if err := uc.drafts.Discard(ctx, userID); err != nil {
			return err
		}
	}

	tr, err := uc.loadTracker(ctx, deviceID, nil)
	if err != nil {
		return err
	}
	tr.SignOut()
	return uc.saveTracker(ctx, deviceID, tr)
}

// GetState returns the device's session state
func (uc *AuthUseCase) GetState(ctx context.Context, deviceID string) (*domain.SessionState, error) {
	tr, err := uc.loadTracker(ctx, deviceID, nil)
	if err != nil {
		return nil, err
	}
	state := tr.State()
	return &state, nil
}

// ClearError dismisses the error shown on the device
func (uc *AuthUseCase) ClearError(ctx context.Context, deviceID string) (*domain.SessionState, error) {
	unlock := uc.lock(deviceID)
	defer unlock()

	tr, err := uc.loadTracker(ctx, deviceID, nil)
	if err != nil {
		return nil, err
	}
	tr.ClearError()
	if err := uc.saveTracker(ctx, deviceID, tr); err != nil {
		return nil, err
	}
	state := tr.State()
	return &state, nil
}

func (uc *AuthUseCase) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return uc.userRepo.GetByID(ctx, userID)
}

// createSession creates a new session and returns JWT token
func (uc *AuthUseCase) createSession(ctx context.Context, userID, email string, client ClientInfo) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(uc.tokenTTL)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"jti":     uuid.NewString(),
		"exp":     expiresAt.Unix(),
		"iat":     now.Unix(),
	})

	tokenString, err := token.SignedString([]byte(uc.jwtSecret))
	if err != nil {
		return "", time.Time{}, err
	}

	sess := &domain.Session{
		UserID:    userID,
		Token:     hashToken(tokenString),
		ExpiresAt: expiresAt,
	}
	if client.DeviceInfo != "" {
		sess.DeviceInfo = &client.DeviceInfo
	}
	if client.IPAddress != "" {
		sess.IPAddress = &client.IPAddress
	}

	if err := uc.sessionRepo.Create(ctx, sess); err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

// TokenClaims is the identity carried by a verified token
type TokenClaims struct {
	UserID string
	Email  string
}

// VerifyToken verifies JWT token and its backing session
func (uc *AuthUseCase) VerifyToken(ctx context.Context, tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidToken
		}
		return []byte(uc.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.ErrInvalidToken
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return nil, domain.ErrInvalidToken
	}
	email, _ := claims["email"].(string)

	sess, err := uc.sessionRepo.GetByToken(ctx, hashToken(tokenString))
	if err != nil {
		return nil, domain.ErrSessionNotFound
	}
	if sess.IsExpired() {
		return nil, domain.ErrSessionExpired
	}

	return &TokenClaims{UserID: userID, Email: email}, nil
}

// CleanupExpiredSessions removes sessions past their expiry
func (uc *AuthUseCase) CleanupExpiredSessions(ctx context.Context) (int64, error) {
	n, err := uc.sessionRepo.DeleteExpired(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	if n > 0 {
		log.Printf("[Auth] removed %d expired sessions", n)
	}
	return n, nil
}

// hashToken creates SHA256 hash of token for storage
func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

// sessionIssuer hands the session tracker a freshly issued API token and
// remembers it for the response.
type sessionIssuer struct {
	uc        *AuthUseCase
	ctx       context.Context
	client    ClientInfo
	token     string
	expiresAt time.Time
}

func (s *sessionIssuer) Issue(userID, email string) (string, error) {
	token, expiresAt, err := s.uc.createSession(s.ctx, userID, email, s.client)
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	s.token = token
	s.expiresAt = expiresAt
	return token, nil
}
