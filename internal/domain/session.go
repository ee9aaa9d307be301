package domain

type AuthStatus string

const (
	AuthStatusIdle            AuthStatus = "idle"
	AuthStatusLoading         AuthStatus = "loading"
	AuthStatusAuthenticated   AuthStatus = "authenticated"
	AuthStatusUnauthenticated AuthStatus = "unauthenticated"
)

// SessionState is the client-visible authentication state of one device.
type SessionState struct {
	Status AuthStatus `json:"status"`
	UserID *string    `json:"user_id"`
	Email  *string    `json:"email"`
	Token  *string    `json:"token"`
	Error  *string    `json:"error"`
}

func NewSessionState() SessionState {
	return SessionState{Status: AuthStatusUnauthenticated}
}

func (s SessionState) Authenticated() bool {
	return s.Status == AuthStatusAuthenticated && s.Token != nil && *s.Token != ""
}

// SessionView is the session state as served over HTTP. The token stays on
// the server; clients already hold the one they were issued.
type SessionView struct {
	Status        AuthStatus `json:"status"`
	Authenticated bool       `json:"authenticated"`
	UserID        *string    `json:"user_id"`
	Email         *string    `json:"email"`
	Error         *string    `json:"error"`
}

func (s SessionState) View() SessionView {
	return SessionView{
		Status:        s.Status,
		Authenticated: s.Authenticated(),
		UserID:        s.UserID,
		Email:         s.Email,
		Error:         s.Error,
	}
}
