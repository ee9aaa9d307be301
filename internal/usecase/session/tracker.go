// Package session holds the client-visible authentication state of one device.
package session

import (
	"log"

	"github.com/gdugdh24/spark-backend/internal/domain"
	"github.com/google/uuid"
)

// TokenIssuer produces a token when the identity provider did not return one.
type TokenIssuer interface {
	Issue(userID, email string) (string, error)
}

// PlaceholderIssuer returns opaque "token_<uuid>" values.
type PlaceholderIssuer struct{}

func (PlaceholderIssuer) Issue(userID, email string) (string, error) {
	return "token_" + uuid.NewString(), nil
}

type Tracker struct {
	state  domain.SessionState
	issuer TokenIssuer
}

// NewTracker starts unauthenticated with no identity. A nil issuer falls back
// to PlaceholderIssuer.
func NewTracker(issuer TokenIssuer) *Tracker {
	return Restore(domain.NewSessionState(), issuer)
}

func Restore(state domain.SessionState, issuer TokenIssuer) *Tracker {
	if issuer == nil {
		issuer = PlaceholderIssuer{}
	}
	if state.Status == "" {
		state.Status = domain.AuthStatusUnauthenticated
	}
	return &Tracker{state: state, issuer: issuer}
}

func (t *Tracker) State() domain.SessionState {
	return t.state
}

// MarkLoading starts an attempt. Any previous error is cleared.
func (t *Tracker) MarkLoading() {
	t.state.Status = domain.AuthStatusLoading
	t.state.Error = nil
}

// MarkAuthenticated records the identity. An empty token is replaced with an
// issued one; if issuing fails the attempt is recorded as an error instead.
func (t *Tracker) MarkAuthenticated(userID, email, token string) error {
	if token == "" {
		issued, err := t.issuer.Issue(userID, email)
		if err != nil {
			log.Printf("[Auth] token issue failed for %s: %v", userID, err)
			t.MarkError("Could not issue session token")
			return err
		}
		token = issued
	}
	t.state = domain.SessionState{
		Status: domain.AuthStatusAuthenticated,
		UserID: &userID,
		Email:  &email,
		Token:  &token,
	}
	return nil
}

// MarkError ends an attempt as failed. No identity survives a failed attempt.
func (t *Tracker) MarkError(message string) {
	t.state = domain.NewSessionState()
	t.state.Error = &message
}

func (t *Tracker) ClearError() {
	t.state.Error = nil
}

func (t *Tracker) SignOut() {
	t.state = domain.NewSessionState()
}
