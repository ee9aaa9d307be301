// Package navigation picks the screen group a client should show.
package navigation

import "github.com/gdugdh24/spark-backend/internal/domain"

type Route string

const (
	RouteAuth       Route = "auth"
	RouteOnboarding Route = "onboarding"
	RouteMain       Route = "main"
)

// Resolve maps session and profile state to a screen group. profile is nil
// when the user has not finished onboarding yet.
func Resolve(session domain.SessionState, profile *domain.Profile) Route {
	if !session.Authenticated() {
		return RouteAuth
	}
	if profile == nil || !profile.OnboardingCompleted {
		return RouteOnboarding
	}
	return RouteMain
}
