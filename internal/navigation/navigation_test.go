package navigation

import (
	"testing"

	"github.com/gdugdh24/spark-backend/internal/domain"
)

func TestResolve(t *testing.T) {
	token := "t"
	empty := ""
	uid := "u1"
	authed := domain.SessionState{Status: domain.AuthStatusAuthenticated, UserID: &uid, Token: &token}
	finished := &domain.Profile{ID: "u1", OnboardingCompleted: true}
	unfinished := &domain.Profile{ID: "u1"}

	tests := []struct {
		name    string
		session domain.SessionState
		profile *domain.Profile
		want    Route
	}{
		{"signed out", domain.NewSessionState(), finished, RouteAuth},
		{"loading", domain.SessionState{Status: domain.AuthStatusLoading}, nil, RouteAuth},
		{"idle", domain.SessionState{Status: domain.AuthStatusIdle}, nil, RouteAuth},
		{"authenticated without token", domain.SessionState{Status: domain.AuthStatusAuthenticated, Token: &empty}, finished, RouteAuth},
		{"no profile yet", authed, nil, RouteOnboarding},
		{"profile not completed", authed, unfinished, RouteOnboarding},
		{"completed", authed, finished, RouteMain},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.session, tt.profile); got != tt.want {
				t.Errorf("Resolve() = %s, want %s", got, tt.want)
			}
		})
	}
}
