package handler

import (
	"errors"
	"net/http"

	"github.com/gdugdh24/spark-backend/internal/domain"
	"github.com/gdugdh24/spark-backend/internal/navigation"
	"github.com/gdugdh24/spark-backend/internal/usecase/auth"
	"github.com/gdugdh24/spark-backend/internal/usecase/profile"
	"github.com/gin-gonic/gin"
)

type NavigationHandler struct {
	authUseCase    *auth.AuthUseCase
	profileUseCase *profile.ProfileUseCase
}

func NewNavigationHandler(authUseCase *auth.AuthUseCase, profileUseCase *profile.ProfileUseCase) *NavigationHandler {
	return &NavigationHandler{
		authUseCase:    authUseCase,
		profileUseCase: profileUseCase,
	}
}

// NavigationResponse names the screen group to show
type NavigationResponse struct {
	Route navigation.Route   `json:"route"`
	State domain.SessionView `json:"state"`
}

// Resolve picks the screen group for the device
// @Summary Resolve navigation
// @Description auth, onboarding or main depending on session and profile state
// @Tags navigation
// @Produce json
// @Param X-Device-ID header string false "Device identifier"
// @Success 200 {object} NavigationResponse
// @Failure 500 {object} ErrorResponse
// @Router /navigation [get]
func (h *NavigationHandler) Resolve(c *gin.Context) {
	ctx := c.Request.Context()

	state, err := h.authUseCase.GetState(ctx, deviceID(c))
	if err != nil {
		respondError(c, err, "failed to load session state")
		return
	}

	var p *domain.Profile
	if state.Authenticated() && state.UserID != nil {
		p, err = h.profileUseCase.GetMyProfile(ctx, *state.UserID)
		if err != nil && !errors.Is(err, domain.ErrProfileNotFound) {
			respondError(c, err, "failed to load profile")
			return
		}
	}

	c.JSON(http.StatusOK, NavigationResponse{
		Route: navigation.Resolve(*state, p),
		State: state.View(),
	})
}
