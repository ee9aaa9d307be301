package handler

import (
	"net/http"

	"github.com/gdugdh24/spark-backend/internal/usecase/auth"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUseCase *auth.AuthUseCase
}

func NewAuthHandler(authUseCase *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
	}
}

func clientInfo(c *gin.Context) auth.ClientInfo {
	return auth.ClientInfo{
		DeviceID:   deviceID(c),
		DeviceInfo: c.GetHeader("User-Agent"),
		IPAddress:  c.ClientIP(),
	}
}

// Register handles password sign up
// @Summary Register
// @Description Create an account with email and password and sign the device in
// @Tags auth
// @Accept json
// @Produce json
// @Param X-Device-ID header string false "Device identifier"
// @Param request body auth.CredentialsRequest true "Credentials"
// @Success 201 {object} auth.AuthResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req auth.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.authUseCase.Register(c.Request.Context(), clientInfo(c), &req)
	if err != nil {
		respondError(c, err, auth.MsgUnexpected)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// Login handles password sign in
// @Summary Login
// @Description Sign the device in with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param X-Device-ID header string false "Device identifier"
// @Param request body auth.CredentialsRequest true "Credentials"
// @Success 200 {object} auth.AuthResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req auth.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.authUseCase.Login(c.Request.Context(), clientInfo(c), &req)
	if err != nil {
		respondError(c, err, auth.MsgUnexpected)
		return
	}

	c.JSON(http.StatusOK, result)
}

// External handles sign in through an outside identity provider
// @Summary External sign in
// @Description Accept a user id and email vouched for by a provider token
// @Tags auth
// @Accept json
// @Produce json
// @Param X-Device-ID header string false "Device identifier"
// @Param request body auth.ExternalAuthRequest true "Identity"
// @Success 200 {object} auth.AuthResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/external [post]
func (h *AuthHandler) External(c *gin.Context) {
	var req auth.ExternalAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.authUseCase.External(c.Request.Context(), clientInfo(c), &req)
	if err != nil {
		respondError(c, err, auth.MsgUnexpected)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Logout handles user logout
// @Summary Logout
// @Description Invalidate the current session, discard the onboarding draft and sign the device out
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Param X-Device-ID header string false "Device identifier"
// @Success 200 {object} SuccessResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	token := c.GetString("token")

	if err := h.authUseCase.Logout(c.Request.Context(), deviceID(c), userID, token); err != nil {
		respondError(c, err, "logout failed")
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "logged out successfully",
	})
}

// State returns the device's session state
// @Summary Session state
// @Tags auth
// @Produce json
// @Param X-Device-ID header string false "Device identifier"
// @Success 200 {object} domain.SessionView
// @Failure 500 {object} ErrorResponse
// @Router /auth/state [get]
func (h *AuthHandler) State(c *gin.Context) {
	state, err := h.authUseCase.GetState(c.Request.Context(), deviceID(c))
	if err != nil {
		respondError(c, err, "failed to load session state")
		return
	}

	c.JSON(http.StatusOK, state.View())
}

// ClearError dismisses the error stored in the device's session state
// @Summary Clear session error
// @Tags auth
// @Produce json
// @Param X-Device-ID header string false "Device identifier"
// @Success 200 {object} domain.SessionView
// @Failure 500 {object} ErrorResponse
// @Router /auth/state/error [delete]
func (h *AuthHandler) ClearError(c *gin.Context) {
	state, err := h.authUseCase.ClearError(c.Request.Context(), deviceID(c))
	if err != nil {
		respondError(c, err, "failed to update session state")
		return
	}

	c.JSON(http.StatusOK, state.View())
}

// Me returns the signed in account
// @Summary Current user
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} domain.User
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.authUseCase.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "failed to get user")
		return
	}

	c.JSON(http.StatusOK, user)
}
