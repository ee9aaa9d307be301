package handler

import (
	"net/http"

	"github.com/gdugdh24/spark-backend/internal/usecase/onboarding"
	"github.com/gin-gonic/gin"
)

type OnboardingHandler struct {
	onboardingUseCase *onboarding.OnboardingUseCase
}

func NewOnboardingHandler(onboardingUseCase *onboarding.OnboardingUseCase) *OnboardingHandler {
	return &OnboardingHandler{
		onboardingUseCase: onboardingUseCase,
	}
}

func (h *OnboardingHandler) respond(c *gin.Context, state *onboarding.StateResponse, err error) {
	if err != nil {
		respondError(c, err, "failed to update onboarding")
		return
	}
	c.JSON(http.StatusOK, state)
}

// GetState returns the onboarding draft
// @Summary Get onboarding state
// @Tags onboarding
// @Security BearerAuth
// @Produce json
// @Success 200 {object} onboarding.StateResponse
// @Failure 401 {object} ErrorResponse
// @Router /onboarding [get]
func (h *OnboardingHandler) GetState(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	state, err := h.onboardingUseCase.GetState(c.Request.Context(), userID)
	h.respond(c, state, err)
}

// UpdateDraft merges fields into the draft
// @Summary Update onboarding draft
// @Description Partial update of name, age, gender and looking for. Age must be 18-120; other values are stored as sent.
// @Tags onboarding
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body onboarding.UpdateDraftRequest true "Draft fields"
// @Success 200 {object} onboarding.StateResponse
// @Failure 400 {object} ErrorResponse
// @Router /onboarding [patch]
func (h *OnboardingHandler) UpdateDraft(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req onboarding.UpdateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.AgeText != nil {
		age, err := ParseAgeText(*req.AgeText)
		if err != nil {
			respondError(c, err, "invalid age")
			return
		}
		req.Age = &age
	}

	state, err := h.onboardingUseCase.UpdateDraft(c.Request.Context(), userID, &req)
	h.respond(c, state, err)
}

// SetStep moves the wizard cursor
// @Summary Set onboarding step
// @Tags onboarding
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body onboarding.SetStepRequest true "Step"
// @Success 200 {object} onboarding.StateResponse
// @Failure 400 {object} ErrorResponse
// @Router /onboarding/step [put]
func (h *OnboardingHandler) SetStep(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req onboarding.SetStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	state, err := h.onboardingUseCase.AdvanceStep(c.Request.Context(), userID, req.Step)
	h.respond(c, state, err)
}

// StepValid reports whether a step's requirements are met
// @Summary Check onboarding step
// @Tags onboarding
// @Security BearerAuth
// @Produce json
// @Param step path int true "Step number"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Router /onboarding/steps/{step}/valid [get]
func (h *OnboardingHandler) StepValid(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	step, ok := intParam(c, "step")
	if !ok {
		return
	}

	valid, err := h.onboardingUseCase.IsStepValid(c.Request.Context(), userID, step)
	if err != nil {
		respondError(c, err, "failed to check step")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"step":  step,
		"valid": valid,
	})
}

// AddPhoto appends a photo reference
// @Summary Add photo
// @Tags onboarding
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body onboarding.AddPhotoRequest true "Photo"
// @Success 200 {object} onboarding.StateResponse
// @Failure 422 {object} ErrorResponse
// @Router /onboarding/photos [post]
func (h *OnboardingHandler) AddPhoto(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req onboarding.AddPhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	state, err := h.onboardingUseCase.AddPhoto(c.Request.Context(), userID, req.URI)
	h.respond(c, state, err)
}

// RemovePhoto removes the photo at index
// @Summary Remove photo
// @Tags onboarding
// @Security BearerAuth
// @Produce json
// @Param index path int true "Photo index"
// @Success 200 {object} onboarding.StateResponse
// @Failure 400 {object} ErrorResponse
// @Router /onboarding/photos/{index} [delete]
func (h *OnboardingHandler) RemovePhoto(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	index, ok := intParam(c, "index")
	if !ok {
		return
	}

	state, err := h.onboardingUseCase.RemovePhoto(c.Request.Context(), userID, index)
	h.respond(c, state, err)
}

// ReorderPhotos moves a photo to a new position
// @Summary Reorder photos
// @Tags onboarding
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body onboarding.ReorderPhotosRequest true "Positions"
// @Success 200 {object} onboarding.StateResponse
// @Failure 400 {object} ErrorResponse
// @Router /onboarding/photos/reorder [post]
func (h *OnboardingHandler) ReorderPhotos(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req onboarding.ReorderPhotosRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	state, err := h.onboardingUseCase.ReorderPhotos(c.Request.Context(), userID, *req.From, *req.To)
	h.respond(c, state, err)
}

// ToggleHobby selects or deselects one hobby
// @Summary Toggle hobby
// @Tags onboarding
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body onboarding.ToggleHobbyRequest true "Hobby"
// @Success 200 {object} onboarding.StateResponse
// @Failure 400 {object} ErrorResponse
// @Router /onboarding/hobbies/toggle [post]
func (h *OnboardingHandler) ToggleHobby(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req onboarding.ToggleHobbyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	state, err := h.onboardingUseCase.ToggleHobby(c.Request.Context(), userID, req.Hobby)
	h.respond(c, state, err)
}

// SetHobbies replaces the hobby selection
// @Summary Set hobbies
// @Tags onboarding
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body onboarding.SetHobbiesRequest true "Hobbies"
// @Success 200 {object} onboarding.StateResponse
// @Failure 400 {object} ErrorResponse
// @Router /onboarding/hobbies [put]
func (h *OnboardingHandler) SetHobbies(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req onboarding.SetHobbiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	state, err := h.onboardingUseCase.SetHobbies(c.Request.Context(), userID, req.Hobbies)
	h.respond(c, state, err)
}

// UpdatePreferences merges discovery preferences
// @Summary Update preferences
// @Tags onboarding
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body onboarding.UpdatePreferencesRequest true "Preferences"
// @Success 200 {object} onboarding.StateResponse
// @Failure 400 {object} ErrorResponse
// @Router /onboarding/preferences [patch]
func (h *OnboardingHandler) UpdatePreferences(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req onboarding.UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	state, err := h.onboardingUseCase.UpdatePreferences(c.Request.Context(), userID, &req)
	h.respond(c, state, err)
}

// AdjustAge nudges one end of the preferred age range by one year
// @Summary Adjust age range
// @Tags onboarding
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body onboarding.AdjustAgeRequest true "Bound and direction"
// @Success 200 {object} onboarding.StateResponse
// @Failure 422 {object} ErrorResponse
// @Router /onboarding/preferences/age [post]
func (h *OnboardingHandler) AdjustAge(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req onboarding.AdjustAgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	state, err := h.onboardingUseCase.AdjustAge(c.Request.Context(), userID, &req)
	h.respond(c, state, err)
}

// Complete turns the draft into the user's profile
// @Summary Complete onboarding
// @Tags onboarding
// @Security BearerAuth
// @Produce json
// @Success 201 {object} domain.Profile
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /onboarding/complete [post]
func (h *OnboardingHandler) Complete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	profile, err := h.onboardingUseCase.Complete(c.Request.Context(), userID, c.GetString("email"))
	if err != nil {
		respondError(c, err, "failed to complete onboarding")
		return
	}

	c.JSON(http.StatusCreated, profile)
}

// Reset clears the draft
// @Summary Reset onboarding
// @Tags onboarding
// @Security BearerAuth
// @Produce json
// @Success 200 {object} onboarding.StateResponse
// @Router /onboarding/reset [post]
func (h *OnboardingHandler) Reset(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	state, err := h.onboardingUseCase.Reset(c.Request.Context(), userID)
	h.respond(c, state, err)
}

// Options lists the selectable genders, goals and hobbies
// @Summary Onboarding options
// @Tags onboarding
// @Produce json
// @Success 200 {object} onboarding.OptionsResponse
// @Router /onboarding/options [get]
func (h *OnboardingHandler) Options(c *gin.Context) {
	c.JSON(http.StatusOK, h.onboardingUseCase.Options())
}
