package handler

import (
	"net/http"

	"github.com/gdugdh24/spark-backend/internal/usecase/discover"
	"github.com/gin-gonic/gin"
)

type DiscoverHandler struct {
	discoverUseCase *discover.DiscoverUseCase
}

func NewDiscoverHandler(discoverUseCase *discover.DiscoverUseCase) *DiscoverHandler {
	return &DiscoverHandler{
		discoverUseCase: discoverUseCase,
	}
}

// Feed returns candidate cards
// @Summary Discover feed
// @Description Profiles matching the user's preferences that were not swiped yet
// @Tags discover
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Maximum number of cards" default(20)
// @Success 200 {object} discover.FeedResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /discover/feed [get]
func (h *DiscoverHandler) Feed(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	feed, err := h.discoverUseCase.Feed(c.Request.Context(), userID, intQuery(c, "limit", 0))
	if err != nil {
		respondError(c, err, "failed to load feed")
		return
	}

	c.JSON(http.StatusOK, feed)
}

// Swipe records a like or pass
// @Summary Swipe
// @Tags discover
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body discover.SwipeRequest true "Swipe"
// @Success 200 {object} discover.SwipeResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /discover/swipe [post]
func (h *DiscoverHandler) Swipe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req discover.SwipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.discoverUseCase.Swipe(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err, "failed to swipe")
		return
	}

	c.JSON(http.StatusOK, result)
}

// Rewind takes back the latest swipe
// @Summary Rewind
// @Description Undo the latest swipe unless it produced a match
// @Tags discover
// @Security BearerAuth
// @Produce json
// @Success 200 {object} discover.RewindResponse
// @Failure 409 {object} ErrorResponse
// @Router /discover/rewind [post]
func (h *DiscoverHandler) Rewind(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	result, err := h.discoverUseCase.Rewind(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "failed to rewind")
		return
	}

	c.JSON(http.StatusOK, result)
}

// Gesture replays a drag on a card and swipes when it commits
// @Summary Card gesture
// @Tags discover
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body discover.GestureRequest true "Drag samples"
// @Success 200 {object} discover.GestureResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /discover/gesture [post]
func (h *DiscoverHandler) Gesture(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req discover.GestureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.discoverUseCase.Gesture(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err, "failed to process gesture")
		return
	}

	c.JSON(http.StatusOK, result)
}

// Matches lists the user's matches
// @Summary Matches
// @Tags discover
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Limit" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} ErrorResponse
// @Router /discover/matches [get]
func (h *DiscoverHandler) Matches(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	limit := intQuery(c, "limit", 20)
	offset := intQuery(c, "offset", 0)

	matches, err := h.discoverUseCase.Matches(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respondError(c, err, "failed to get matches")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"matches": matches,
		"limit":   limit,
		"offset":  offset,
	})
}
