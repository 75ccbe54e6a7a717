package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"tripplanner/internal/models/request_models"
	"tripplanner/internal/services"
	"tripplanner/pkg/utils"
)

type SuggestionController struct {
	suggestionService services.SuggestionServiceInterface
}

func NewSuggestionController(suggestionService services.SuggestionServiceInterface) *SuggestionController {
	return &SuggestionController{
		suggestionService: suggestionService,
	}
}

// GenerateSuggestions godoc
// @Summary Generate AI suggestions for a trip
// @Description Asks the model for extra places, route tips and budget tips. Places and route tips are stored as pending suggestions.
// @Tags AI
// @Accept json
// @Produce json
// @Param tripId path string true "Trip ID"
// @Param request body request_models.TripSuggestionRequest false "Preferences"
// @Success 200 {object} response_models.TripSuggestionsResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 502 {object} utils.APIResponse
// @Security BearerAuth
// @Router /ai/trips/{tripId}/suggestions [post]
func (s *SuggestionController) GenerateSuggestions(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	tripID, ok := uuidParam(c, "tripId", "trip")
	if !ok {
		return
	}

	var req request_models.TripSuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.RespondError(c, http.StatusBadRequest, "Invalid suggestion payload: "+err.Error())
		return
	}

	result, err := s.suggestionService.RequestPlaceSuggestions(c.Request.Context(), userID, tripID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, result, "Suggestions generated successfully")
}

// OptimizeItinerary godoc
// @Summary Request an AI route optimization
// @Description Stores a pending optimization suggestion. The itinerary only changes when it is accepted.
// @Tags AI
// @Produce json
// @Param tripId path string true "Trip ID"
// @Success 200 {object} response_models.SuggestionResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 502 {object} utils.APIResponse
// @Security BearerAuth
// @Router /ai/trips/{tripId}/optimize [post]
func (s *SuggestionController) OptimizeItinerary(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	tripID, ok := uuidParam(c, "tripId", "trip")
	if !ok {
		return
	}

	suggestion, err := s.suggestionService.RequestOptimization(c.Request.Context(), userID, tripID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, suggestion, "Optimization generated successfully")
}

// ListSuggestions godoc
// @Summary List stored suggestions for a trip
// @Tags AI
// @Produce json
// @Param tripId path string true "Trip ID"
// @Success 200 {array} response_models.SuggestionResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /ai/trips/{tripId}/suggestions [get]
func (s *SuggestionController) ListSuggestions(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	tripID, ok := uuidParam(c, "tripId", "trip")
	if !ok {
		return
	}

	list, err := s.suggestionService.ListSuggestions(c.Request.Context(), userID, tripID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, list, "Suggestions fetched successfully")
}

// AcceptSuggestion godoc
// @Summary Accept a suggestion
// @Description Accepting an optimization reorders the itinerary. Deciding an already decided suggestion changes nothing.
// @Tags AI
// @Produce json
// @Param id path string true "Suggestion ID"
// @Success 200 {object} response_models.SuggestionResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Security BearerAuth
// @Router /ai/suggestions/{id}/accept [put]
func (s *SuggestionController) AcceptSuggestion(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	suggestionID, ok := uuidParam(c, "id", "suggestion")
	if !ok {
		return
	}

	suggestion, err := s.suggestionService.AcceptSuggestion(c.Request.Context(), userID, suggestionID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, suggestion, "Suggestion accepted")
}

// RejectSuggestion godoc
// @Summary Reject a suggestion
// @Tags AI
// @Produce json
// @Param id path string true "Suggestion ID"
// @Success 200 {object} response_models.SuggestionResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /ai/suggestions/{id}/reject [put]
func (s *SuggestionController) RejectSuggestion(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	suggestionID, ok := uuidParam(c, "id", "suggestion")
	if !ok {
		return
	}

	suggestion, err := s.suggestionService.RejectSuggestion(c.Request.Context(), userID, suggestionID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, suggestion, "Suggestion rejected")
}
