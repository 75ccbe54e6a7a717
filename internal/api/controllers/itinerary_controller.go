package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"tripplanner/internal/models/request_models"
	"tripplanner/internal/services"
	"tripplanner/pkg/utils"
)

type ItineraryController struct {
	itineraryService services.ItineraryServiceInterface
}

func NewItineraryController(itineraryService services.ItineraryServiceInterface) *ItineraryController {
	return &ItineraryController{
		itineraryService: itineraryService,
	}
}

// AddEntry godoc
// @Summary Add a place to a trip itinerary
// @Description Order defaults to 0. Existing entries are not shifted.
// @Tags Itinerary
// @Accept json
// @Produce json
// @Param request body request_models.AddItineraryEntryRequest true "Entry"
// @Success 201 {object} response_models.ItineraryEntryResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /itinerary [post]
func (i *ItineraryController) AddEntry(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req request_models.AddItineraryEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid itinerary payload: "+err.Error())
		return
	}

	entry, err := i.itineraryService.AddEntry(c.Request.Context(), userID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, entry, "Itinerary item added successfully")
}

// UpdateEntry godoc
// @Summary Update an itinerary entry
// @Tags Itinerary
// @Accept json
// @Produce json
// @Param id path string true "Entry ID"
// @Param request body request_models.UpdateItineraryEntryRequest true "Fields to change"
// @Success 200 {object} response_models.ItineraryEntryResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /itinerary/{id} [put]
func (i *ItineraryController) UpdateEntry(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	entryID, ok := uuidParam(c, "id", "itinerary item")
	if !ok {
		return
	}

	var req request_models.UpdateItineraryEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid itinerary payload: "+err.Error())
		return
	}

	entry, err := i.itineraryService.UpdateEntry(c.Request.Context(), userID, entryID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, entry, "Itinerary item updated successfully")
}

// RemoveEntry godoc
// @Summary Remove an itinerary entry
// @Tags Itinerary
// @Produce json
// @Param id path string true "Entry ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /itinerary/{id} [delete]
func (i *ItineraryController) RemoveEntry(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	entryID, ok := uuidParam(c, "id", "itinerary item")
	if !ok {
		return
	}

	if err := i.itineraryService.RemoveEntry(c.Request.Context(), userID, entryID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Itinerary item removed successfully")
}

// GetTripItinerary godoc
// @Summary Get a trip itinerary grouped by day
// @Tags Itinerary
// @Produce json
// @Param tripId path string true "Trip ID"
// @Success 200 {object} response_models.TripItineraryResponse
// @Failure 404 {object} utils.APIResponse
// @Router /itinerary/trips/{tripId} [get]
func (i *ItineraryController) GetTripItinerary(c *gin.Context) {
	tripID, ok := uuidParam(c, "tripId", "trip")
	if !ok {
		return
	}

	itinerary, err := i.itineraryService.ListItinerary(c.Request.Context(), optionalCaller(c), tripID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, itinerary, "Itinerary fetched successfully")
}

// ReorderItinerary godoc
// @Summary Reorder a trip itinerary
// @Description Applies every (id, day, order) triple or none of them
// @Tags Itinerary
// @Accept json
// @Produce json
// @Param tripId path string true "Trip ID"
// @Param request body request_models.ReorderItineraryRequest true "New positions"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Security BearerAuth
// @Router /itinerary/trips/{tripId}/reorder [put]
func (i *ItineraryController) ReorderItinerary(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	tripID, ok := uuidParam(c, "tripId", "trip")
	if !ok {
		return
	}

	var req request_models.ReorderItineraryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Items array is required: "+err.Error())
		return
	}

	if err := i.itineraryService.Reorder(c.Request.Context(), userID, tripID, req); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Itinerary reordered successfully")
}
