package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"tripplanner/internal/models/request_models"
	"tripplanner/internal/services"
	"tripplanner/pkg/utils"
)

type TripController struct {
	tripService services.TripServiceInterface
}

func NewTripController(tripService services.TripServiceInterface) *TripController {
	return &TripController{
		tripService: tripService,
	}
}

// CreateTrip godoc
// @Summary Create a trip
// @Description Create a new trip owned by the authenticated user
// @Tags Trips
// @Accept json
// @Produce json
// @Param request body request_models.CreateTripRequest true "Trip"
// @Success 201 {object} response_models.TripResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /trips [post]
func (t *TripController) CreateTrip(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req request_models.CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid trip payload: "+err.Error())
		return
	}

	trip, err := t.tripService.CreateTrip(c.Request.Context(), userID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, trip, "Trip created successfully")
}

// ListTrips godoc
// @Summary List trips
// @Description The caller's trips when authenticated, public trips otherwise
// @Tags Trips
// @Produce json
// @Success 200 {array} response_models.TripResponse
// @Router /trips [get]
func (t *TripController) ListTrips(c *gin.Context) {
	trips, err := t.tripService.ListTrips(c.Request.Context(), optionalCaller(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, trips, "Trips fetched successfully")
}

// GetTrip godoc
// @Summary Get a trip
// @Description Trip details with its day-grouped itinerary. Private trips are only visible to their owner.
// @Tags Trips
// @Produce json
// @Param id path string true "Trip ID"
// @Success 200 {object} response_models.TripResponse
// @Failure 404 {object} utils.APIResponse
// @Router /trips/{id} [get]
func (t *TripController) GetTrip(c *gin.Context) {
	tripID, ok := uuidParam(c, "id", "trip")
	if !ok {
		return
	}

	trip, err := t.tripService.GetTrip(c.Request.Context(), optionalCaller(c), tripID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, trip, "Trip fetched successfully")
}

// UpdateTrip godoc
// @Summary Update a trip
// @Description Partially update a trip owned by the authenticated user
// @Tags Trips
// @Accept json
// @Produce json
// @Param id path string true "Trip ID"
// @Param request body request_models.UpdateTripRequest true "Fields to change"
// @Success 200 {object} response_models.TripResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /trips/{id} [put]
func (t *TripController) UpdateTrip(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	tripID, ok := uuidParam(c, "id", "trip")
	if !ok {
		return
	}

	var req request_models.UpdateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid trip payload: "+err.Error())
		return
	}

	trip, err := t.tripService.UpdateTrip(c.Request.Context(), userID, tripID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, trip, "Trip updated successfully")
}

// DeleteTrip godoc
// @Summary Delete a trip
// @Description Delete a trip with its itinerary and suggestions
// @Tags Trips
// @Produce json
// @Param id path string true "Trip ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /trips/{id} [delete]
func (t *TripController) DeleteTrip(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	tripID, ok := uuidParam(c, "id", "trip")
	if !ok {
		return
	}

	if err := t.tripService.DeleteTrip(c.Request.Context(), userID, tripID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Trip deleted successfully")
}
