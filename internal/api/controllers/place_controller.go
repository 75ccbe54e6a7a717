package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"tripplanner/internal/models/request_models"
	"tripplanner/internal/services"
	"tripplanner/pkg/utils"
)

type PlaceController struct {
	placeService services.PlaceServiceInterface
}

func NewPlaceController(placeService services.PlaceServiceInterface) *PlaceController {
	return &PlaceController{
		placeService: placeService,
	}
}

// CreatePlace godoc
// @Summary Create a place
// @Tags Places
// @Accept json
// @Produce json
// @Param request body request_models.CreatePlaceRequest true "Place"
// @Success 201 {object} response_models.PlaceResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /places [post]
func (p *PlaceController) CreatePlace(c *gin.Context) {
	var req request_models.CreatePlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid place payload: "+err.Error())
		return
	}

	place, err := p.placeService.CreatePlace(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, place, "Place created successfully")
}

// GetPlace godoc
// @Summary Get a place by ID
// @Tags Places
// @Produce json
// @Param id path string true "Place ID"
// @Success 200 {object} response_models.PlaceResponse
// @Failure 404 {object} utils.APIResponse
// @Router /places/{id} [get]
func (p *PlaceController) GetPlace(c *gin.Context) {
	placeID, ok := uuidParam(c, "id", "place")
	if !ok {
		return
	}

	place, err := p.placeService.GetPlace(c.Request.Context(), placeID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, place, "Place fetched successfully")
}

// UpdatePlace godoc
// @Summary Update a place
// @Tags Places
// @Accept json
// @Produce json
// @Param id path string true "Place ID"
// @Param request body request_models.UpdatePlaceRequest true "Fields to change"
// @Success 200 {object} response_models.PlaceResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /places/{id} [put]
func (p *PlaceController) UpdatePlace(c *gin.Context) {
	placeID, ok := uuidParam(c, "id", "place")
	if !ok {
		return
	}

	var req request_models.UpdatePlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid place payload: "+err.Error())
		return
	}

	place, err := p.placeService.UpdatePlace(c.Request.Context(), placeID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, place, "Place updated successfully")
}

// SearchPlaces godoc
// @Summary Search places
// @Description Case-insensitive match on name, description and address, best rated first
// @Tags Places
// @Produce json
// @Param query query string false "Text to match"
// @Param category query string false "Place category"
// @Success 200 {array} response_models.PlaceResponse
// @Failure 400 {object} utils.APIResponse
// @Router /places/search [get]
func (p *PlaceController) SearchPlaces(c *gin.Context) {
	var req request_models.SearchPlacesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid search: "+err.Error())
		return
	}

	places, err := p.placeService.SearchPlaces(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, places, "Places fetched successfully")
}

// NearbyPlaces godoc
// @Summary Places near a point
// @Description Places within radius meters of lat/lng, nearest first
// @Tags Places
// @Produce json
// @Param lat query number true "Latitude"
// @Param lng query number true "Longitude"
// @Param radius query number false "Radius in meters, default 5000"
// @Param category query string false "Place category"
// @Success 200 {array} response_models.NearbyPlaceResponse
// @Failure 400 {object} utils.APIResponse
// @Router /places/nearby [get]
func (p *PlaceController) NearbyPlaces(c *gin.Context) {
	var req request_models.NearbyPlacesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid nearby search: "+err.Error())
		return
	}

	places, err := p.placeService.NearbyPlaces(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, places, "Places fetched successfully")
}
