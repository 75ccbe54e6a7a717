package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tripplanner/internal/models/request_models"
	"tripplanner/internal/models/response_models"
	"tripplanner/pkg/middleware"
	"tripplanner/pkg/utils"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := request_models.RegisterValidators(v); err != nil {
			panic(err)
		}
	}
	os.Exit(m.Run())
}

type stubItineraryService struct {
	lastCaller *uuid.UUID
	lastTrip   uuid.UUID
	reorderErr error
}

func (s *stubItineraryService) AddEntry(_ context.Context, callerID uuid.UUID, req request_models.AddItineraryEntryRequest) (*response_models.ItineraryEntryResponse, error) {
	s.lastCaller = &callerID
	return &response_models.ItineraryEntryResponse{ID: uuid.New(), TripID: uuid.MustParse(req.TripID), Day: req.Day}, nil
}

func (s *stubItineraryService) UpdateEntry(context.Context, uuid.UUID, uuid.UUID, request_models.UpdateItineraryEntryRequest) (*response_models.ItineraryEntryResponse, error) {
	return nil, utils.NewNotFoundError("Itinerary item not found")
}

func (s *stubItineraryService) RemoveEntry(context.Context, uuid.UUID, uuid.UUID) error {
	return nil
}

func (s *stubItineraryService) Reorder(_ context.Context, callerID, tripID uuid.UUID, _ request_models.ReorderItineraryRequest) error {
	s.lastCaller = &callerID
	s.lastTrip = tripID
	return s.reorderErr
}

func (s *stubItineraryService) ListItinerary(_ context.Context, callerID *uuid.UUID, tripID uuid.UUID) (*response_models.TripItineraryResponse, error) {
	s.lastCaller = callerID
	s.lastTrip = tripID
	return &response_models.TripItineraryResponse{TripID: tripID, Days: []response_models.ItineraryDayResponse{}}, nil
}

type stubSuggestionService struct {
	err error
}

func (s *stubSuggestionService) RequestOptimization(_ context.Context, callerID, tripID uuid.UUID) (*response_models.SuggestionResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &response_models.SuggestionResponse{ID: uuid.New(), TripID: tripID, UserID: callerID, Type: "optimization", Confidence: 0.85}, nil
}

func (s *stubSuggestionService) RequestPlaceSuggestions(_ context.Context, _, _ uuid.UUID, req request_models.TripSuggestionRequest) (*response_models.TripSuggestionsResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &response_models.TripSuggestionsResponse{
		Suggestions: []response_models.SuggestionResponse{},
		BudgetTips:  []map[string]any{{"tip": req.Budget}},
	}, nil
}

func (s *stubSuggestionService) AcceptSuggestion(context.Context, uuid.UUID, uuid.UUID) (*response_models.SuggestionResponse, error) {
	return nil, s.err
}

func (s *stubSuggestionService) RejectSuggestion(context.Context, uuid.UUID, uuid.UUID) (*response_models.SuggestionResponse, error) {
	return nil, s.err
}

func (s *stubSuggestionService) ListSuggestions(context.Context, uuid.UUID, uuid.UUID) ([]response_models.SuggestionResponse, error) {
	return []response_models.SuggestionResponse{}, s.err
}

type testServer struct {
	router *gin.Engine
	token  string
	userID uuid.UUID
}

func newTestServer(t *testing.T, itinerary *stubItineraryService, suggestions *stubSuggestionService) testServer {
	t.Helper()

	verifier := utils.NewTokenVerifier("test-secret", time.Hour)
	userID := uuid.New()
	token, err := verifier.CreateToken(userID)
	require.NoError(t, err)

	auth := middleware.JWTAuthMiddleware(verifier)
	optional := middleware.OptionalAuthMiddleware(verifier)
	ic := NewItineraryController(itinerary)
	sc := NewSuggestionController(suggestions)

	r := gin.New()
	r.Use(middleware.TraceIDMiddleware())
	r.POST("/itinerary", auth, ic.AddEntry)
	r.PUT("/itinerary/:id", auth, ic.UpdateEntry)
	r.GET("/itinerary/trips/:tripId", optional, ic.GetTripItinerary)
	r.PUT("/itinerary/trips/:tripId/reorder", auth, ic.ReorderItinerary)
	r.POST("/ai/trips/:tripId/optimize", auth, sc.OptimizeItinerary)
	r.POST("/ai/trips/:tripId/suggestions", auth, sc.GenerateSuggestions)
	r.PUT("/ai/suggestions/:id/accept", auth, sc.AcceptSuggestion)

	return testServer{router: r, token: token, userID: userID}
}

func (s testServer) do(method, path, body string, authed bool) (*httptest.ResponseRecorder, utils.APIResponse) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var resp utils.APIResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func TestAddEntry_Created(t *testing.T) {
	itinerary := &stubItineraryService{}
	srv := newTestServer(t, itinerary, &stubSuggestionService{})
	body := `{"trip_id":"` + uuid.NewString() + `","place_id":"` + uuid.NewString() + `","day":2,"start_time":"09:30","transport_mode":"walking"}`

	w, resp := srv.do(http.MethodPost, "/itinerary", body, true)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "success", resp.Status)
	require.NotNil(t, itinerary.lastCaller)
	assert.Equal(t, srv.userID, *itinerary.lastCaller)

	w, resp = srv.do(http.MethodPost, "/itinerary", body, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotEmpty(t, resp.Error)
}

func TestAddEntry_BindingErrors(t *testing.T) {
	srv := newTestServer(t, &stubItineraryService{}, &stubSuggestionService{})

	cases := map[string]string{
		"day zero":       `{"trip_id":"` + uuid.NewString() + `","place_id":"` + uuid.NewString() + `","day":0}`,
		"bad uuid":       `{"trip_id":"abc","place_id":"` + uuid.NewString() + `","day":1}`,
		"bad time":       `{"trip_id":"` + uuid.NewString() + `","place_id":"` + uuid.NewString() + `","day":1,"start_time":"9am"}`,
		"bad transport":  `{"trip_id":"` + uuid.NewString() + `","place_id":"` + uuid.NewString() + `","day":1,"transport_mode":"boat"}`,
		"not json":       `day=1`,
		"negative order": `{"trip_id":"` + uuid.NewString() + `","place_id":"` + uuid.NewString() + `","day":1,"order":-1}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			w, resp := srv.do(http.MethodPost, "/itinerary", body, true)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "validation_error", resp.ErrorCode)
		})
	}
}

func TestReorderItinerary_StatusMapping(t *testing.T) {
	tripID := uuid.New()
	foreign := uuid.New()
	body := `{"items":[{"id":"` + foreign.String() + `","order":0,"day":1}]}`

	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"ok", nil, http.StatusOK},
		{"not owned", utils.NewNotFoundError("Trip not found"), http.StatusNotFound},
		{"foreign entry", utils.NewConflictError("Reorder rejected", map[string]any{"entry_ids": []uuid.UUID{foreign}}), http.StatusConflict},
		{"duplicate slot", utils.NewValidationError("entries share a slot"), http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			itinerary := &stubItineraryService{reorderErr: tt.err}
			srv := newTestServer(t, itinerary, &stubSuggestionService{})

			w, resp := srv.do(http.MethodPut, "/itinerary/trips/"+tripID.String()+"/reorder", body, true)
			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, tripID, itinerary.lastTrip)
			if tt.err != nil {
				assert.NotEmpty(t, resp.Error)
			}
			if tt.wantCode == http.StatusConflict {
				assert.Contains(t, w.Body.String(), foreign.String())
			}
		})
	}
}

func TestReorderItinerary_EmptyItems(t *testing.T) {
	srv := newTestServer(t, &stubItineraryService{}, &stubSuggestionService{})

	w, _ := srv.do(http.MethodPut, "/itinerary/trips/"+uuid.NewString()+"/reorder", `{"items":[]}`, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetTripItinerary_OptionalAuth(t *testing.T) {
	itinerary := &stubItineraryService{}
	srv := newTestServer(t, itinerary, &stubSuggestionService{})
	tripID := uuid.New()

	w, _ := srv.do(http.MethodGet, "/itinerary/trips/"+tripID.String(), "", false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, itinerary.lastCaller)

	w, _ = srv.do(http.MethodGet, "/itinerary/trips/"+tripID.String(), "", true)
	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, itinerary.lastCaller)
	assert.Equal(t, srv.userID, *itinerary.lastCaller)

	w, _ = srv.do(http.MethodGet, "/itinerary/trips/not-a-uuid", "", false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateEntry_NotFound(t *testing.T) {
	srv := newTestServer(t, &stubItineraryService{}, &stubSuggestionService{})

	w, resp := srv.do(http.MethodPut, "/itinerary/"+uuid.NewString(), `{"notes":"hi"}`, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Itinerary item not found", resp.Error)
	assert.Equal(t, "not_found", resp.ErrorCode)
}

func TestSuggestionRoutes(t *testing.T) {
	tripID := uuid.New()

	t.Run("optimization", func(t *testing.T) {
		srv := newTestServer(t, &stubItineraryService{}, &stubSuggestionService{})
		w, resp := srv.do(http.MethodPost, "/ai/trips/"+tripID.String()+"/optimize", "", true)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "success", resp.Status)
	})

	t.Run("upstream failure is a 502", func(t *testing.T) {
		srv := newTestServer(t, &stubItineraryService{}, &stubSuggestionService{
			err: utils.NewUpstreamError("AI service unavailable, please retry", context.DeadlineExceeded),
		})
		w, resp := srv.do(http.MethodPost, "/ai/trips/"+tripID.String()+"/optimize", "", true)
		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Equal(t, "upstream_error", resp.ErrorCode)
		assert.NotContains(t, w.Body.String(), "deadline")
	})

	t.Run("suggestions accept an empty body", func(t *testing.T) {
		srv := newTestServer(t, &stubItineraryService{}, &stubSuggestionService{})
		w, _ := srv.do(http.MethodPost, "/ai/trips/"+tripID.String()+"/suggestions", "", true)
		assert.Equal(t, http.StatusOK, w.Code)

		w, _ = srv.do(http.MethodPost, "/ai/trips/"+tripID.String()+"/suggestions", `{"budget":"low"}`, true)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"budget_tips":[{"tip":"low"}]`)
	})

	t.Run("stale optimization is a 409", func(t *testing.T) {
		srv := newTestServer(t, &stubItineraryService{}, &stubSuggestionService{
			err: utils.NewConflictError("Itinerary changed since this optimization was generated; request a new one", nil),
		})
		w, _ := srv.do(http.MethodPut, "/ai/suggestions/"+uuid.NewString()+"/accept", "", true)
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}
