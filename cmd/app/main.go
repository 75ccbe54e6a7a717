package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"tripplanner/cmd/fx/auth_fx"
	"tripplanner/cmd/fx/config_fx"
	"tripplanner/cmd/fx/controllers_fx"
	"tripplanner/cmd/fx/db_fx"
	"tripplanner/cmd/fx/itinerary_fx"
	"tripplanner/cmd/fx/memcache_fx"
	"tripplanner/cmd/fx/place_fx"
	"tripplanner/cmd/fx/prompt_fx"
	"tripplanner/cmd/fx/trip_fx"
	"tripplanner/internal/api/controllers"
	"tripplanner/internal/config"
	"tripplanner/internal/models/request_models"
	"tripplanner/pkg/middleware"
	"tripplanner/pkg/utils"
)

func main() {
	app := fx.New(
		config_fx.Module,
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger.Named("fx")}
		}),
		db_fx.Module,
		auth_fx.Module,
		memcache_fx.Module,
		trip_fx.Module,
		place_fx.Module,
		itinerary_fx.Module,
		prompt_fx.Module,
		controllers_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(RegisterValidators),
		fx.Invoke(StartServer),
	)

	app.Run()
}

// RegisterValidators adds the domain binding tags to gin's validator.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected binding validator engine")
	}
	return request_models.RegisterValidators(v)
}

func StartServer(lc fx.Lifecycle, cfg config.Config, engine *gin.Engine, logger *zap.Logger) {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			logger.Info("starting HTTP server", zap.String("addr", srv.Addr))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Fatal("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}

func ProvideRouter(
	cfg config.Config,
	logger *zap.Logger,
	verifier *utils.TokenVerifier,
	tripController *controllers.TripController,
	placeController *controllers.PlaceController,
	itineraryController *controllers.ItineraryController,
	suggestionController *controllers.SuggestionController) *gin.Engine {

	gin.SetMode(cfg.GinMode)

	r := gin.New()
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.RequestLogger(logger.Named("http")))
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins))

	RegisterRoutes(r, verifier, tripController, placeController, itineraryController, suggestionController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	verifier *utils.TokenVerifier,
	tripController *controllers.TripController,
	placeController *controllers.PlaceController,
	itineraryController *controllers.ItineraryController,
	suggestionController *controllers.SuggestionController) {

	auth := middleware.JWTAuthMiddleware(verifier)
	optionalAuth := middleware.OptionalAuthMiddleware(verifier)

	r.GET("/health", func(c *gin.Context) {
		utils.RespondSuccess(c, gin.H{"time": time.Now().UTC().Format(time.RFC3339)}, "OK")
	})

	tripsGroup := r.Group("/trips")
	tripsGroup.POST("", auth, tripController.CreateTrip)
	tripsGroup.GET("", optionalAuth, tripController.ListTrips)
	tripsGroup.GET("/:id", optionalAuth, tripController.GetTrip)
	tripsGroup.PUT("/:id", auth, tripController.UpdateTrip)
	tripsGroup.DELETE("/:id", auth, tripController.DeleteTrip)

	placesGroup := r.Group("/places")
	placesGroup.POST("", auth, placeController.CreatePlace)
	placesGroup.GET("/search", placeController.SearchPlaces)
	placesGroup.GET("/nearby", placeController.NearbyPlaces)
	placesGroup.GET("/:id", placeController.GetPlace)
	placesGroup.PUT("/:id", auth, placeController.UpdatePlace)

	itineraryGroup := r.Group("/itinerary")
	itineraryGroup.POST("", auth, itineraryController.AddEntry)
	itineraryGroup.PUT("/:id", auth, itineraryController.UpdateEntry)
	itineraryGroup.DELETE("/:id", auth, itineraryController.RemoveEntry)
	itineraryGroup.GET("/trips/:tripId", optionalAuth, itineraryController.GetTripItinerary)
	itineraryGroup.PUT("/trips/:tripId/reorder", auth, itineraryController.ReorderItinerary)

	aiGroup := r.Group("/ai", auth)
	aiGroup.POST("/trips/:tripId/suggestions", suggestionController.GenerateSuggestions)
	aiGroup.POST("/trips/:tripId/optimize", suggestionController.OptimizeItinerary)
	aiGroup.GET("/trips/:tripId/suggestions", suggestionController.ListSuggestions)
	aiGroup.PUT("/suggestions/:id/accept", suggestionController.AcceptSuggestion)
	aiGroup.PUT("/suggestions/:id/reject", suggestionController.RejectSuggestion)
}
