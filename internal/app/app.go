package app

import (
	"net/http"

	"mavina/internal/config"
	"mavina/internal/domain"
	"mavina/internal/metrics"
	"mavina/internal/middleware"
	"mavina/internal/modules/appointment"
	"mavina/internal/modules/auth"
	"mavina/internal/modules/events"
	"mavina/internal/modules/geocode"
	"mavina/internal/modules/loyalty"
	"mavina/internal/modules/provider"
	"mavina/internal/modules/schedule"
	"mavina/internal/modules/vehicle"
	jwtsvc "mavina/internal/pkg/jwt"
	"mavina/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Deps struct {
	Config   *config.Config
	DB       *gorm.DB
	Redis    *redis.Client
	Log      *zap.Logger
	Registry *prometheus.Registry
}

type App struct {
	Router       *gin.Engine
	Hub          *events.Hub
	Appointments *appointment.Service
	JWT          *jwtsvc.Service
}

// New wires repositories, services and routes. Redis is optional.
func New(d Deps) *App {
	cfg := d.Config
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}

	userRepo := repository.NewUserRepository(d.DB)
	providerRepo := repository.NewProviderRepository(d.DB)
	appointmentRepo := repository.NewAppointmentRepository(d.DB)
	vehicleRepo := repository.NewVehicleRepository(d.DB)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)
	m := metrics.New(d.Registry)
	hub := events.NewHub(log)

	authHandler := auth.NewHandler(auth.NewService(userRepo, providerRepo, j, log))
	providerHandler := provider.NewHandler(provider.NewService(providerRepo))

	scheduleService := schedule.NewService(providerRepo, providerRepo, appointmentRepo, cfg.SlotStep, cfg.Location)
	scheduleHandler := schedule.NewHandler(scheduleService)

	appointmentService := appointment.NewService(appointment.Deps{
		Repo:      appointmentRepo,
		Slots:     scheduleService,
		Providers: providerRepo,
		Vehicles:  vehicleRepo,
		Users:     userRepo,
		Events:    hub,
		Metrics:   m,
		Log:       log,
	})
	appointmentHandler := appointment.NewHandler(appointmentService)

	vehicleHandler := vehicle.NewHandler(vehicle.NewService(vehicleRepo))
	loyaltyHandler := loyalty.NewHandler(loyalty.NewService(appointmentRepo, cfg.Location))

	var geoCache geocode.Cache
	if d.Redis != nil {
		geoCache = geocode.NewRedisCache(d.Redis)
	}
	geocodeHandler := geocode.NewHandler(geocode.NewResolver(geocode.Options{
		GoogleAPIKey: cfg.GoogleMapsAPIKey,
		GoogleURL:    cfg.GoogleGeocodeURL,
		NominatimURL: cfg.NominatimURL,
		Timeout:      cfg.GeocodeTimeout,
		CacheTTL:     cfg.GeocodeCacheTTL,
	}, geoCache, log))
	eventsHandler := events.NewHandler(hub, j, cfg.CORSAllowedOrigins)

	if cfg.IsProdLike() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.ErrorLogger(log),
		middleware.RequestLogger(log),
		middleware.HTTPMetrics(m),
		middleware.CORS(cfg.CORSAllowedOrigins),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(m.Handler()))

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterPublicRoutes(v1)
		providerHandler.RegisterPublicRoutes(v1)
		scheduleHandler.RegisterRoutes(v1)
		loyaltyHandler.RegisterPublicRoutes(v1)
		geocodeHandler.RegisterRoutes(v1)
		eventsHandler.RegisterRoutes(v1)

		protected := v1.Group("")
		protected.Use(middleware.JWTAuth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			appointmentHandler.RegisterRoutes(protected)

			customers := protected.Group("")
			customers.Use(middleware.RequireRole(domain.RoleCustomer))
			vehicleHandler.RegisterRoutes(customers)
			loyaltyHandler.RegisterProtectedRoutes(customers)

			providers := protected.Group("")
			providers.Use(middleware.RequireRole(domain.RoleProvider))
			providerHandler.RegisterSelfRoutes(providers)
		}
	}

	return &App{
		Router:       r,
		Hub:          hub,
		Appointments: appointmentService,
		JWT:          j,
	}
}
