package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appointmenthandler "github.com/caremeet/telehealth-api/internal/handler/appointment"
	authhandler "github.com/caremeet/telehealth-api/internal/handler/auth"
	availabilityhandler "github.com/caremeet/telehealth-api/internal/handler/availability"
	chathandler "github.com/caremeet/telehealth-api/internal/handler/chat"
	healthhandler "github.com/caremeet/telehealth-api/internal/handler/health"
	kychandler "github.com/caremeet/telehealth-api/internal/handler/kyc"
	notificationhandler "github.com/caremeet/telehealth-api/internal/handler/notification"
	ratinghandler "github.com/caremeet/telehealth-api/internal/handler/rating"
	userhandler "github.com/caremeet/telehealth-api/internal/handler/user"
	"github.com/caremeet/telehealth-api/internal/middleware"
	"github.com/caremeet/telehealth-api/internal/model"
	"github.com/caremeet/telehealth-api/pkg/logger"
	"github.com/caremeet/telehealth-api/pkg/metrics"
)

type Handlers struct {
	Health       *healthhandler.Handler
	Auth         *authhandler.Handler
	Availability *availabilityhandler.Handler
	Appointment  *appointmenthandler.Handler
	KYC          *kychandler.Handler
	Notification *notificationhandler.Handler
	Rating       *ratinghandler.Handler
	Chat         *chathandler.Handler
	User         *userhandler.Handler
}

type Config struct {
	RateLimitRPS   float64
	RateLimitBurst int
	CORS           middleware.CORSConfig
	MetricsPrefix  string
}

type Router struct {
	engine *gin.Engine
}

// NewRouter assembles the gin engine: global middleware, operational
// endpoints at the root, and the API surface under /api/v1.
func NewRouter(handlers Handlers, authMW *middleware.AuthMiddleware, log *logger.Logger, cfg Config) *Router {
	gin.SetMode(gin.ReleaseMode)
	model.RegisterValidators()
	engine := gin.New()

	httpMetrics := metrics.NewHTTPMetrics(cfg.MetricsPrefix)
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	engine.Use(
		middleware.Recovery(log),
		middleware.RequestID(),
		middleware.Logger(log),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.CORS),
		rateLimiter.RateLimit(),
	)

	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	root := engine.Group("")
	handlers.Health.RegisterRoutes(root)

	api := engine.Group("/api/v1")
	handlers.Auth.RegisterRoutes(api, authMW)
	handlers.Availability.RegisterRoutes(api, authMW)
	handlers.Appointment.RegisterRoutes(api, authMW)
	handlers.KYC.RegisterRoutes(api, authMW)
	handlers.Notification.RegisterRoutes(api, authMW)
	handlers.Rating.RegisterRoutes(api, authMW)
	handlers.Chat.RegisterRoutes(api, authMW)
	handlers.User.RegisterRoutes(api, authMW)

	return &Router{engine: engine}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
