package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/resumes"
	"resume-builder/internal/services/health"
	"resume-builder/internal/shared/config"
	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
	"resume-builder/internal/users"
)

const (
	rateGroupDefault  = "DEFAULT"
	rateGroupSignup   = "SIGNUP"
	rateGroupAIReview = "AI_REVIEW"
)

// RouterDeps carries the handlers and collaborators the router mounts.
type RouterDeps struct {
	Config        config.Config
	Verifier      middleware.TokenVerifier
	Health        *health.Service
	UserHandler   *users.Handler
	ResumeHandler *resumes.Handler
	// Now overrides the rate limiter clock in tests.
	Now func() time.Time
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/metrics", metrics.Handler())

	limiter := middleware.NewRateLimiter(deps.Now)

	api := r.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		status, ok := deps.Health.Status(c.Request.Context())
		code := http.StatusOK
		if !ok {
			code = http.StatusServiceUnavailable
		}
		respond.JSON(c, code, status)
	})

	if deps.UserHandler != nil {
		public := api.Group("")
		public.Use(middleware.RateLimit(middleware.RateLimitConfig{
			Rules:        map[string]middleware.RateLimitRule{rateGroupSignup: middleware.PerMinute(deps.Config.SignupRatePerMinute)},
			DefaultGroup: rateGroupSignup,
			Limiter:      limiter,
		}))
		deps.UserHandler.RegisterPublicRoutes(public)
	}

	authed := api.Group("")
	authed.Use(
		middleware.Auth(deps.Verifier),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				rateGroupAIReview: middleware.PerMinute(deps.Config.ReviewRatePerMinute),
			},
			DefaultGroup: rateGroupDefault,
			GroupFor: func(c *gin.Context) string {
				if resumes.IsReviewRequest(c) {
					return rateGroupAIReview
				}
				return rateGroupDefault
			},
			Limiter: limiter,
		}),
	)
	if deps.UserHandler != nil {
		deps.UserHandler.RegisterRoutes(authed)
	}
	if deps.ResumeHandler != nil {
		deps.ResumeHandler.RegisterRoutes(authed)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8000"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
