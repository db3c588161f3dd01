package server

import (
	"math"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"puente-backend/internal/shared/config"
	"puente-backend/internal/shared/metrics"
	"puente-backend/internal/shared/server/middleware"
	"puente-backend/internal/shared/server/respond"
	"puente-backend/internal/web"
)

const generateRateGroup = "GENERATE"

// RouterDeps carries handlers into the router.
type RouterDeps struct {
	Config  config.Config
	Web     *web.Handler
	Limiter *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.ClientID(),
		middleware.RateLimit(generateRateLimit(deps)),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/metrics", metrics.Handler())
	if deps.Web != nil {
		deps.Web.RegisterPageRoutes(r)
		deps.Web.RegisterRoutes(api)
	}

	return r
}

// generateRateLimit throttles generation starts per client. Other requests
// fall in a group with no rule and pass through.
func generateRateLimit(deps RouterDeps) middleware.RateLimitConfig {
	rules := map[string]middleware.RateLimitRule{}
	if perMin := deps.Config.RateLimitGeneratePerMin; perMin > 0 {
		burst := int(math.Ceil(perMin))
		rules[generateRateGroup] = middleware.RateLimitRule{
			Rate:  perMin / 60.0,
			Burst: burst,
		}
	}
	return middleware.RateLimitConfig{
		Rules:   rules,
		Limiter: deps.Limiter,
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method == http.MethodPost && strings.HasSuffix(c.Request.URL.Path, "/workspace/generate") {
				return generateRateGroup
			}
			return ""
		},
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
