package webserver

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/caritas-dao/caritas/src/api/config"
	"github.com/caritas-dao/caritas/src/api/data"
)

func attachRoutes(r *gin.Engine, cfg config.Config, svc *data.Service, rdb *redis.Client) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "https://app.caritas.charity"},
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	authH := NewAuth(rdb, []byte(cfg.JWTSecret))
	campaignH := NewCampaigns(svc)
	proposalH := NewProposals(svc)
	memberH := NewMembers(svc)
	limiter := NewRateLimiter(30, time.Minute)

	v1 := r.Group("/v1")
	{
		v1.POST("/auth/challenge", authH.Challenge)
		v1.POST("/auth/verify", authH.Verify)

		secured := v1.Use(JWTMiddleware([]byte(cfg.JWTSecret)), RateLimitMiddleware(limiter))
		secured.POST("/campaigns", campaignH.Create)
		secured.GET("/campaigns", campaignH.List)
		secured.GET("/campaigns/:id", campaignH.Get)
		secured.POST("/campaigns/:id/donations", campaignH.Donate)

		secured.POST("/proposals", proposalH.Create)
		secured.GET("/proposals", proposalH.List)
		secured.GET("/proposals/:id", proposalH.Get)
		secured.POST("/proposals/:id/votes", proposalH.Vote)

		secured.POST("/members", memberH.Register)
		secured.POST("/members/contributions", memberH.Contribute)
		secured.GET("/members/:addr", memberH.Get)
	}

	admin := v1.Group("/admin")
	admin.Use(JWTMiddleware([]byte(cfg.JWTSecret)), AdminMiddleware(svc))
	{
		adminH := NewAdmin(svc)
		admin.PUT("/voting-power", adminH.SetVotingPower)
	}
}
