package webserver

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/caritas-dao/caritas/src/api/config"
	"github.com/caritas-dao/caritas/src/api/data"
)

func New(cfg config.Config, svc *data.Service, rdb *redis.Client) *gin.Engine {
	g := gin.New()
	g.Use(gin.Logger(), gin.Recovery())
	attachRoutes(g, cfg, svc, rdb)
	return g
}
