package bootstrap

import (
	"database/sql"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	httpapi "github.com/craftplan-dev/craftplan-backend/internal/api/http"
	"github.com/craftplan-dev/craftplan-backend/internal/api/middleware"
	projecthttp "github.com/craftplan-dev/craftplan-backend/internal/projects/http"
	"github.com/craftplan-dev/craftplan-backend/internal/projects/service"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	DB          *sql.DB
	Projects    *service.ProjectService
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default())

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")
	api.Use(middleware.RequestIDMiddleware())
	api.Use(middleware.RateLimitMiddleware(rate.Limit(20), 40))

	projectsGroup := api.Group("/projects")
	projecthttp.New(dep.Projects).Register(projectsGroup)

	return r
}
