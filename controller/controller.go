package controller

import (
	"context"
	"net/http"

	_ "telconova-dispatch/docs"
	"telconova-dispatch/middelware"
	"telconova-dispatch/models"
	"telconova-dispatch/services"
	"telconova-dispatch/utils/logger"
	"telconova-dispatch/utils/swagger"

	"github.com/gin-gonic/gin"
	"github.com/swaggo/swag"
)

type Controller struct {
	Catalog        *CatalogController
	Assignment     *AssignmentController
	Advisor        *AdvisorController
	Auth           *AuthController
	Infrastructure *InfrastructureController
	jwtManager     *middelware.JWTManager
	logger         logger.Logger
}

func NewController(ctx context.Context, svc services.ServiceContainerInterface, jwtManager *middelware.JWTManager, cfg *models.Config, log logger.Logger) *Controller {
	return &Controller{
		Catalog:        NewCatalogController(ctx, svc.GetCatalogService(), log),
		Assignment:     NewAssignmentController(ctx, svc.GetAssignmentService(), log),
		Advisor:        NewAdvisorController(ctx, svc.GetAdvisorService(), log),
		Auth:           NewAuthController(ctx, svc.GetAuthService(), jwtManager, log),
		Infrastructure: NewInfrastructureController(ctx, svc.GetInfrastructureService(), cfg, log),
		jwtManager:     jwtManager,
		logger:         log,
	}
}

// RegisterRoutes mounts the API under basePath. Everything except health,
// login and the documentation requires a supervisor bearer token.
func (c *Controller) RegisterRoutes(r *gin.Engine, basePath string) {
	// Swagger UI with the supervisor login bar
	swaggerConfig := swagger.SwaggerConfig{
		Title:         "Telconova Dispatch API",
		SwaggerDocURL: "/swagger/doc.json",
		AuthURL:       basePath + "/auth/login",
	}
	r.GET("/swagger", swagger.ServeSwaggerUI(swaggerConfig))
	r.GET("/swagger/index.html", swagger.ServeSwaggerUI(swaggerConfig))
	r.GET("/swagger/doc.json", c.serveDoc)

	v1 := r.Group(basePath)
	v1.GET("/health", c.Infrastructure.Health)
	v1.GET("/swagger/doc.json", c.serveDoc)
	v1.POST("/auth/login", c.Auth.Login)

	protected := v1.Group("")
	protected.Use(c.jwtManager.AuthMiddleware(), c.jwtManager.RequireRole(models.RoleSupervisor))

	protected.POST("/auth/logout", c.Auth.Logout)

	technicians := protected.Group("/technicians")
	technicians.GET("", c.Catalog.ListTechnicians)
	technicians.POST("", c.Catalog.CreateTechnician)
	technicians.GET("/:id", c.Catalog.GetTechnician)
	technicians.DELETE("/:id", c.Catalog.DeleteTechnician)
	technicians.PATCH("/:id/workload", c.Catalog.ReconcileWorkload)

	orders := protected.Group("/orders")
	orders.GET("", c.Catalog.ListOrders)
	orders.POST("", c.Catalog.CreateOrder)
	orders.POST("/assign", c.Assignment.AssignOrder)
	orders.POST("/auto-assign", c.Assignment.AutoAssignAll)
	orders.GET("/:id", c.Catalog.GetOrder)
	orders.POST("/:id/unassign", c.Assignment.UnassignOrder)
	orders.POST("/:id/auto-assign", c.Assignment.AutoAssignOrder)
	orders.GET("/:id/recommendations", c.Advisor.GetRecommendations)
	orders.GET("/:id/conflicts", c.Advisor.GetConflicts)
	orders.GET("/:id/best-match", c.Advisor.GetBestMatch)

	history := protected.Group("/history")
	history.GET("", c.Assignment.GetHistory)
	history.POST("/undo", c.Assignment.Undo)
	history.POST("/redo", c.Assignment.Redo)

	protected.GET("/stats", c.Catalog.GetStats)
	protected.POST("/catalog/reset", c.Catalog.ResetCatalog)
	protected.GET("/worker/status", c.Infrastructure.GetWorkerStatus)
}

func (c *Controller) serveDoc(ctx *gin.Context) {
	doc, err := swag.ReadDoc()
	if err != nil {
		c.logger.Errorf("Failed to read API document: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "API document unavailable"})
		return
	}
	ctx.Data(http.StatusOK, "application/json; charset=utf-8", []byte(doc))
}
