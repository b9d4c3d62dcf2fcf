package http

import (
	"github.com/gin-gonic/gin"

	"maven/internal/infrastructure/config"
	"maven/internal/interfaces/http/middleware"
)

// Router owns the gin engine and route registration.
type Router struct {
	engine    *gin.Engine
	container *Container
}

func NewRouter(cfg *config.Config, container *Container) *Router {
	gin.SetMode(ginMode(cfg.Server.Mode))

	engine := gin.New()
	engine.Use(gin.Recovery(), middleware.CORS())

	r := &Router{engine: engine, container: container}
	r.registerRoutes()
	return r
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func (r *Router) registerRoutes() {
	c := r.container
	requireAuth := c.AuthMiddleware.RequireAuth()
	requireAdmin := c.AuthMiddleware.RequireAdmin()

	r.engine.GET("/.well-known/jwks.json", c.AuthHandler.JWKS)
	r.engine.POST("/provision", c.ProvisionHandler.Provision)

	api := r.engine.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", c.AuthHandler.Login)
		authGroup.POST("/register", c.AuthHandler.Register)
		authGroup.POST("/password", requireAuth, c.AuthHandler.ChangePassword)
		authGroup.GET("/me", requireAuth, c.AuthHandler.Me)

		passkey := authGroup.Group("/passkey")
		{
			passkey.POST("/authenticate/options", c.PasskeyHandler.StartAuthentication)
			passkey.POST("/authenticate", c.PasskeyHandler.FinishAuthentication)
			passkey.POST("/register/options", requireAuth, c.PasskeyHandler.StartRegistration)
			passkey.POST("/register", requireAuth, c.PasskeyHandler.FinishRegistration)
		}
	}

	passkeys := api.Group("/passkeys", requireAuth)
	{
		passkeys.GET("", c.PasskeyHandler.List)
		passkeys.PATCH("/:id", c.PasskeyHandler.Rename)
		passkeys.DELETE("/:id", c.PasskeyHandler.Delete)
	}

	series := api.Group("/series", requireAuth)
	{
		series.GET("/:id/can-edit", c.PermissionHandler.CanEditSeries)
		series.GET("/:id/permissions", c.PermissionHandler.ListSeriesGrants)
		series.POST("/:id/permissions", c.PermissionHandler.GrantSeries)
		series.DELETE("/:id/permissions/:grantee", c.PermissionHandler.RevokeSeries)
		series.PUT("/:id/owner", c.PermissionHandler.TransferOwnership)
	}

	units := api.Group("/units", requireAuth)
	{
		units.GET("/:id/can-edit", c.PermissionHandler.CanEditUnit)
		units.GET("/:id/permissions", c.PermissionHandler.ListUnitGrants)
		units.POST("/:id/permissions", c.PermissionHandler.GrantUnit)
		units.DELETE("/:id/permissions/:grantee", c.PermissionHandler.RevokeUnit)
	}

	admin := api.Group("/admin", requireAuth, requireAdmin)
	{
		admin.GET("/settings/auth", c.SettingHandler.GetAuth)
		admin.PUT("/settings/auth", c.SettingHandler.UpdateAuth)
		admin.PATCH("/settings/auth", c.SettingHandler.UpdateAuth)
		admin.PUT("/users/:id/password-login", c.AdminUserHandler.SetPasswordLogin)
	}
}

func ginMode(mode string) string {
	switch mode {
	case "debug", "development":
		return gin.DebugMode
	case "test":
		return gin.TestMode
	default:
		return gin.ReleaseMode
	}
}
