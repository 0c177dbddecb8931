package main

import (
	"github.com/gin-gonic/gin"
)

// router assembles the guard pipeline: public session endpoints, auth-gated
// account endpoints, and admin-gated catalog mutations. Uploaded images are
// served statically like the rest of the catalog assets.
func (s *server) router() *gin.Engine {
	r := gin.Default()

	api := r.Group("/api")
	api.POST("/register", s.registerHandler)
	api.POST("/login", s.loginHandler)
	api.POST("/refresh", s.refreshHandler)
	api.GET("/products", s.listProductsHandler)
	api.GET("/products/:id", s.getProductHandler)

	authed := api.Group("")
	authed.Use(s.authRequired())
	authed.GET("/me", s.meHandler)
	authed.POST("/logout", s.logoutHandler)

	admin := authed.Group("")
	admin.Use(s.requireRole("admin"))
	admin.POST("/products", s.createProductHandler)
	admin.PUT("/products/:id", s.updateProductHandler)
	admin.DELETE("/products/:id", s.deleteProductHandler)

	r.Static("/uploads", s.cfg.UploadDir)

	return r
}
