package routes

import (
	"github.com/gin-gonic/gin"

	userControllers "github.com/Nikhil-10404/Food-Delivery-App/controllers/user"
)

func SetupAuthRoutes(r *gin.Engine, d Deps) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", userControllers.Register(d.DB))
		auth.POST("/login", userControllers.Login(d.DB))
	}
}
