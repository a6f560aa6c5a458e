package routes

import (
	"github.com/gin-gonic/gin"

	restaurantControllers "github.com/Nikhil-10404/Food-Delivery-App/controllers/restaurant"
)

func SetupRestaurantRoutes(r *gin.Engine, d Deps) {
	restaurants := r.Group("/restaurants")
	{
		restaurants.GET("", restaurantControllers.ListRestaurants(d.DB))
		restaurants.GET("/:id", restaurantControllers.GetRestaurant(d.DB))
		restaurants.GET("/:id/menu", restaurantControllers.GetRestaurantMenu(d.DB))
	}
}
