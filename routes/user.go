package routes

import (
	"github.com/gin-gonic/gin"

	addressControllers "github.com/Nikhil-10404/Food-Delivery-App/controllers/address"
	cartControllers "github.com/Nikhil-10404/Food-Delivery-App/controllers/cart"
	userControllers "github.com/Nikhil-10404/Food-Delivery-App/controllers/user"
	"github.com/Nikhil-10404/Food-Delivery-App/middleware"
)

func SetupUserRoutes(r *gin.Engine, d Deps) {
	user := r.Group("/user", middleware.ValidateToken)
	{
		user.GET("", userControllers.GetUser(d.DB))
		user.PUT("", userControllers.UpdateUser(d.DB))

		// cart
		user.GET("/cart", cartControllers.GetUserCart(d.DB))
		user.POST("/cart/items", cartControllers.AddCartItem(d.DB))
		user.PUT("/cart/items", cartControllers.UpdateCartItemQty(d.DB))
		user.GET("/cart/snapshot", cartControllers.GetCartSnapshot(d.DB))
		user.PUT("/cart/snapshot", cartControllers.PutCartSnapshot(d.DB))
		user.DELETE("/cart/:restaurantId", cartControllers.ClearRestaurantCart(d.DB))
		user.DELETE("/cart/:restaurantId/unavailable", cartControllers.RemoveUnavailableItems(d.DB))
		user.DELETE("/cart/:restaurantId/items/:itemId", cartControllers.RemoveCartItem(d.DB))

		// addresses
		user.GET("/addresses", addressControllers.ListAddresses(d.DB))
		user.POST("/addresses", addressControllers.CreateAddress(d.DB))
		user.PATCH("/addresses/:addressId", addressControllers.UpdateAddress(d.DB))
		user.DELETE("/addresses/:addressId", addressControllers.DeleteAddress(d.DB))
		user.POST("/addresses/:addressId/default", addressControllers.MakeDefaultAddress(d.DB))
	}
}
