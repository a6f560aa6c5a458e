package routes

import (
	"github.com/gin-gonic/gin"

	orderControllers "github.com/Nikhil-10404/Food-Delivery-App/controllers/order"
	restaurantControllers "github.com/Nikhil-10404/Food-Delivery-App/controllers/restaurant"
	"github.com/Nikhil-10404/Food-Delivery-App/middleware"
)

func SetupAdminRoutes(r *gin.Engine, d Deps) {
	admin := r.Group("/admin", middleware.ValidateAPIKey)
	{
		admin.POST("/restaurants", restaurantControllers.CreateRestaurant(d.DB))
		admin.PUT("/restaurants/:id/open", restaurantControllers.SetRestaurantOpen(d.DB))
		admin.POST("/restaurants/:id/menu", restaurantControllers.CreateMenuItem(d.DB))
		admin.PUT("/menu-items/:itemId/available", restaurantControllers.SetMenuItemAvailability(d.DB))

		admin.GET("/orders/export", orderControllers.ExportOrdersToExcel(d.DB))
		admin.PUT("/orders/:orderID/status", orderControllers.UpdateOrderStatus(d.DB))
		admin.PUT("/orders/:orderID/payment-status", orderControllers.UpdatePaymentStatus(d.DB))
	}
}
