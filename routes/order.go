package routes

import (
	"github.com/gin-gonic/gin"

	orderControllers "github.com/Nikhil-10404/Food-Delivery-App/controllers/order"
	"github.com/Nikhil-10404/Food-Delivery-App/middleware"
)

func SetupOrderRoutes(r *gin.Engine, d Deps) {
	orders := r.Group("/orders", middleware.ValidateToken)
	{
		// Final checkout commit (COD or UPI)
		orders.POST("/place", orderControllers.PlaceOrder(d.DB, d.Prefetcher, d.DeepLinkScheme))

		// Retry payment on a pending UPI order
		orders.POST("/:orderID/pay", orderControllers.PayPendingOrder(d.DB, d.Prefetcher, d.DeepLinkScheme))

		// Deep-link return target: polls payment status once
		orders.GET("/:orderID/payment-return", orderControllers.PaymentReturn(d.DB, d.Payments))

		// Cancel: COD deletes, UPI cancels through the payment service
		orders.POST("/:orderID/cancel", orderControllers.CancelOrder(d.DB, d.Payments))

		// Fetch orders for a specific user (tabbed + cursor paging)
		orders.GET("/user/:userID", orderControllers.ListUserOrders(d.DB))

		// Fetch one order by id or payment reference
		orders.GET("/:orderID", orderControllers.GetOrderByID(d.DB))
	}
}
