package routes

import (
	"github.com/gin-gonic/gin"

	checkoutControllers "github.com/Nikhil-10404/Food-Delivery-App/controllers/checkout"
	"github.com/Nikhil-10404/Food-Delivery-App/middleware"
)

func SetupCheckoutRoutes(r *gin.Engine, d Deps) {
	checkout := r.Group("/checkout", middleware.ValidateToken)
	{
		// Availability split + server-side totals + coupon re-validation
		checkout.POST("/:restaurantId/quote", checkoutControllers.Quote(d.DB, d.Prefetcher, d.DeepLinkScheme))
	}
}
