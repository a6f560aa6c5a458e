package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Nikhil-10404/Food-Delivery-App/payments"
)

// Deps carries the collaborators the route groups close over.
type Deps struct {
	DB             *gorm.DB
	Payments       *payments.Client
	Prefetcher     *payments.Prefetcher
	DeepLinkScheme string // app scheme for payment callback URLs
}

// SetupRoutes is the single entry-point that wires up every route group.
func SetupRoutes(r *gin.Engine, d Deps) {
	// Public auth routes (no middleware)
	SetupAuthRoutes(r, d)

	// Public browse routes
	SetupRestaurantRoutes(r, d)

	// User routes (JWT-protected): profile, cart, addresses
	SetupUserRoutes(r, d)

	// Checkout + order routes
	SetupCheckoutRoutes(r, d)
	SetupOrderRoutes(r, d)

	// Admin routes (API-key-protected)
	SetupAdminRoutes(r, d)
}
