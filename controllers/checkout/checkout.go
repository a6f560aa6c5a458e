package checkoutControllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Nikhil-10404/Food-Delivery-App/cart"
	"github.com/Nikhil-10404/Food-Delivery-App/models"
	"github.com/Nikhil-10404/Food-Delivery-App/payments"
	"github.com/Nikhil-10404/Food-Delivery-App/pricing"
)

type QuoteRequest struct {
	CouponCode  string `json:"couponCode"`
	PrefetchUPI bool   `json:"prefetchUpi"`
	Name        string `json:"name"`
}

type QuoteResponse struct {
	AvailableLines   []models.CartLine `json:"availableLines"`
	UnavailableLines []models.CartLine `json:"unavailableLines"`
	RestaurantOpen   bool              `json:"isRestaurantOpen"`
	Blocked          bool              `json:"blocked"`
	BlockedReason    string            `json:"blockedReason,omitempty"`
	Totals           pricing.Totals    `json:"totals"`
	Coupon           *models.Coupon    `json:"coupon,omitempty"`
	CouponError      string            `json:"couponError,omitempty"`
	PendingOrderID   string            `json:"pendingOrderId,omitempty"`
}

// FindCoupon resolves a code for a restaurant. A missing code is not an
// error here; validation happens against the quoted subtotal.
func FindCoupon(db *gorm.DB, restaurantID, code string) (*models.Coupon, error) {
	if code == "" {
		return nil, nil
	}
	var c models.Coupon
	err := db.Where("restaurant_id = ? AND code = ?", restaurantID, code).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.New("coupon code not found")
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ResolveCoupon looks the code up and re-validates it against the subtotal
// and clock. An invalid coupon is dropped and reported, never applied.
func ResolveCoupon(db *gorm.DB, restaurantID, code string, subTotal float64) (*models.Coupon, string) {
	coupon, err := FindCoupon(db, restaurantID, code)
	if err != nil {
		return nil, err.Error()
	}
	if coupon == nil {
		return nil, ""
	}
	if err := pricing.ValidateCoupon(coupon, restaurantID, subTotal, time.Now()); err != nil {
		return nil, err.Error()
	}
	return coupon, ""
}

// Quote is the checkout-entry endpoint: availability split, server-side
// totals, coupon re-validation, and an optional UPI link warm-up while the
// confirmation countdown runs on the device.
//
// POST /checkout/:restaurantId/quote
func Quote(db *gorm.DB, prefetcher *payments.Prefetcher, deepLinkScheme string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		restaurantID := c.Param("restaurantId")

		// a quote without a body is fine
		var req QuoteRequest
		_ = c.ShouldBindJSON(&req)

		lines, err := LoadRestaurantLines(db, userID, restaurantID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart"})
			return
		}

		res := CheckAvailability(db, restaurantID, lines)
		cfg := LoadPlatformConfig(db)

		resp := QuoteResponse{
			AvailableLines:   res.AvailableLines,
			UnavailableLines: res.UnavailableLines,
			RestaurantOpen:   res.RestaurantOpen,
		}

		subTotal := 0.0
		for _, l := range res.AvailableLines {
			subTotal += l.ItemPrice * float64(l.Qty)
		}
		coupon, couponErr := ResolveCoupon(db, restaurantID, req.CouponCode, subTotal)
		resp.Coupon = coupon
		resp.CouponError = couponErr
		resp.Totals = pricing.Compute(res.AvailableLines, cfg, coupon)

		switch {
		case !res.RestaurantOpen:
			resp.Blocked = true
			resp.BlockedReason = "restaurant_closed"
		case len(res.AvailableLines) == 0 && len(res.UnavailableLines) > 0:
			resp.Blocked = true
			resp.BlockedReason = "all_items_unavailable"
		case len(lines) == 0:
			resp.Blocked = true
			resp.BlockedReason = "cart_empty"
		}

		// Warm the UPI link only when checkout could actually proceed.
		if req.PrefetchUPI && !resp.Blocked && len(res.UnavailableLines) == 0 && prefetcher != nil {
			if pending := FindPendingUPIOrder(db, userID, restaurantID); pending != nil {
				resp.PendingOrderID = pending.ID
				params := payments.CreateLinkParams{
					ReferenceID: pending.ID,
					Amount:      resp.Totals.Total,
					Name:        req.Name,
					CallbackURL: deepLinkScheme + "://orders/" + pending.ID,
				}
				go func() { _, _ = prefetcher.Ensure(context.Background(), params) }()
			}
		}

		c.JSON(http.StatusOK, resp)
	}
}

// LoadRestaurantLines returns the user's cart lines for one restaurant.
// A missing cart reads as empty, never as an error.
func LoadRestaurantLines(db *gorm.DB, userID, restaurantID string) ([]models.CartLine, error) {
	var stored models.Cart
	err := db.Preload("Lines").Where("user_id = ?", userID).First(&stored).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return cart.ForRestaurant(stored.Lines, restaurantID), nil
}

// FindPendingUPIOrder returns the newest reusable pending-payment order for
// (user, restaurant), or nil.
func FindPendingUPIOrder(db *gorm.DB, userID, restaurantID string) *models.Order {
	var o models.Order
	err := db.Where(
		"user_id = ? AND restaurant_id = ? AND payment_method = ? AND status = ?",
		userID, restaurantID, models.PaymentMethodUPI, models.OrderStatusPendingPayment,
	).Order("created_at DESC").First(&o).Error
	if err != nil {
		return nil
	}
	return &o
}
