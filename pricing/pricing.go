// Package pricing computes checkout totals. Compute is pure and synchronous;
// callers re-run it after every cart, coupon, or config change instead of
// relying on any hidden recomputation trigger.
package pricing

import (
	"errors"
	"math"
	"time"

	"github.com/Nikhil-10404/Food-Delivery-App/models"
)

// GSTRate is the flat tax applied on top of the discounted subtotal plus fees.
const GSTRate = 0.05

type Totals struct {
	SubTotal    float64 `json:"subTotal"`
	PlatformFee float64 `json:"platformFee"`
	DeliveryFee float64 `json:"deliveryFee"`
	GST         float64 `json:"gst"`
	Discount    float64 `json:"discount"`
	Total       float64 `json:"total"`
}

// Coupon validation failures. Callers surface these and drop the coupon;
// a previously applied coupon that turns invalid is auto-cleared this way.
var (
	ErrCouponInactive        = errors.New("coupon is not active")
	ErrCouponExpired         = errors.New("coupon has expired")
	ErrCouponMinSubtotal     = errors.New("order subtotal is below the coupon minimum")
	ErrCouponWrongRestaurant = errors.New("coupon is not valid for this restaurant")
)

// ValidateCoupon checks a coupon against the current subtotal and clock.
// Must be re-run whenever either changes.
func ValidateCoupon(c *models.Coupon, restaurantID string, subTotal float64, now time.Time) error {
	if c == nil {
		return nil
	}
	if c.RestaurantID != "" && c.RestaurantID != restaurantID {
		return ErrCouponWrongRestaurant
	}
	if !c.IsActive {
		return ErrCouponInactive
	}
	if c.ActiveUntil != nil && !c.ActiveUntil.After(now) {
		return ErrCouponExpired
	}
	if subTotal < c.MinSubtotal {
		return ErrCouponMinSubtotal
	}
	return nil
}

// Compute derives totals from the *available* cart lines of one restaurant.
// Callers must filter out unavailable lines first; they never contribute to
// any figure. The coupon, if non-nil, must already be validated.
//
// The fixed coupon discount is deliberately not capped at the subtotal; the
// non-negative clamp on the total absorbs any overshoot, matching the fee
// schedule the mobile clients were shipped with.
func Compute(lines []models.CartLine, cfg models.PlatformConfig, coupon *models.Coupon) Totals {
	var subTotal float64
	for _, l := range lines {
		subTotal += l.ItemPrice * float64(l.Qty)
	}

	deliveryFee := cfg.DeliveryFee
	if subTotal >= cfg.FreeDeliveryThreshold {
		deliveryFee = 0
	}

	var discount float64
	if coupon != nil {
		switch coupon.Type {
		case models.CouponFixed:
			discount = math.Max(0, coupon.Value)
		case models.CouponPercentage:
			discount = roundHalfAway(subTotal * coupon.Value / 100)
		case models.CouponFreeship:
			deliveryFee = 0 // expressed via the fee, not the discount field
		}
	}

	gstBase := math.Max(0, subTotal-discount) + cfg.PlatformFee + deliveryFee
	gst := roundHalfAway(gstBase * GSTRate)
	total := math.Max(0, subTotal-discount+cfg.PlatformFee+deliveryFee+gst)

	return Totals{
		SubTotal:    subTotal,
		PlatformFee: cfg.PlatformFee,
		DeliveryFee: deliveryFee,
		GST:         gst,
		Discount:    discount,
		Total:       total,
	}
}

// roundHalfAway rounds to whole currency units, half away from zero.
func roundHalfAway(v float64) float64 {
	return math.Round(v)
}
