package models

import "time"

type CouponType string

const (
	CouponFixed      CouponType = "fixed"      // flat amount off the subtotal
	CouponPercentage CouponType = "percentage" // percent of the subtotal
	CouponFreeship   CouponType = "freeship"   // zeroes the delivery fee instead
)

type Coupon struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	RestaurantID string     `gorm:"index" json:"restaurantId"`
	Code         string     `gorm:"index" json:"code"`
	Type         CouponType `gorm:"type:VARCHAR(12)" json:"type"`
	Value        float64    `json:"value"`
	MinSubtotal  float64    `json:"minSubtotal"`
	ActiveUntil  *time.Time `json:"activeUntil,omitempty"` // nil means no expiry
	IsActive     bool       `json:"isActive"`
	Title        string     `json:"title,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}
