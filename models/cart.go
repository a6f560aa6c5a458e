package models

import "time"

type Cart struct {
	CartID    uint       `gorm:"primaryKey" json:"cart_id"`
	UserID    string     `gorm:"uniqueIndex" json:"user_id"` // Enforces ONE cart per user
	Lines     []CartLine `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"lines"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CartLine is one (restaurant, menu item) entry in a user's cart.
// At most one line exists per (restaurant_id, item_id) within a cart,
// and Qty is always >= 1; a line is removed rather than kept at zero.
type CartLine struct {
	ID             uint      `gorm:"primaryKey" json:"-"`
	CartID         uint      `gorm:"index" json:"-"`
	RestaurantID   string    `gorm:"index" json:"restaurantId"`
	RestaurantName string    `json:"restaurantName"`
	ItemID         string    `json:"itemId"`
	ItemName       string    `json:"itemName"`
	ItemPrice      float64   `json:"itemPrice"`
	PhotoID        string    `json:"photoId,omitempty"`
	Qty            int       `json:"qty"`
	AddedAt        time.Time `json:"addedAt"`
}
