package models

import "time"

type OrderStatus string
type PaymentStatus string
type PaymentMethod string

const (
	// Order statuses (food-delivery flow)
	OrderStatusPlaced         OrderStatus = "placed"          // COD order confirmed, or UPI order after payment
	OrderStatusPendingPayment OrderStatus = "pending_payment" // UPI order awaiting payment
	OrderStatusAccepted       OrderStatus = "accepted"        // Accepted by the restaurant
	OrderStatusPreparing      OrderStatus = "preparing"       // Being prepared
	OrderStatusOnTheWay       OrderStatus = "on_the_way"      // Out for delivery
	OrderStatusDelivered      OrderStatus = "delivered"       // Terminal
	OrderStatusCancelled      OrderStatus = "cancelled"       // Terminal

	// Payment statuses
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"

	// Payment methods
	PaymentMethodCOD  PaymentMethod = "COD"
	PaymentMethodUPI  PaymentMethod = "UPI"
	PaymentMethodCard PaymentMethod = "CARD"
)

// Order mirrors the order document of the mobile app: items and the shipping
// address are stored as JSON strings, money figures as whole currency units.
// Invariant: Total == max(0, SubTotal - Discount + PlatformFee + DeliveryFee + GST).
type Order struct {
	ID             string        `gorm:"primaryKey" json:"id"`
	UserID         string        `gorm:"index" json:"userId"`
	RestaurantID   string        `gorm:"index" json:"restaurantId"`
	RestaurantName string        `json:"restaurantName"`
	Items          string        `json:"items"`   // JSON array of OrderItem
	Address        string        `json:"address"` // JSON OrderAddress
	SubTotal       float64       `json:"subTotal"`
	PlatformFee    float64       `json:"platformFee"`
	DeliveryFee    float64       `json:"deliveryFee"`
	GST            float64       `json:"gst"`
	Discount       float64       `json:"discount"`
	Total          float64       `json:"total"`
	PaymentMethod  PaymentMethod `gorm:"type:VARCHAR(8)" json:"paymentMethod"`
	PaymentStatus  PaymentStatus `gorm:"type:VARCHAR(16);default:'pending'" json:"paymentStatus"`
	Status         OrderStatus   `gorm:"type:VARCHAR(20)" json:"status"`
	ReferenceID    string        `gorm:"index" json:"referenceId"` // payment reference, equals the order id
	CouponCode     string        `json:"couponCode,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

// OrderItem is the JSON shape serialized into Order.Items.
type OrderItem struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Qty   int     `json:"qty"`
}

// OrderAddress is the JSON shape serialized into Order.Address.
type OrderAddress struct {
	FullName  string `json:"fullName"`
	Phone     string `json:"phone"`
	Line1     string `json:"line1"`
	Landmark  string `json:"landmark,omitempty"`
	Pincode   string `json:"pincode"`
	City      string `json:"city"`
	State     string `json:"state"`
	Country   string `json:"country"`
	IsDefault bool   `json:"isDefault"`
}
