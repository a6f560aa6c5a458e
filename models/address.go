package models

import "time"

// Address is a saved delivery address. Whenever a user has at least one
// address, exactly one of them carries IsDefault=true.
type Address struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"index" json:"userId"`
	FullName  string    `json:"fullName"`
	Phone     string    `json:"phone"`
	Line1     string    `json:"line1"`
	Landmark  string    `json:"landmark,omitempty"`
	Pincode   string    `json:"pincode"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	Country   string    `json:"country"`
	IsDefault bool      `json:"isDefault"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
