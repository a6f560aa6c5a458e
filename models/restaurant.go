package models

import "time"

type Restaurant struct {
	ID        string     `gorm:"primaryKey" json:"id"`
	Name      string     `gorm:"not null" json:"name"`
	Cuisine   string     `json:"cuisine,omitempty"`
	PhotoID   string     `json:"photoId,omitempty"`
	Open      bool       `gorm:"default:true" json:"open"`
	MenuItems []MenuItem `gorm:"foreignKey:RestaurantID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

type MenuItem struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	RestaurantID string    `gorm:"index" json:"restaurantId"`
	Name         string    `gorm:"not null" json:"name"`
	Description  string    `json:"description,omitempty"`
	Price        float64   `gorm:"not null" json:"price"`
	PhotoID      string    `json:"photoId,omitempty"`
	Available    bool      `gorm:"default:true" json:"available"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
