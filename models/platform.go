package models

// Safe defaults used whenever the platform config row is missing or
// unreadable; checkout must never fail because fees could not be loaded.
const (
	DefaultPlatformFee           = 5
	DefaultDeliveryFee           = 29
	DefaultFreeDeliveryThreshold = 399
)

// PlatformConfig is a singleton row holding the marketplace fee schedule.
// Read-only from the ordering flow.
type PlatformConfig struct {
	ID                    uint    `gorm:"primaryKey" json:"id"`
	PlatformFee           float64 `json:"platformFee"`
	DeliveryFee           float64 `json:"deliveryFee"`
	FreeDeliveryThreshold float64 `json:"freeDeliveryThreshold"`
}

// DefaultPlatformConfig returns the fallback fee schedule.
func DefaultPlatformConfig() PlatformConfig {
	return PlatformConfig{
		PlatformFee:           DefaultPlatformFee,
		DeliveryFee:           DefaultDeliveryFee,
		FreeDeliveryThreshold: DefaultFreeDeliveryThreshold,
	}
}
