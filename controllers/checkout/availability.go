package checkoutControllers

import (
	"github.com/Nikhil-10404/Food-Delivery-App/models"
	"gorm.io/gorm"
)

// AvailabilityResult splits a restaurant's cart lines by live menu-item
// availability and carries the restaurant's open flag.
type AvailabilityResult struct {
	AvailableLines   []models.CartLine `json:"availableLines"`
	UnavailableLines []models.CartLine `json:"unavailableLines"`
	RestaurantOpen   bool              `json:"isRestaurantOpen"`
}

// CheckAvailability re-queries the live available/open flags for the given
// cart lines. Unknown items and unreadable restaurants count as available
// and open: the polarity fails open so a read hiccup never blocks checkout.
// Callers must not trust a previous result; re-check before committing.
func CheckAvailability(db *gorm.DB, restaurantID string, lines []models.CartLine) AvailabilityResult {
	res := AvailabilityResult{RestaurantOpen: true}

	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ItemID)
	}

	avail := map[string]bool{}
	if len(ids) > 0 {
		var items []models.MenuItem
		if err := db.Where("id IN ?", ids).Find(&items).Error; err == nil {
			for _, it := range items {
				avail[it.ID] = it.Available
			}
		}
	}

	for _, l := range lines {
		if a, ok := avail[l.ItemID]; ok && !a {
			res.UnavailableLines = append(res.UnavailableLines, l)
		} else {
			res.AvailableLines = append(res.AvailableLines, l)
		}
	}

	// missing or unreadable restaurant rows stay open
	var r models.Restaurant
	if err := db.First(&r, "id = ?", restaurantID).Error; err == nil {
		res.RestaurantOpen = r.Open
	}
	return res
}

// LoadPlatformConfig reads the singleton fee schedule, falling back to safe
// defaults when the row is missing or unreadable.
func LoadPlatformConfig(db *gorm.DB) models.PlatformConfig {
	var cfg models.PlatformConfig
	if err := db.First(&cfg).Error; err != nil {
		return models.DefaultPlatformConfig()
	}
	if cfg.PlatformFee == 0 && cfg.DeliveryFee == 0 && cfg.FreeDeliveryThreshold == 0 {
		return models.DefaultPlatformConfig()
	}
	return cfg
}
