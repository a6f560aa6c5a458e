package addressControllers

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Nikhil-10404/Food-Delivery-App/models"
)

var phoneRe = regexp.MustCompile(`^\d{10}$`)

type AddressInput struct {
	FullName  string `json:"fullName"`
	Phone     string `json:"phone"`
	Line1     string `json:"line1"`
	Landmark  string `json:"landmark"`
	Pincode   string `json:"pincode"`
	City      string `json:"city"`
	State     string `json:"state"`
	Country   string `json:"country"`
	IsDefault bool   `json:"isDefault"`
}

// UpdateAddressInput carries only the fields the user actually changed;
// edits are partial diffs and skip the create-time validation.
type UpdateAddressInput struct {
	FullName  *string `json:"fullName"`
	Phone     *string `json:"phone"`
	Line1     *string `json:"line1"`
	Landmark  *string `json:"landmark"`
	Pincode   *string `json:"pincode"`
	City      *string `json:"city"`
	State     *string `json:"state"`
	Country   *string `json:"country"`
	IsDefault *bool   `json:"isDefault"`
}

func validateCreate(in AddressInput) string {
	switch {
	case len(strings.TrimSpace(in.FullName)) < 2:
		return "name must be at least 2 characters"
	case !phoneRe.MatchString(strings.TrimSpace(in.Phone)):
		return "phone must be exactly 10 digits"
	case len(strings.TrimSpace(in.Line1)) < 4:
		return "address line must be at least 4 characters"
	case len(strings.TrimSpace(in.Pincode)) < 4:
		return "pincode must be at least 4 characters"
	case strings.TrimSpace(in.City) == "":
		return "city is required"
	case strings.TrimSpace(in.State) == "":
		return "state is required"
	case strings.TrimSpace(in.Country) == "":
		return "country is required"
	}
	return ""
}

// unsetOtherDefaults clears IsDefault on every address of the user except
// keepID. Best-effort sequential, matching the two-phase client behaviour.
func unsetOtherDefaults(db *gorm.DB, userID, keepID string) error {
	return db.Model(&models.Address{}).
		Where("user_id = ? AND id <> ? AND is_default = ?", userID, keepID, true).
		Update("is_default", false).Error
}

// GET /user/addresses
func ListAddresses(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		var addrs []models.Address
		if err := db.Where("user_id = ?", userID).Order("created_at ASC").Find(&addrs).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch addresses"})
			return
		}
		c.JSON(http.StatusOK, addrs)
	}
}

// POST /user/addresses
func CreateAddress(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		var input AddressInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		if msg := validateCreate(input); msg != "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": msg})
			return
		}

		var count int64
		db.Model(&models.Address{}).Where("user_id = ?", userID).Count(&count)

		addr := models.Address{
			ID:       uuid.NewString(),
			UserID:   userID,
			FullName: strings.TrimSpace(input.FullName),
			Phone:    strings.TrimSpace(input.Phone),
			Line1:    strings.TrimSpace(input.Line1),
			Landmark: strings.TrimSpace(input.Landmark),
			Pincode:  strings.TrimSpace(input.Pincode),
			City:     strings.TrimSpace(input.City),
			State:    strings.TrimSpace(input.State),
			Country:  strings.TrimSpace(input.Country),
			// the first address is always the default
			IsDefault: input.IsDefault || count == 0,
		}

		if addr.IsDefault {
			if err := unsetOtherDefaults(db, userID, addr.ID); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update default address"})
				return
			}
		}
		if err := db.Create(&addr).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save address"})
			return
		}
		c.JSON(http.StatusCreated, addr)
	}
}

// PATCH /user/addresses/:addressId
func UpdateAddress(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		addrID := c.Param("addressId")

		var addr models.Address
		if err := db.Where("id = ? AND user_id = ?", addrID, userID).First(&addr).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Address not found"})
			return
		}

		var input UpdateAddressInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		updates := map[string]interface{}{}
		if input.FullName != nil {
			updates["full_name"] = strings.TrimSpace(*input.FullName)
		}
		if input.Phone != nil {
			updates["phone"] = strings.TrimSpace(*input.Phone)
		}
		if input.Line1 != nil {
			updates["line1"] = strings.TrimSpace(*input.Line1)
		}
		if input.Landmark != nil {
			updates["landmark"] = strings.TrimSpace(*input.Landmark)
		}
		if input.Pincode != nil {
			updates["pincode"] = strings.TrimSpace(*input.Pincode)
		}
		if input.City != nil {
			updates["city"] = strings.TrimSpace(*input.City)
		}
		if input.State != nil {
			updates["state"] = strings.TrimSpace(*input.State)
		}
		if input.Country != nil {
			updates["country"] = strings.TrimSpace(*input.Country)
		}
		if input.IsDefault != nil {
			updates["is_default"] = *input.IsDefault
		}
		if len(updates) == 0 {
			c.JSON(http.StatusOK, addr)
			return
		}

		if input.IsDefault != nil && *input.IsDefault {
			if err := unsetOtherDefaults(db, userID, addrID); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update default address"})
				return
			}
		}
		if err := db.Model(&addr).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update address"})
			return
		}
		c.JSON(http.StatusOK, addr)
	}
}

// POST /user/addresses/:addressId/default
func MakeDefaultAddress(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		addrID := c.Param("addressId")

		var addr models.Address
		if err := db.Where("id = ? AND user_id = ?", addrID, userID).First(&addr).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Address not found"})
			return
		}

		// two-phase: unset all others, then set the target
		if err := unsetOtherDefaults(db, userID, addrID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update default address"})
			return
		}
		if err := db.Model(&addr).Update("is_default", true).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update default address"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Default address updated"})
	}
}

// DELETE /user/addresses/:addressId — deleting the default promotes the
// first remaining address so the single-default invariant holds.
func DeleteAddress(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		addrID := c.Param("addressId")

		var addr models.Address
		if err := db.Where("id = ? AND user_id = ?", addrID, userID).First(&addr).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Address not found"})
			return
		}

		if err := db.Delete(&addr).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete address"})
			return
		}

		if addr.IsDefault {
			var next models.Address
			if err := db.Where("user_id = ?", userID).Order("created_at ASC").First(&next).Error; err == nil {
				if err := db.Model(&next).Update("is_default", true).Error; err != nil {
					c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reassign default address"})
					return
				}
			}
		}
		c.JSON(http.StatusOK, gin.H{"message": "Address deleted"})
	}
}
