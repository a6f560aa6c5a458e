package cartControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Nikhil-10404/Food-Delivery-App/cart"
	checkoutControllers "github.com/Nikhil-10404/Food-Delivery-App/controllers/checkout"
	"github.com/Nikhil-10404/Food-Delivery-App/models"
)

type AddItemInput struct {
	RestaurantID   string    `json:"restaurantId" binding:"required"`
	RestaurantName string    `json:"restaurantName"`
	Item           cart.Item `json:"item" binding:"required"`
	Qty            int       `json:"qty"`
}

type UpdateQtyInput struct {
	RestaurantID string `json:"restaurantId" binding:"required"`
	ItemID       string `json:"itemId" binding:"required"`
	Qty          int    `json:"qty"`
}

// loadCart fetches (or lazily creates) the user's cart with its lines.
func loadCart(db *gorm.DB, userID string) (models.Cart, error) {
	var stored models.Cart
	err := db.Preload("Lines").Where("user_id = ?", userID).First(&stored).Error
	if err == gorm.ErrRecordNotFound {
		stored = models.Cart{UserID: userID}
		err = db.Create(&stored).Error
	}
	return stored, err
}

// saveLines replaces the cart's lines with the reducer output.
func saveLines(db *gorm.DB, stored models.Cart, lines []models.CartLine) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", stored.CartID).Delete(&models.CartLine{}).Error; err != nil {
			return err
		}
		for i := range lines {
			lines[i].ID = 0
			lines[i].CartID = stored.CartID
		}
		if len(lines) == 0 {
			return nil
		}
		return tx.Create(&lines).Error
	})
}

// GET /user/cart
func GetUserCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		stored, err := loadCart(db, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"lines": stored.Lines})
	}
}

// POST /user/cart/items
func AddCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		var input AddItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		if input.Item.ID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "item.id is required"})
			return
		}
		if input.Qty == 0 {
			input.Qty = 1
		}

		stored, err := loadCart(db, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}

		next := cart.Add(stored.Lines, input.RestaurantID, input.RestaurantName, input.Item, input.Qty)
		if err := saveLines(db, stored, next); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item to cart"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"lines": next})
	}
}

// PUT /user/cart/items — qty of 0 or below removes the line.
func UpdateCartItemQty(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		var input UpdateQtyInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		stored, err := loadCart(db, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}

		next := cart.UpdateQty(stored.Lines, input.RestaurantID, input.ItemID, input.Qty)
		if err := saveLines(db, stored, next); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart item"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"lines": next})
	}
}

// DELETE /user/cart/:restaurantId/items/:itemId
func RemoveCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		restaurantID := c.Param("restaurantId")
		itemID := c.Param("itemId")

		stored, err := loadCart(db, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}

		if cart.ItemQty(stored.Lines, restaurantID, itemID) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
			return
		}

		next := cart.Remove(stored.Lines, restaurantID, itemID)
		if err := saveLines(db, stored, next); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart item deleted"})
	}
}

// DELETE /user/cart/:restaurantId
func ClearRestaurantCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		restaurantID := c.Param("restaurantId")

		stored, err := loadCart(db, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}

		next := cart.ClearRestaurant(stored.Lines, restaurantID)
		if err := saveLines(db, stored, next); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}

// DELETE /user/cart/:restaurantId/unavailable — the explicit, user-confirmed
// removal of lines the availability check flagged. Returns the surviving
// lines so the client can recompute its view.
func RemoveUnavailableItems(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		restaurantID := c.Param("restaurantId")

		stored, err := loadCart(db, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}

		res := checkoutControllers.CheckAvailability(db, restaurantID, cart.ForRestaurant(stored.Lines, restaurantID))
		next := stored.Lines
		for _, l := range res.UnavailableLines {
			next = cart.Remove(next, restaurantID, l.ItemID)
		}
		if err := saveLines(db, stored, next); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"removed": len(res.UnavailableLines),
			"lines":   cart.ForRestaurant(next, restaurantID),
		})
	}
}

// GET /user/cart/snapshot — versioned payload for device-side cart sync.
func GetCartSnapshot(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		stored, err := loadCart(db, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		payload, err := cart.EncodeSnapshot(stored.Lines)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to encode cart"})
			return
		}
		c.Data(http.StatusOK, "application/json", payload)
	}
}

// PUT /user/cart/snapshot — replaces the stored cart with a device snapshot.
// A corrupt or unrecognised payload resolves to an empty cart, not an error.
func PutCartSnapshot(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		raw, err := c.GetRawData()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read snapshot"})
			return
		}

		stored, err := loadCart(db, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}

		next := cart.DecodeSnapshot(raw)
		if err := saveLines(db, stored, next); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"lines": next})
	}
}
