package restaurantControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Nikhil-10404/Food-Delivery-App/models"
)

// GET /restaurants
func ListRestaurants(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var restaurants []models.Restaurant
		if err := db.Order("created_at DESC").Find(&restaurants).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch restaurants"})
			return
		}
		c.JSON(http.StatusOK, restaurants)
	}
}

// GET /restaurants/:id
func GetRestaurant(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var r models.Restaurant
		if err := db.First(&r, "id = ?", c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
			return
		}
		c.JSON(http.StatusOK, r)
	}
}

// GET /restaurants/:id/menu
func GetRestaurantMenu(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var items []models.MenuItem
		if err := db.Where("restaurant_id = ?", c.Param("id")).Order("name ASC").Find(&items).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch menu"})
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

type RestaurantInput struct {
	Name    string `json:"name" binding:"required"`
	Cuisine string `json:"cuisine"`
	PhotoID string `json:"photoId"`
	Open    *bool  `json:"open"`
}

// POST /admin/restaurants
func CreateRestaurant(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input RestaurantInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		r := models.Restaurant{
			ID:      uuid.NewString(),
			Name:    input.Name,
			Cuisine: input.Cuisine,
			PhotoID: input.PhotoID,
			Open:    true,
		}
		if input.Open != nil {
			r.Open = *input.Open
		}
		if err := db.Create(&r).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create restaurant"})
			return
		}
		c.JSON(http.StatusCreated, r)
	}
}

// PUT /admin/restaurants/:id/open — flips the open/closed flag the
// availability check reads.
func SetRestaurantOpen(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Open *bool `json:"open" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "open is required"})
			return
		}
		res := db.Model(&models.Restaurant{}).Where("id = ?", c.Param("id")).Update("open", *input.Open)
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update restaurant"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Restaurant updated"})
	}
}

type MenuItemInput struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required"`
	PhotoID     string  `json:"photoId"`
	Available   *bool   `json:"available"`
}

// POST /admin/restaurants/:id/menu
func CreateMenuItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		restaurantID := c.Param("id")

		var r models.Restaurant
		if err := db.First(&r, "id = ?", restaurantID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Restaurant does not exist"})
			return
		}

		var input MenuItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		item := models.MenuItem{
			ID:           uuid.NewString(),
			RestaurantID: restaurantID,
			Name:         input.Name,
			Description:  input.Description,
			Price:        input.Price,
			PhotoID:      input.PhotoID,
			Available:    true,
		}
		if input.Available != nil {
			item.Available = *input.Available
		}
		if err := db.Create(&item).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create menu item"})
			return
		}
		c.JSON(http.StatusCreated, item)
	}
}

// PUT /admin/menu-items/:itemId/available — flips the flag the availability
// check reads at checkout time.
func SetMenuItemAvailability(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Available *bool `json:"available" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "available is required"})
			return
		}
		res := db.Model(&models.MenuItem{}).Where("id = ?", c.Param("itemId")).Update("available", *input.Available)
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update menu item"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Menu item updated"})
	}
}
