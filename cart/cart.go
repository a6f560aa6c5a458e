// Package cart holds the pure line-item state transitions shared by the cart
// handlers. Every mutation is a function from a line slice to a new line
// slice so the rules can be tested without a database.
package cart

import (
	"time"

	"github.com/Nikhil-10404/Food-Delivery-App/models"
)

// Item is the menu-item payload carried into Add.
type Item struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Price   float64 `json:"price"`
	PhotoID string  `json:"photoId,omitempty"`
}

// Add merges qty into an existing (restaurantID, item.ID) line or appends a
// new one. A non-positive qty on a new line is bumped to 1.
func Add(lines []models.CartLine, restaurantID, restaurantName string, item Item, qty int) []models.CartLine {
	for i, l := range lines {
		if l.RestaurantID == restaurantID && l.ItemID == item.ID {
			next := make([]models.CartLine, len(lines))
			copy(next, lines)
			next[i].Qty += qty
			if next[i].Qty < 1 {
				next[i].Qty = 1
			}
			next[i].AddedAt = time.Now()
			return next
		}
	}
	if qty < 1 {
		qty = 1
	}
	return append(append([]models.CartLine{}, lines...), models.CartLine{
		RestaurantID:   restaurantID,
		RestaurantName: restaurantName,
		ItemID:         item.ID,
		ItemName:       item.Name,
		ItemPrice:      item.Price,
		PhotoID:        item.PhotoID,
		Qty:            qty,
		AddedAt:        time.Now(),
	})
}

// UpdateQty sets the quantity of a line. A qty below 1 removes the line
// entirely; quantities never stay at zero or below.
func UpdateQty(lines []models.CartLine, restaurantID, itemID string, qty int) []models.CartLine {
	if qty < 1 {
		return Remove(lines, restaurantID, itemID)
	}
	next := make([]models.CartLine, len(lines))
	copy(next, lines)
	for i := range next {
		if next[i].RestaurantID == restaurantID && next[i].ItemID == itemID {
			next[i].Qty = qty
		}
	}
	return next
}

// Remove drops the (restaurantID, itemID) line if present.
func Remove(lines []models.CartLine, restaurantID, itemID string) []models.CartLine {
	next := lines[:0:0]
	for _, l := range lines {
		if l.RestaurantID == restaurantID && l.ItemID == itemID {
			continue
		}
		next = append(next, l)
	}
	return next
}

// ClearRestaurant drops every line belonging to the restaurant.
func ClearRestaurant(lines []models.CartLine, restaurantID string) []models.CartLine {
	next := lines[:0:0]
	for _, l := range lines {
		if l.RestaurantID == restaurantID {
			continue
		}
		next = append(next, l)
	}
	return next
}

// ForRestaurant returns the lines belonging to the restaurant.
func ForRestaurant(lines []models.CartLine, restaurantID string) []models.CartLine {
	var out []models.CartLine
	for _, l := range lines {
		if l.RestaurantID == restaurantID {
			out = append(out, l)
		}
	}
	return out
}

// ItemQty reports the quantity of one line, 0 when absent.
func ItemQty(lines []models.CartLine, restaurantID, itemID string) int {
	for _, l := range lines {
		if l.RestaurantID == restaurantID && l.ItemID == itemID {
			return l.Qty
		}
	}
	return 0
}

// RestaurantCount sums the quantities of a restaurant's lines.
func RestaurantCount(lines []models.CartLine, restaurantID string) int {
	n := 0
	for _, l := range lines {
		if l.RestaurantID == restaurantID {
			n += l.Qty
		}
	}
	return n
}
