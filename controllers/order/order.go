package orderControllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Nikhil-10404/Food-Delivery-App/cart"
	checkoutControllers "github.com/Nikhil-10404/Food-Delivery-App/controllers/checkout"
	"github.com/Nikhil-10404/Food-Delivery-App/models"
	"github.com/Nikhil-10404/Food-Delivery-App/payments"
	"github.com/Nikhil-10404/Food-Delivery-App/pricing"
)

const ordersPageSize = 12

// -------- Request Structs --------

type PlaceOrderRequest struct {
	RestaurantID  string `json:"restaurantId" binding:"required"`
	AddressID     string `json:"addressId" binding:"required"`
	PaymentMethod string `json:"paymentMethod" binding:"required"` // COD | UPI
	CouponCode    string `json:"couponCode"`
	CustomerName  string `json:"customerName"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required"`
}

// -------- Helpers --------

func mapOrderStatus(status string) (models.OrderStatus, error) {
	switch strings.ToLower(status) {
	case string(models.OrderStatusPlaced):
		return models.OrderStatusPlaced, nil
	case string(models.OrderStatusPendingPayment):
		return models.OrderStatusPendingPayment, nil
	case string(models.OrderStatusAccepted):
		return models.OrderStatusAccepted, nil
	case string(models.OrderStatusPreparing):
		return models.OrderStatusPreparing, nil
	case string(models.OrderStatusOnTheWay):
		return models.OrderStatusOnTheWay, nil
	case string(models.OrderStatusDelivered):
		return models.OrderStatusDelivered, nil
	case string(models.OrderStatusCancelled):
		return models.OrderStatusCancelled, nil
	default:
		return "", errors.New("invalid order status")
	}
}

func mapPaymentStatus(status string) (models.PaymentStatus, error) {
	switch strings.ToLower(status) {
	case string(models.PaymentStatusPending):
		return models.PaymentStatusPending, nil
	case string(models.PaymentStatusPaid):
		return models.PaymentStatusPaid, nil
	case string(models.PaymentStatusFailed):
		return models.PaymentStatusFailed, nil
	default:
		return "", errors.New("invalid payment status")
	}
}

func serializeItems(lines []models.CartLine) (string, []models.OrderItem) {
	items := make([]models.OrderItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, models.OrderItem{ID: l.ItemID, Name: l.ItemName, Price: l.ItemPrice, Qty: l.Qty})
	}
	raw, _ := json.Marshal(items)
	return string(raw), items
}

func serializeAddress(a models.Address) string {
	raw, _ := json.Marshal(models.OrderAddress{
		FullName:  a.FullName,
		Phone:     a.Phone,
		Line1:     a.Line1,
		Landmark:  a.Landmark,
		Pincode:   a.Pincode,
		City:      a.City,
		State:     a.State,
		Country:   a.Country,
		IsDefault: a.IsDefault,
	})
	return string(raw)
}

// clearRestaurantLines drops the restaurant's lines from the user's cart.
// Only called after a COD order is created or a UPI payment is confirmed.
func clearRestaurantLines(db *gorm.DB, userID, restaurantID string) error {
	var stored models.Cart
	err := db.Preload("Lines").Where("user_id = ?", userID).First(&stored).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	next := cart.ClearRestaurant(stored.Lines, restaurantID)
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", stored.CartID).Delete(&models.CartLine{}).Error; err != nil {
			return err
		}
		for i := range next {
			next[i].ID = 0
			next[i].CartID = stored.CartID
		}
		if len(next) == 0 {
			return nil
		}
		return tx.Create(&next).Error
	})
}

func markPaid(db *gorm.DB, o *models.Order) error {
	return db.Model(o).Updates(map[string]interface{}{
		"payment_status": models.PaymentStatusPaid,
		"status":         models.OrderStatusPlaced,
	}).Error
}

func findOrder(db *gorm.DB, id string) (*models.Order, error) {
	var o models.Order
	err := db.Where("id = ? OR reference_id = ?", id, id).First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func callbackURL(scheme, referenceID string) string {
	return scheme + "://orders/" + referenceID
}

// -------- Handlers --------

// PlaceOrder runs the final checkout commit: re-check availability and the
// restaurant's open flag, recompute totals server-side, then branch COD/UPI.
//
// POST /orders/place
func PlaceOrder(db *gorm.DB, prefetcher *payments.Prefetcher, deepLinkScheme string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		var req PlaceOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		method := models.PaymentMethod(strings.ToUpper(req.PaymentMethod))
		if method != models.PaymentMethodCOD && method != models.PaymentMethodUPI {
			c.JSON(http.StatusBadRequest, gin.H{"error": "paymentMethod must be COD or UPI"})
			return
		}

		lines, err := checkoutControllers.LoadRestaurantLines(db, userID, req.RestaurantID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart"})
			return
		}
		if len(lines) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
			return
		}

		// Never trust an earlier check; re-verify right before committing.
		avail := checkoutControllers.CheckAvailability(db, req.RestaurantID, lines)
		if !avail.RestaurantOpen {
			c.JSON(http.StatusConflict, gin.H{"error": "Restaurant is currently closed", "reason": "restaurant_closed"})
			return
		}
		if len(avail.AvailableLines) == 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "No available items to order", "reason": "all_items_unavailable"})
			return
		}
		if len(avail.UnavailableLines) > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "Please remove unavailable items first", "reason": "items_unavailable"})
			return
		}

		var addr models.Address
		if err := db.Where("id = ? AND user_id = ?", req.AddressID, userID).First(&addr).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Delivery address not found"})
			return
		}

		cfg := checkoutControllers.LoadPlatformConfig(db)
		coupon, couponErr := checkoutControllers.ResolveCoupon(db, req.RestaurantID, req.CouponCode, subTotalOf(avail.AvailableLines))
		if req.CouponCode != "" && coupon == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Coupon is no longer valid: " + couponErr, "reason": "coupon_invalid"})
			return
		}
		totals := pricing.Compute(avail.AvailableLines, cfg, coupon)

		itemsJSON, _ := serializeItems(avail.AvailableLines)
		restaurantName := avail.AvailableLines[0].RestaurantName

		base := models.Order{
			UserID:         userID,
			RestaurantID:   req.RestaurantID,
			RestaurantName: restaurantName,
			Items:          itemsJSON,
			Address:        serializeAddress(addr),
			SubTotal:       totals.SubTotal,
			PlatformFee:    totals.PlatformFee,
			DeliveryFee:    totals.DeliveryFee,
			GST:            totals.GST,
			Discount:       totals.Discount,
			Total:          totals.Total,
			PaymentMethod:  method,
			PaymentStatus:  models.PaymentStatusPending,
			CouponCode:     req.CouponCode,
		}

		if method == models.PaymentMethodCOD {
			base.ID = uuid.NewString()
			base.ReferenceID = base.ID
			base.Status = models.OrderStatusPlaced
			if err := db.Create(&base).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not place the order"})
				return
			}
			if err := clearRestaurantLines(db, userID, req.RestaurantID); err != nil {
				log.WithError(err).Warn("order placed but cart not cleared")
			}
			c.JSON(http.StatusCreated, gin.H{"order": base})
			return
		}

		// ---------- UPI ----------
		// Reuse the newest pending-payment order for this (user, restaurant)
		// so retries never create duplicate documents.
		order := checkoutControllers.FindPendingUPIOrder(db, userID, req.RestaurantID)
		if order != nil {
			updates := map[string]interface{}{
				"items":        base.Items,
				"address":      base.Address,
				"sub_total":    base.SubTotal,
				"platform_fee": base.PlatformFee,
				"delivery_fee": base.DeliveryFee,
				"gst":          base.GST,
				"discount":     base.Discount,
				"total":        base.Total,
				"coupon_code":  base.CouponCode,
			}
			if err := db.Model(order).Updates(updates).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update the pending order"})
				return
			}
		} else {
			base.ID = uuid.NewString()
			base.ReferenceID = base.ID
			base.Status = models.OrderStatusPendingPayment
			if err := db.Create(&base).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not place the order"})
				return
			}
			order = &base
		}

		link, err := prefetcher.Ensure(c.Request.Context(), payments.CreateLinkParams{
			ReferenceID: order.ID,
			Amount:      order.Total,
			Name:        req.CustomerName,
			CallbackURL: callbackURL(deepLinkScheme, order.ID),
		})
		if errors.Is(err, payments.ErrAlreadyPaid) {
			if err := markPaid(db, order); err == nil {
				_ = clearRestaurantLines(db, userID, req.RestaurantID)
			}
			c.JSON(http.StatusOK, gin.H{"order": order, "paid": true})
			return
		}
		if err != nil {
			// the pending order stays; the user can retry Pay with UPI
			log.WithError(err).WithField("order_id", order.ID).Error("payment link creation failed")
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "order": order})
			return
		}

		c.JSON(http.StatusOK, gin.H{"order": order, "payment": link})
	}
}

func subTotalOf(lines []models.CartLine) float64 {
	var s float64
	for _, l := range lines {
		s += l.ItemPrice * float64(l.Qty)
	}
	return s
}

// PayPendingOrder retries the UPI payment for an order stuck in
// pending_payment. Idempotent: the same link is reused while in flight.
//
// POST /orders/:orderID/pay
func PayPendingOrder(db *gorm.DB, prefetcher *payments.Prefetcher, deepLinkScheme string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		order, err := findOrder(db, c.Param("orderID"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		if order.UserID != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Not your order"})
			return
		}
		if order.Status != models.OrderStatusPendingPayment {
			c.JSON(http.StatusConflict, gin.H{"error": "Order is not awaiting payment"})
			return
		}

		var name string
		var addr models.OrderAddress
		if json.Unmarshal([]byte(order.Address), &addr) == nil {
			name = addr.FullName
		}

		link, err := prefetcher.Ensure(c.Request.Context(), payments.CreateLinkParams{
			ReferenceID: order.ID,
			Amount:      order.Total,
			Name:        name,
			CallbackURL: callbackURL(deepLinkScheme, order.ID),
		})
		if errors.Is(err, payments.ErrAlreadyPaid) {
			if err := markPaid(db, order); err == nil {
				_ = clearRestaurantLines(db, userID, order.RestaurantID)
			}
			c.JSON(http.StatusOK, gin.H{"order": order, "paid": true})
			return
		}
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"order": order, "payment": link})
	}
}

// PaymentReturn is the server half of the app-scheme://orders/{referenceId}
// deep-link contract: called once when the browser hands control back, it
// polls the payment status a single time. Anything other than paid leaves
// the order in pending_payment; retries are explicit user actions.
//
// GET /orders/:orderID/payment-return
func PaymentReturn(db *gorm.DB, pay *payments.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := findOrder(db, c.Param("orderID"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		if order.PaymentStatus == models.PaymentStatusPaid {
			c.JSON(http.StatusOK, gin.H{"status": payments.StatusPaid, "order": order})
			return
		}

		st, err := pay.FetchStatus(c.Request.Context(), order.ReferenceID)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}

		if st.Status == payments.StatusPaid {
			if err := markPaid(db, order); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Payment received but order update failed"})
				return
			}
			if err := clearRestaurantLines(db, order.UserID, order.RestaurantID); err != nil {
				log.WithError(err).Warn("payment confirmed but cart not cleared")
			}
			c.JSON(http.StatusOK, gin.H{"status": st.Status, "order": order})
			return
		}

		// still pending / failed / canceled / expired: no state change here
		c.JSON(http.StatusOK, gin.H{"status": st.Status, "order": order})
	}
}

// CancelOrder cancels what can still be cancelled. COD orders in "placed"
// are deleted outright; UPI orders in pending_payment go through the
// external cancel endpoint so the live payment link is invalidated, and the
// local document is marked cancelled, never deleted.
//
// POST /orders/:orderID/cancel
func CancelOrder(db *gorm.DB, pay *payments.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		order, err := findOrder(db, c.Param("orderID"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		if order.UserID != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Not your order"})
			return
		}

		switch {
		case order.PaymentMethod == models.PaymentMethodCOD && order.Status == models.OrderStatusPlaced:
			if err := db.Delete(order).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not cancel the order"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"message": "Order cancelled"})

		case order.PaymentMethod == models.PaymentMethodUPI &&
			order.Status == models.OrderStatusPendingPayment &&
			order.PaymentStatus == models.PaymentStatusPending:
			if err := pay.CancelOrder(c.Request.Context(), order.ID); err != nil {
				c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
				return
			}
			if err := db.Model(order).Updates(map[string]interface{}{
				"status":         models.OrderStatusCancelled,
				"payment_status": models.PaymentStatusFailed,
			}).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Cancelled externally but order update failed"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"message": "Order cancelled"})

		default:
			c.JSON(http.StatusConflict, gin.H{"error": "Order can no longer be cancelled"})
		}
	}
}

// ListUserOrders pages a user's orders by tab. Pending shows every order
// with payment still due; paid/failed are windowed to the last 30 days.
// Cursor paging: pass the last order id of the previous page.
//
// GET /orders/user/:userID?tab=pending|paid|failed&cursor=<orderID>
func ListUserOrders(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("userID")
		if userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "userID is required"})
			return
		}

		q := db.Where("user_id = ?", userID).Order("created_at DESC").Limit(ordersPageSize)

		since := time.Now().AddDate(0, 0, -30)
		switch c.DefaultQuery("tab", "pending") {
		case "paid":
			q = q.Where("payment_status = ? AND created_at >= ?", models.PaymentStatusPaid, since)
		case "failed":
			q = q.Where("payment_status = ? AND created_at >= ?", models.PaymentStatusFailed, since)
		default:
			q = q.Where("payment_status = ?", models.PaymentStatusPending)
		}

		if cursor := c.Query("cursor"); cursor != "" {
			var after models.Order
			if err := db.Select("created_at").Where("id = ?", cursor).First(&after).Error; err == nil {
				q = q.Where("created_at < ?", after.CreatedAt)
			}
		}

		var orders []models.Order
		if err := q.Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		next := ""
		if len(orders) == ordersPageSize {
			next = orders[len(orders)-1].ID
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders, "nextCursor": next})
	}
}

// GET /orders/:orderID — lookup by id or payment reference id.
func GetOrderByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := findOrder(db, c.Param("orderID"))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// PUT /orders/:orderID/status (admin)
func UpdateOrderStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		newStatus, err := mapOrderStatus(req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		order, err := findOrder(db, c.Param("orderID"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		if order.Status == models.OrderStatusDelivered || order.Status == models.OrderStatusCancelled {
			c.JSON(http.StatusConflict, gin.H{"error": "Order status is terminal"})
			return
		}

		if err := db.Model(order).Update("status", newStatus).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update order status"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order status updated successfully"})
	}
}

// PUT /orders/:orderID/payment-status (admin)
func UpdatePaymentStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdatePaymentStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		newStatus, err := mapPaymentStatus(req.PaymentStatus)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := db.Model(&models.Order{}).Where("id = ?", c.Param("orderID")).
			Update("payment_status", newStatus).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update payment status"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Payment status updated successfully"})
	}
}
