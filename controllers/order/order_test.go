package orderControllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Nikhil-10404/Food-Delivery-App/models"
	"github.com/Nikhil-10404/Food-Delivery-App/payments"
)

const testUser = "user-1"

// fakePaymentService mimics the external payment-link service.
type fakePaymentService struct {
	createCalls  atomic.Int64
	cancelCalls  atomic.Int64
	status       string // returned by the status endpoint
	failCreate   bool
	alreadyPaid  bool
	lastCanceled atomic.Value // order id of the last cancel call
}

func (f *fakePaymentService) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/payments/create-link", func(w http.ResponseWriter, r *http.Request) {
		f.createCalls.Add(1)
		var params payments.CreateLinkParams
		_ = json.NewDecoder(r.Body).Decode(&params)
		w.Header().Set("Content-Type", "application/json")
		if f.alreadyPaid {
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"detail":"already_paid"}`))
			return
		}
		if f.failCreate {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`{"error":"provider unavailable"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(payments.PaymentLink{
			ID:          "plink_1",
			ShortURL:    "https://rzp.io/l/abc",
			Status:      "created",
			ReferenceID: params.ReferenceID,
		})
	})
	mux.HandleFunc("/api/payments/status/", func(w http.ResponseWriter, r *http.Request) {
		ref := strings.TrimPrefix(r.URL.Path, "/api/payments/status/")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(payments.PaymentStatus{
			ReferenceID: ref,
			Status:      payments.Status(f.status),
			RawStatus:   f.status,
		})
	})
	mux.HandleFunc("/orders/cancel/", func(w http.ResponseWriter, r *http.Request) {
		f.cancelCalls.Add(1)
		f.lastCanceled.Store(strings.TrimPrefix(r.URL.Path, "/orders/cancel/"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"canceled"}`))
	})
	return mux
}

type testEnv struct {
	db  *gorm.DB
	r   *gin.Engine
	svc *fakePaymentService
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Cart{}, &models.CartLine{},
		&models.Restaurant{}, &models.MenuItem{},
		&models.Address{}, &models.Order{},
		&models.Coupon{}, &models.PlatformConfig{},
	))

	svc := &fakePaymentService{status: string(payments.StatusPending)}
	ps := httptest.NewServer(svc.handler())
	t.Cleanup(ps.Close)

	client := payments.NewClient(ps.URL)
	prefetcher := payments.NewPrefetcher(client)

	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("user_id", testUser) })
	r.POST("/orders/place", PlaceOrder(db, prefetcher, "foodie"))
	r.POST("/orders/:orderID/pay", PayPendingOrder(db, prefetcher, "foodie"))
	r.GET("/orders/:orderID/payment-return", PaymentReturn(db, client))
	r.POST("/orders/:orderID/cancel", CancelOrder(db, client))
	r.GET("/orders/user/:userID", ListUserOrders(db))
	r.GET("/orders/:orderID", GetOrderByID(db))

	return &testEnv{db: db, r: r, svc: svc}
}

func (e *testEnv) seedRestaurant(t *testing.T, open bool) {
	t.Helper()
	require.NoError(t, e.db.Create(&models.Restaurant{ID: "rest-1", Name: "Spice Route", Open: open}).Error)
	require.NoError(t, e.db.Create(&models.MenuItem{
		ID: "item-1", RestaurantID: "rest-1", Name: "Paneer Tikka", Price: 100, Available: true,
	}).Error)
}

func (e *testEnv) seedCart(t *testing.T, lines ...models.CartLine) {
	t.Helper()
	stored := models.Cart{UserID: testUser, Lines: lines}
	require.NoError(t, e.db.Create(&stored).Error)
}

func (e *testEnv) seedAddress(t *testing.T) string {
	t.Helper()
	addr := models.Address{
		ID: uuid.NewString(), UserID: testUser, FullName: "Asha", Phone: "9876543210",
		Line1: "42 MG Road", Pincode: "560001", City: "Bengaluru", State: "Karnataka",
		Country: "India", IsDefault: true,
	}
	require.NoError(t, e.db.Create(&addr).Error)
	return addr.ID
}

func line(itemID string, price float64, qty int) models.CartLine {
	return models.CartLine{
		RestaurantID: "rest-1", RestaurantName: "Spice Route",
		ItemID: itemID, ItemName: "Paneer Tikka", ItemPrice: price, Qty: qty,
		AddedAt: time.Now(),
	}
}

func (e *testEnv) doJSON(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	return w
}

func placeReq(method string) PlaceOrderRequest {
	return PlaceOrderRequest{RestaurantID: "rest-1", PaymentMethod: method}
}

func (e *testEnv) cartLineCount(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&models.CartLine{}).Count(&n).Error)
	return n
}

func TestPlaceOrderCOD(t *testing.T) {
	e := setup(t)
	e.seedRestaurant(t, true)
	e.seedCart(t, line("item-1", 100, 2))
	addrID := e.seedAddress(t)

	req := placeReq("COD")
	req.AddressID = addrID
	w := e.doJSON(t, http.MethodPost, "/orders/place", req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Order models.Order `json:"order"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	o := resp.Order
	assert.Equal(t, models.OrderStatusPlaced, o.Status)
	assert.Equal(t, models.PaymentStatusPending, o.PaymentStatus)
	assert.Equal(t, models.PaymentMethodCOD, o.PaymentMethod)
	assert.Equal(t, o.ID, o.ReferenceID)

	// 200 + 5 + 29, gst 5% of that = 11.70 rounded to 12
	assert.Equal(t, 200.0, o.SubTotal)
	assert.Equal(t, 5.0, o.PlatformFee)
	assert.Equal(t, 29.0, o.DeliveryFee)
	assert.Equal(t, 12.0, o.GST)
	assert.Equal(t, 246.0, o.Total)

	// the restaurant's lines are gone from the cart
	assert.Equal(t, int64(0), e.cartLineCount(t))

	// no payment link was requested for COD
	assert.Equal(t, int64(0), e.svc.createCalls.Load())
}

func TestPlaceOrderCODKeepsOtherRestaurantLines(t *testing.T) {
	e := setup(t)
	e.seedRestaurant(t, true)
	other := line("item-9", 80, 1)
	other.RestaurantID = "rest-2"
	other.RestaurantName = "Dosa Den"
	e.seedCart(t, line("item-1", 100, 1), other)
	addrID := e.seedAddress(t)

	req := placeReq("COD")
	req.AddressID = addrID
	w := e.doJSON(t, http.MethodPost, "/orders/place", req)
	require.Equal(t, http.StatusCreated, w.Code)

	var remaining []models.CartLine
	require.NoError(t, e.db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, "rest-2", remaining[0].RestaurantID)
}

func TestPlaceOrderClosedRestaurant(t *testing.T) {
	e := setup(t)
	e.seedRestaurant(t, false)
	e.seedCart(t, line("item-1", 100, 1))
	addrID := e.seedAddress(t)

	req := placeReq("COD")
	req.AddressID = addrID
	w := e.doJSON(t, http.MethodPost, "/orders/place", req)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "restaurant_closed")
	assert.Equal(t, int64(1), e.cartLineCount(t))
}

func TestPlaceOrderUnavailableItemBlocks(t *testing.T) {
	e := setup(t)
	e.seedRestaurant(t, true)
	require.NoError(t, e.db.Create(&models.MenuItem{
		ID: "item-2", RestaurantID: "rest-1", Name: "Gone Dish", Price: 60, Available: false,
	}).Error)
	e.seedCart(t, line("item-1", 100, 1), line("item-2", 60, 1))
	addrID := e.seedAddress(t)

	req := placeReq("COD")
	req.AddressID = addrID
	w := e.doJSON(t, http.MethodPost, "/orders/place", req)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "items_unavailable")
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	e := setup(t)
	e.seedRestaurant(t, true)
	addrID := e.seedAddress(t)

	req := placeReq("COD")
	req.AddressID = addrID
	w := e.doJSON(t, http.MethodPost, "/orders/place", req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlaceOrderUPIReusesPendingOrder(t *testing.T) {
	e := setup(t)
	e.seedRestaurant(t, true)
	e.seedCart(t, line("item-1", 100, 2))
	addrID := e.seedAddress(t)

	req := placeReq("UPI")
	req.AddressID = addrID

	w1 := e.doJSON(t, http.MethodPost, "/orders/place", req)
	require.Equal(t, http.StatusOK, w1.Code, w1.Body.String())
	var r1 struct {
		Order   models.Order          `json:"order"`
		Payment *payments.PaymentLink `json:"payment"`
	}
	require.NoError(t, json.Unmarshal(w1.Body.Bytes(), &r1))
	assert.Equal(t, models.OrderStatusPendingPayment, r1.Order.Status)
	require.NotNil(t, r1.Payment)
	assert.Equal(t, r1.Order.ID, r1.Payment.ReferenceID)

	// the cart survives until payment is confirmed
	assert.Equal(t, int64(1), e.cartLineCount(t))

	// retry: the same pending document is reused, never a second one
	w2 := e.doJSON(t, http.MethodPost, "/orders/place", req)
	require.Equal(t, http.StatusOK, w2.Code)
	var r2 struct {
		Order models.Order `json:"order"`
	}
	require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &r2))
	assert.Equal(t, r1.Order.ID, r2.Order.ID)

	var count int64
	require.NoError(t, e.db.Model(&models.Order{}).Where("user_id = ?", testUser).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestPlaceOrderUPIAlreadyPaid(t *testing.T) {
	e := setup(t)
	e.seedRestaurant(t, true)
	e.seedCart(t, line("item-1", 100, 2))
	addrID := e.seedAddress(t)
	e.svc.alreadyPaid = true

	req := placeReq("UPI")
	req.AddressID = addrID
	w := e.doJSON(t, http.MethodPost, "/orders/place", req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"paid":true`)

	var o models.Order
	require.NoError(t, e.db.First(&o, "user_id = ?", testUser).Error)
	assert.Equal(t, models.PaymentStatusPaid, o.PaymentStatus)
	assert.Equal(t, models.OrderStatusPlaced, o.Status)
	assert.Equal(t, int64(0), e.cartLineCount(t))
}

func TestPlaceOrderUPILinkFailureKeepsOrder(t *testing.T) {
	e := setup(t)
	e.seedRestaurant(t, true)
	e.seedCart(t, line("item-1", 100, 2))
	addrID := e.seedAddress(t)
	e.svc.failCreate = true

	req := placeReq("UPI")
	req.AddressID = addrID
	w := e.doJSON(t, http.MethodPost, "/orders/place", req)
	require.Equal(t, http.StatusBadGateway, w.Code)

	// the pending order exists so Pay can be retried, cart untouched
	var o models.Order
	require.NoError(t, e.db.First(&o, "user_id = ?", testUser).Error)
	assert.Equal(t, models.OrderStatusPendingPayment, o.Status)
	assert.Equal(t, int64(1), e.cartLineCount(t))
}

func TestPaymentReturnPaidClearsCart(t *testing.T) {
	e := setup(t)
	e.seedRestaurant(t, true)
	e.seedCart(t, line("item-1", 100, 2))
	addrID := e.seedAddress(t)

	req := placeReq("UPI")
	req.AddressID = addrID
	w := e.doJSON(t, http.MethodPost, "/orders/place", req)
	require.Equal(t, http.StatusOK, w.Code)
	var r1 struct {
		Order models.Order `json:"order"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &r1))

	e.svc.status = string(payments.StatusPaid)
	wr := e.doJSON(t, http.MethodGet, "/orders/"+r1.Order.ID+"/payment-return", nil)
	require.Equal(t, http.StatusOK, wr.Code)
	assert.Contains(t, wr.Body.String(), `"status":"paid"`)

	var o models.Order
	require.NoError(t, e.db.First(&o, "id = ?", r1.Order.ID).Error)
	assert.Equal(t, models.PaymentStatusPaid, o.PaymentStatus)
	assert.Equal(t, models.OrderStatusPlaced, o.Status)
	assert.Equal(t, int64(0), e.cartLineCount(t))
}

func TestPaymentReturnStillPendingLeavesOrder(t *testing.T) {
	e := setup(t)
	e.seedRestaurant(t, true)
	e.seedCart(t, line("item-1", 100, 2))
	addrID := e.seedAddress(t)

	req := placeReq("UPI")
	req.AddressID = addrID
	w := e.doJSON(t, http.MethodPost, "/orders/place", req)
	require.Equal(t, http.StatusOK, w.Code)
	var r1 struct {
		Order models.Order `json:"order"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &r1))

	wr := e.doJSON(t, http.MethodGet, "/orders/"+r1.Order.ID+"/payment-return", nil)
	require.Equal(t, http.StatusOK, wr.Code)

	var o models.Order
	require.NoError(t, e.db.First(&o, "id = ?", r1.Order.ID).Error)
	assert.Equal(t, models.OrderStatusPendingPayment, o.Status)
	assert.Equal(t, models.PaymentStatusPending, o.PaymentStatus)
	assert.Equal(t, int64(1), e.cartLineCount(t))
}

func TestCancelCODDeletesOrder(t *testing.T) {
	e := setup(t)
	e.seedRestaurant(t, true)
	e.seedCart(t, line("item-1", 100, 1))
	addrID := e.seedAddress(t)

	req := placeReq("COD")
	req.AddressID = addrID
	w := e.doJSON(t, http.MethodPost, "/orders/place", req)
	require.Equal(t, http.StatusCreated, w.Code)
	var r1 struct {
		Order models.Order `json:"order"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &r1))

	wc := e.doJSON(t, http.MethodPost, "/orders/"+r1.Order.ID+"/cancel", nil)
	require.Equal(t, http.StatusOK, wc.Code)

	var count int64
	require.NoError(t, e.db.Model(&models.Order{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
	assert.Equal(t, int64(0), e.svc.cancelCalls.Load())
}

func TestCancelUPIMarksCancelledAndHitsService(t *testing.T) {
	e := setup(t)
	e.seedRestaurant(t, true)
	e.seedCart(t, line("item-1", 100, 1))
	addrID := e.seedAddress(t)

	req := placeReq("UPI")
	req.AddressID = addrID
	w := e.doJSON(t, http.MethodPost, "/orders/place", req)
	require.Equal(t, http.StatusOK, w.Code)
	var r1 struct {
		Order models.Order `json:"order"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &r1))

	wc := e.doJSON(t, http.MethodPost, "/orders/"+r1.Order.ID+"/cancel", nil)
	require.Equal(t, http.StatusOK, wc.Code)

	assert.Equal(t, int64(1), e.svc.cancelCalls.Load())
	assert.Equal(t, r1.Order.ID, e.svc.lastCanceled.Load())

	// the document stays, marked cancelled/failed
	var o models.Order
	require.NoError(t, e.db.First(&o, "id = ?", r1.Order.ID).Error)
	assert.Equal(t, models.OrderStatusCancelled, o.Status)
	assert.Equal(t, models.PaymentStatusFailed, o.PaymentStatus)
}

func TestCancelDeliveredOrderRejected(t *testing.T) {
	e := setup(t)
	o := models.Order{
		ID: uuid.NewString(), UserID: testUser, RestaurantID: "rest-1",
		Items: "[]", Address: "{}", PaymentMethod: models.PaymentMethodCOD,
		PaymentStatus: models.PaymentStatusPaid, Status: models.OrderStatusDelivered,
	}
	o.ReferenceID = o.ID
	require.NoError(t, e.db.Create(&o).Error)

	w := e.doJSON(t, http.MethodPost, "/orders/"+o.ID+"/cancel", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestListUserOrdersTabsAndPaging(t *testing.T) {
	e := setup(t)

	mk := func(i int, ps models.PaymentStatus, age time.Duration) models.Order {
		o := models.Order{
			ID: fmt.Sprintf("ord-%s-%03d", ps, i), UserID: testUser, RestaurantID: "rest-1",
			Items: "[]", Address: "{}", PaymentMethod: models.PaymentMethodUPI,
			PaymentStatus: ps, Status: models.OrderStatusPlaced,
		}
		o.ReferenceID = o.ID
		require.NoError(t, e.db.Create(&o).Error)
		created := time.Now().Add(-age)
		require.NoError(t, e.db.Model(&o).Update("created_at", created).Error)
		return o
	}

	// 15 paid orders a minute apart, plus one too old for the window
	for i := 0; i < 15; i++ {
		mk(i, models.PaymentStatusPaid, time.Duration(i)*time.Minute)
	}
	mk(99, models.PaymentStatusPaid, 40*24*time.Hour)
	// pending orders show regardless of age
	mk(0, models.PaymentStatusPending, 40*24*time.Hour)

	w := e.doJSON(t, http.MethodGet, "/orders/user/"+testUser+"?tab=paid", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page1 struct {
		Orders     []models.Order `json:"orders"`
		NextCursor string         `json:"nextCursor"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page1))
	require.Len(t, page1.Orders, 12)
	require.NotEmpty(t, page1.NextCursor)

	w2 := e.doJSON(t, http.MethodGet, "/orders/user/"+testUser+"?tab=paid&cursor="+page1.NextCursor, nil)
	require.Equal(t, http.StatusOK, w2.Code)
	var page2 struct {
		Orders     []models.Order `json:"orders"`
		NextCursor string         `json:"nextCursor"`
	}
	require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &page2))
	// 15 in-window paid orders total; the 40-day-old one is excluded
	assert.Len(t, page2.Orders, 3)
	assert.Empty(t, page2.NextCursor)

	// no overlap between pages
	seen := map[string]bool{}
	for _, o := range page1.Orders {
		seen[o.ID] = true
	}
	for _, o := range page2.Orders {
		assert.False(t, seen[o.ID], "order %s appears on both pages", o.ID)
	}

	wp := e.doJSON(t, http.MethodGet, "/orders/user/"+testUser+"?tab=pending", nil)
	require.Equal(t, http.StatusOK, wp.Code)
	var pending struct {
		Orders []models.Order `json:"orders"`
	}
	require.NoError(t, json.Unmarshal(wp.Body.Bytes(), &pending))
	require.Len(t, pending.Orders, 1)
	assert.Equal(t, models.PaymentStatusPending, pending.Orders[0].PaymentStatus)
}

func TestGetOrderByReferenceID(t *testing.T) {
	e := setup(t)
	o := models.Order{
		ID: uuid.NewString(), UserID: testUser, RestaurantID: "rest-1",
		Items: "[]", Address: "{}", PaymentMethod: models.PaymentMethodCOD,
		PaymentStatus: models.PaymentStatusPending, Status: models.OrderStatusPlaced,
	}
	o.ReferenceID = o.ID
	require.NoError(t, e.db.Create(&o).Error)

	w := e.doJSON(t, http.MethodGet, "/orders/"+o.ReferenceID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, o.ID, got.ID)
}
