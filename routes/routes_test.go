package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"food-ordering-api/auth"
	"food-ordering-api/cart"
	"food-ordering-api/catalog"
	"food-ordering-api/handlers"
	"food-ordering-api/middleware"
	"food-ordering-api/orders"
	"food-ordering-api/payments"
	"food-ordering-api/routes"
	"food-ordering-api/seed"
	"food-ordering-api/session"
	"food-ordering-api/store"
	"food-ordering-api/store/storetest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type APITestSuite struct {
	suite.Suite
	router  *gin.Engine
	data    *seed.Data
	clock   *clock
	limiter *middleware.RateLimiter
}

func TestAPI(t *testing.T) {
	gin.SetMode(gin.TestMode)
	suite.Run(t, new(APITestSuite))
}

func (s *APITestSuite) SetupTest() {
	ctx := context.Background()
	st := store.New(storetest.NewDB(s.T()))
	data, err := seed.Run(ctx, st, bcrypt.MinCost)
	s.Require().NoError(err)
	s.data = data

	s.clock = &clock{now: time.Now()}
	sessions := session.NewManager(session.NewMemoryStore(s.clock.Now), []byte("test-secret"), session.DefaultTTL, session.WithClock(s.clock.Now))
	log := zap.NewNop()

	h := handlers.New(handlers.Deps{
		Store:    st,
		Verifier: auth.NewBcryptVerifier(st),
		Sessions: sessions,
		Catalog:  catalog.NewService(st),
		Cart:     cart.NewEngine(st, log),
		Orders:   orders.NewEngine(st, nil, log),
		Payments: payments.NewService(st, log),
		Log:      log,
	})
	s.limiter = middleware.PerMinute(1000)
	s.router = routes.NewRouter(h, routes.Options{
		Sessions:       sessions,
		LoginLimiter:   s.limiter,
		AllowedOrigins: []string{"http://localhost:3000"},
		Log:            log,
	})
}

func (s *APITestSuite) TearDownTest() {
	s.limiter.Stop()
}

func (s *APITestSuite) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: middleware.CookieName, Value: token})
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *APITestSuite) decode(w *httptest.ResponseRecorder, v interface{}) {
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func (s *APITestSuite) login(email, password string) string {
	w := s.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": email, "password": password})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Token string `json:"token"`
	}
	s.decode(w, &resp)
	s.Require().NotEmpty(resp.Token)
	return resp.Token
}

func (s *APITestSuite) errorOf(w *httptest.ResponseRecorder) string {
	var resp struct {
		Error string `json:"error"`
	}
	s.decode(w, &resp)
	return resp.Error
}

func (s *APITestSuite) TestLoginSetsCookie() {
	w := s.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "thor@member.com", "password": "member123"})
	s.Require().Equal(http.StatusOK, w.Code)

	cookie := w.Header().Get("Set-Cookie")
	s.Contains(cookie, middleware.CookieName+"=")
	s.Contains(cookie, "HttpOnly")
	s.Contains(cookie, "Max-Age=86400")

	var resp struct {
		User  map[string]interface{} `json:"user"`
		Token string                 `json:"token"`
	}
	s.decode(w, &resp)
	s.Equal("India", resp.User["country"])
	s.Equal("member", resp.User["role"])
	s.NotContains(w.Body.String(), "passwordHash")
}

func (s *APITestSuite) TestLoginRejectsBadCredentials() {
	w := s.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "thor@member.com", "password": "wrong"})
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal("Invalid credentials", s.errorOf(w))

	w = s.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "not-an-email"})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *APITestSuite) TestBearerHeaderAndMe() {
	token := s.login("captainmarvel@manager.com", "manager123")
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"email":"captainmarvel@manager.com"`)
}

func (s *APITestSuite) TestSessionExpiresAfter24Hours() {
	token := s.login("thor@member.com", "member123")
	s.Equal(http.StatusOK, s.do(http.MethodGet, "/api/restaurants", token, nil).Code)

	s.clock.Advance(24*time.Hour + time.Second)
	w := s.do(http.MethodGet, "/api/restaurants", token, nil)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *APITestSuite) TestLogoutRevokesSession() {
	token := s.login("thor@member.com", "member123")
	w := s.do(http.MethodPost, "/api/auth/logout", token, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"success":true}`, w.Body.String())

	s.Equal(http.StatusUnauthorized, s.do(http.MethodGet, "/api/cart", token, nil).Code)
}

func (s *APITestSuite) TestUnauthenticatedRequests() {
	for _, path := range []string{"/api/restaurants", "/api/menus", "/api/orders", "/api/cart", "/api/payment-methods"} {
		w := s.do(http.MethodGet, path, "", nil)
		s.Equal(http.StatusUnauthorized, w.Code, path)
	}
}

func (s *APITestSuite) TestMemberSeesOnlyOwnCountryRestaurants() {
	token := s.login("thor@member.com", "member123")
	w := s.do(http.MethodGet, "/api/restaurants?country=USA", token, nil)
	s.Require().Equal(http.StatusOK, w.Code)

	var restaurants []map[string]interface{}
	s.decode(w, &restaurants)
	s.Len(restaurants, 3)
	for _, r := range restaurants {
		s.Equal("India", r["country"])
	}

	w = s.do(http.MethodGet, "/api/restaurants/"+s.data.Restaurants["New York Pizza"].ID, token, nil)
	s.Equal(http.StatusForbidden, w.Code)
}

func (s *APITestSuite) TestAdminFiltersRestaurants() {
	token := s.login("nickfury@admin.com", "admin123")
	w := s.do(http.MethodGet, "/api/restaurants?country=UK", token, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var restaurants []map[string]interface{}
	s.decode(w, &restaurants)
	s.Len(restaurants, 2)

	w = s.do(http.MethodGet, "/api/restaurants", token, nil)
	s.decode(w, &restaurants)
	s.Len(restaurants, 8)
}

func (s *APITestSuite) TestMenusAreScopedAndPricedAsNumbers() {
	token := s.login("travis@member.com", "member123")
	w := s.do(http.MethodGet, "/api/menus?restaurantId="+s.data.Restaurants["Mumbai Masala"].ID, token, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.JSONEq(`[]`, w.Body.String())

	w = s.do(http.MethodGet, "/api/menus?restaurantId="+s.data.Restaurants["Chicago Steakhouse"].ID, token, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var menus []map[string]interface{}
	s.decode(w, &menus)
	s.Require().Len(menus, 2)
	for _, m := range menus {
		_, isNumber := m["price"].(float64)
		s.True(isNumber, "price should be a JSON number: %v", m["price"])
	}
}

func (s *APITestSuite) TestMemberCannotAddForeignItemToCart() {
	token := s.login("thor@member.com", "member123")
	pizza := s.data.Menus["Pepperoni Pizza"]
	w := s.do(http.MethodPost, "/api/cart", token, gin.H{
		"menuId": pizza.ID, "restaurantId": pizza.RestaurantID, "quantity": 1, "price": 15.99,
	})
	s.Equal(http.StatusForbidden, w.Code)

	w = s.do(http.MethodGet, "/api/cart", token, nil)
	s.JSONEq(`[]`, w.Body.String())
}

func (s *APITestSuite) TestCartMergeAndRemove() {
	token := s.login("thanos@member.com", "member123")
	dosa := s.data.Menus["Masala Dosa"]

	add := func(qty int, price float64) map[string]interface{} {
		w := s.do(http.MethodPost, "/api/cart", token, gin.H{
			"menuId": dosa.ID, "restaurantId": dosa.RestaurantID, "quantity": qty, "price": price,
		})
		s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
		var item map[string]interface{}
		s.decode(w, &item)
		return item
	}
	add(2, 180)
	item := add(3, 170)
	s.EqualValues(5, item["quantity"])
	s.EqualValues(170, item["price"])
	s.Equal("Masala Dosa", item["name"])

	other := s.login("thor@member.com", "member123")
	w := s.do(http.MethodDelete, "/api/cart?itemId="+item["id"].(string), other, nil)
	s.Equal(http.StatusNotFound, w.Code)

	w = s.do(http.MethodDelete, "/api/cart", token, nil)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("itemId is required", s.errorOf(w))

	w = s.do(http.MethodDelete, "/api/cart?itemId="+item["id"].(string), token, nil)
	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"success":true}`, w.Body.String())

	w = s.do(http.MethodPost, "/api/cart/clear", token, nil)
	s.Equal(http.StatusOK, w.Code)
}

func (s *APITestSuite) placeOrder(token, restaurant string, menus ...string) *httptest.ResponseRecorder {
	items := []gin.H{}
	for _, name := range menus {
		m := s.data.Menus[name]
		items = append(items, gin.H{"menuId": m.ID, "quantity": 1, "price": m.Price})
	}
	return s.do(http.MethodPost, "/api/orders", token, gin.H{
		"restaurantId": s.data.Restaurants[restaurant].ID,
		"items":        items,
		"totalAmount":  100,
	})
}

func (s *APITestSuite) TestMemberCannotTouchOrders() {
	token := s.login("thor@member.com", "member123")
	w := s.placeOrder(token, "Mumbai Masala", "Butter Chicken")
	s.Equal(http.StatusForbidden, w.Code)
	s.Equal("Members cannot place orders", s.errorOf(w))

	s.Equal(http.StatusForbidden, s.do(http.MethodGet, "/api/orders", token, nil).Code)
}

func (s *APITestSuite) TestOrderFlow() {
	usa := s.login("captainamerica@manager.com", "manager123")
	w := s.placeOrder(usa, "Texas Burger House", "Wagyu Burger", "Loaded Fries")
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var order map[string]interface{}
	s.decode(w, &order)
	s.Equal("confirmed", order["status"])
	s.NotContains(order, "items")
	orderID := order["id"].(string)

	india := s.login("captainmarvel@manager.com", "manager123")
	w = s.do(http.MethodPost, "/api/orders/"+orderID+"/cancel", india, nil)
	s.Equal(http.StatusForbidden, w.Code)

	w = s.do(http.MethodGet, "/api/orders", india, nil)
	s.JSONEq(`[]`, w.Body.String())

	w = s.do(http.MethodGet, "/api/orders", usa, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var list []struct {
		ID     string `json:"id"`
		Status string `json:"status"`
		Items  []struct {
			ItemID string  `json:"itemId"`
			Name   string  `json:"name"`
			Qty    int     `json:"qty"`
			Price  float64 `json:"price"`
		} `json:"items"`
	}
	s.decode(w, &list)
	s.Require().Len(list, 1)
	s.Equal("confirmed", list[0].Status)
	s.Require().Len(list[0].Items, 2)
	s.Equal("Wagyu Burger", list[0].Items[0].Name)
	s.Equal("Loaded Fries", list[0].Items[1].Name)

	w = s.do(http.MethodPost, "/api/orders/"+orderID+"/cancel", usa, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"status":"cancelled"`)

	w = s.do(http.MethodGet, "/api/orders/"+orderID+"/history", usa, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var history []map[string]interface{}
	s.decode(w, &history)
	s.Len(history, 2)

	w = s.do(http.MethodGet, "/api/orders/summary", usa, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"count":1`)
}

func (s *APITestSuite) TestOrderWithUnknownMenuIsNotPersisted() {
	admin := s.login("nickfury@admin.com", "admin123")
	w := s.do(http.MethodPost, "/api/orders", admin, gin.H{
		"restaurantId": s.data.Restaurants["Mumbai Masala"].ID,
		"items": []gin.H{
			{"menuId": s.data.Menus["Butter Chicken"].ID, "quantity": 1, "price": 320},
			{"menuId": "missing", "quantity": 1, "price": 1},
		},
		"totalAmount": 321,
	})
	s.Equal(http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/api/orders", admin, nil)
	s.JSONEq(`[]`, w.Body.String())

	w = s.do(http.MethodPost, "/api/orders", admin, gin.H{"restaurantId": "nope", "items": []gin.H{{"menuId": "x", "quantity": 1, "price": 1}}})
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *APITestSuite) TestPaymentMethods() {
	member := s.login("thor@member.com", "member123")
	w := s.do(http.MethodPost, "/api/payment-methods", member, gin.H{"cardLast4": "1234", "type": "upi"})
	s.Equal(http.StatusForbidden, w.Code)

	manager := s.login("captainmarvel@manager.com", "manager123")
	w = s.do(http.MethodPost, "/api/payment-methods", manager, gin.H{
		"userId": s.data.Users["thor@member.com"].ID, "cardLast4": "1234", "type": "upi",
	})
	s.Equal(http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, "/api/payment-methods", manager, gin.H{"cardLast4": "12", "type": "upi"})
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/payment-methods", manager, gin.H{"cardLast4": "1234", "type": "upi"})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/api/payment-methods", manager, nil)
	var methods []map[string]interface{}
	s.decode(w, &methods)
	s.Len(methods, 2)

	admin := s.login("nickfury@admin.com", "admin123")
	w = s.do(http.MethodGet, "/api/payment-methods", admin, nil)
	s.decode(w, &methods)
	s.Len(methods, 4)
}

func (s *APITestSuite) TestHealthAndStateMachine() {
	w := s.do(http.MethodGet, "/health", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"status":"healthy","database":"ok"}`, w.Body.String())
	s.NotEmpty(w.Header().Get(middleware.RequestIDHeader))

	w = s.do(http.MethodGet, "/api/state-machine", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"terminal_states":["cancelled"]`)
}

func (s *APITestSuite) TestCORSPreflight() {
	req := httptest.NewRequest(http.MethodOptions, "/api/cart", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Equal("http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	s.Equal("true", w.Header().Get("Access-Control-Allow-Credentials"))
	s.True(strings.HasPrefix(w.Header().Get("Access-Control-Allow-Methods"), "GET"))
}
