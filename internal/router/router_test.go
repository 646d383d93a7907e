package router

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"shop/internal/auth"
	"shop/internal/cart"
	"shop/internal/config"
	"shop/internal/model"
	"shop/internal/session"
	"shop/internal/shop"

	"github.com/gin-gonic/gin"
	rd "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type routerEnv struct {
	r      *gin.Engine
	db     *gorm.DB
	tokens *auth.Manager
}

func newRouterEnv(t *testing.T) *routerEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "router_test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.ProductFeature{},
		&model.ProductColor{},
		&model.Comment{},
		&model.Order{},
		&model.OrderItem{},
		&model.DiscountCode{},
		&model.Chat{},
		&model.Message{},
		&model.Notification{},
	))

	carts := cart.NewManager(session.NewMemoryStore())
	tokens := auth.NewManager("router-test-secret", time.Hour)

	r := gin.New()
	Setup(r, Deps{
		DB:     db,
		Redis:  rd.NewClient(&rd.Options{Addr: "localhost:1"}),
		Shop:   shop.NewService(db, carts, nil),
		Carts:  carts,
		Tokens: tokens,
		Cfg:    config.AppConfig{CheckoutRateLimit: 100, CheckoutRateWindow: time.Minute},
	})
	return &routerEnv{r: r, db: db, tokens: tokens}
}

// createUser inserts an account directly and returns it with a valid
// bearer token, bypassing the register endpoint.
func (e *routerEnv) createUser(t *testing.T, username, phone string, staff bool) (*model.User, string) {
	t.Helper()
	u := &model.User{
		PhoneNumber:  phone,
		Username:     username,
		PasswordHash: "x",
		IsStaff:      staff,
	}
	require.NoError(t, e.db.Create(u).Error)
	token, err := e.tokens.IssueToken(*u)
	require.NoError(t, err)
	return u, token
}

func (e *routerEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	} else {
		rdr = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestRegisterAndLogin(t *testing.T) {
	env := newRouterEnv(t)
	register := gin.H{
		"phone_number": "989121234567",
		"username":     "sara",
		"password":     "supersecret",
	}

	w := env.do(t, http.MethodPost, "/api/users/register", register, "")
	assert.Equal(t, http.StatusOK, w.Code)

	// Same phone/username again is a duplicate, not a 500.
	w = env.do(t, http.MethodPost, "/api/users/register", register, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w).Msg, "already exists")

	w = env.do(t, http.MethodPost, "/api/users/login", gin.H{
		"phone_number": "989121234567",
		"password":     "wrong-password",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodPost, "/api/users/login", gin.H{
		"phone_number": "989121234567",
		"password":     "supersecret",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	var data struct {
		Token string     `json:"token"`
		User  model.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &data))
	require.NotEmpty(t, data.Token)
	assert.Equal(t, "sara", data.User.Username)

	// The issued token opens authenticated routes.
	w = env.do(t, http.MethodGet, "/api/orders", nil, data.Token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRegisterRejectsInvalidPhone(t *testing.T) {
	env := newRouterEnv(t)
	w := env.do(t, http.MethodPost, "/api/users/register", gin.H{
		"phone_number": "12345",
		"username":     "sara",
		"password":     "supersecret",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w).Msg, "valid mobile")
}

func TestMessageOnClosedChat(t *testing.T) {
	env := newRouterEnv(t)
	user, token := env.createUser(t, "creator", "989121110000", false)

	chat := &model.Chat{Title: "order never arrived", CreatorID: user.ID}
	require.NoError(t, env.db.Create(chat).Error)
	require.NoError(t, env.db.Model(chat).Update("is_open", false).Error)

	w := env.do(t, http.MethodPost, fmt.Sprintf("/api/tickets/%d/messages", chat.ID),
		gin.H{"content": "any update?"}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w).Msg, "closed")

	// Nothing was stored.
	var count int64
	require.NoError(t, env.db.Model(&model.Message{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestMessagePermissions(t *testing.T) {
	env := newRouterEnv(t)
	creator, creatorToken := env.createUser(t, "creator", "989121110000", false)
	_, strangerToken := env.createUser(t, "stranger", "989121110001", false)
	_, staffToken := env.createUser(t, "support", "989121110002", true)

	chat := &model.Chat{Title: "refund question", CreatorID: creator.ID}
	require.NoError(t, env.db.Create(chat).Error)
	path := fmt.Sprintf("/api/tickets/%d/messages", chat.ID)

	// A non-creator non-staff caller cannot reply.
	w := env.do(t, http.MethodPost, path, gin.H{"content": "me too"}, strangerToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Creator and staff can.
	w = env.do(t, http.MethodPost, path, gin.H{"content": "still waiting"}, creatorToken)
	assert.Equal(t, http.StatusOK, w.Code)
	w = env.do(t, http.MethodPost, path, gin.H{"content": "on it"}, staffToken)
	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, env.db.Model(&model.Message{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestAdminRoutesRequireStaff(t *testing.T) {
	env := newRouterEnv(t)
	_, customerToken := env.createUser(t, "customer", "989121110000", false)
	_, staffToken := env.createUser(t, "admin", "989121110001", true)
	body := gin.H{"name": "Books"}

	w := env.do(t, http.MethodPost, "/api/admin/categories", body, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodPost, "/api/admin/categories", body, customerToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodPost, "/api/admin/categories", body, staffToken)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStatusForMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{shop.ErrProductNotFound, http.StatusNotFound},
		{shop.ErrOrderNotFound, http.StatusNotFound},
		{shop.ErrCodeNotFound, http.StatusNotFound},
		{shop.ErrChatNotFound, http.StatusNotFound},
		{cart.ErrNotInCart, http.StatusNotFound},
		{shop.ErrPermissionDenied, http.StatusForbidden},
		{shop.ErrValidation, http.StatusBadRequest},
		{shop.FieldRequired("city"), http.StatusBadRequest},
		{shop.ErrEmptyCart, http.StatusBadRequest},
		{shop.ErrNotSalable, http.StatusBadRequest},
		{shop.ErrCodeUsed, http.StatusBadRequest},
		{shop.ErrCodeApplied, http.StatusBadRequest},
		{shop.ErrCodeExpired, http.StatusBadRequest},
		{shop.ErrNoCodeApplied, http.StatusBadRequest},
		{shop.ErrDivideByZero, http.StatusBadRequest},
		{shop.ErrChatClosed, http.StatusBadRequest},
		{shop.ErrDuplicate, http.StatusBadRequest},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, statusFor(tc.err), "error %q", tc.err)
	}
}

func TestProductCommentsAndAverageRating(t *testing.T) {
	env := newRouterEnv(t)
	_, aliceToken := env.createUser(t, "alice", "989121110000", false)
	_, bobToken := env.createUser(t, "bob", "989121110001", false)

	p := &model.Product{Title: "Green Tea", Inventory: 10, Price: 500, IsSalable: true}
	require.NoError(t, env.db.Create(p).Error)

	// Commenting requires a login.
	w := env.do(t, http.MethodPost, "/api/products/Green-Tea/comments",
		gin.H{"title": "nice", "content": "good taste", "rate": 4}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Rate is bounded to 1-5.
	w = env.do(t, http.MethodPost, "/api/products/Green-Tea/comments",
		gin.H{"title": "nice", "content": "good taste", "rate": 6}, aliceToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/products/Green-Tea/comments",
		gin.H{"title": "nice", "content": "good taste", "rate": 4}, aliceToken)
	require.Equal(t, http.StatusOK, w.Code)
	w = env.do(t, http.MethodPost, "/api/products/Green-Tea/comments",
		gin.H{"title": "great", "content": "my favorite", "rate": 5}, bobToken)
	require.Equal(t, http.StatusOK, w.Code)

	// avg(4, 5) = 4.5, rounded to one decimal.
	w = env.do(t, http.MethodGet, "/api/products/Green-Tea", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var got model.Product
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &got))
	assert.Equal(t, 4.5, got.AverageRating)
	assert.Len(t, got.Comments, 2)

	// The listing carries the rating too.
	w = env.do(t, http.MethodGet, "/api/products", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Items []model.Product `json:"items"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, 4.5, list.Items[0].AverageRating)

	// An uncommented product reports zero.
	q := &model.Product{Title: "Black Tea", Inventory: 10, Price: 500, IsSalable: true}
	require.NoError(t, env.db.Create(q).Error)
	w = env.do(t, http.MethodGet, "/api/products/Black-Tea", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &got))
	assert.Zero(t, got.AverageRating)
}

func TestProductFeaturesAndColorsRoundTrip(t *testing.T) {
	env := newRouterEnv(t)
	_, staffToken := env.createUser(t, "admin", "989121110000", true)

	cat := &model.Category{Name: "Drinks"}
	require.NoError(t, env.db.Create(cat).Error)

	w := env.do(t, http.MethodPost, "/api/admin/products", gin.H{
		"title":           "Green Tea",
		"inventory":       10,
		"price":           500,
		"seller_username": "admin",
		"category_slug":   "Drinks",
		"features":        []gin.H{{"name": "Origin", "value": "Lahijan"}},
		"colors":          []string{"green"},
	}, staffToken)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/products/Green-Tea", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var got model.Product
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &got))
	require.Len(t, got.Features, 1)
	assert.Equal(t, "Origin", got.Features[0].Name)
	require.Len(t, got.Colors, 1)
	assert.Equal(t, "green", got.Colors[0].Color)

	// Supplying colors on update replaces the set.
	w = env.do(t, http.MethodPut, "/api/admin/products/Green-Tea", gin.H{
		"colors": []string{"green", "white"},
	}, staffToken)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/products/Green-Tea", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &got))
	assert.Len(t, got.Colors, 2)
	assert.Len(t, got.Features, 1)
}
