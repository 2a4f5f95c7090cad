package controllers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/canteen-pos/config"
	"github.com/yeremiapane/canteen-pos/kds"
	"github.com/yeremiapane/canteen-pos/models"
	"github.com/yeremiapane/canteen-pos/router"
	"github.com/yeremiapane/canteen-pos/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
	utils.InfoLogger.SetOutput(io.Discard)
	utils.ErrorLogger.SetOutput(io.Discard)
}

type envelope struct {
	Status  bool              `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

type testApp struct {
	t      *testing.T
	db     *gorm.DB
	hub    *kds.Hub
	tokens *utils.TokenManager
	router *gin.Engine
}

func newTestApp(t *testing.T, mutate ...func(*config.Config)) *testApp {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	cfg := &config.Config{
		DBDriver:      "sqlite",
		DBSource:      "file:" + name + "?mode=memory&cache=shared",
		AuthRateLimit: 1000,
	}
	for _, m := range mutate {
		m(cfg)
	}

	db, err := config.InitDB(cfg)
	require.NoError(t, err)
	require.NoError(t, config.AutoMigrate(db))
	sqlDB, err := db.DB()
	require.NoError(t, err)

	quiet := logrus.New()
	quiet.SetOutput(io.Discard)
	hub := kds.NewHub(nil, kds.Options{}, quiet)
	tokens := utils.NewTokenManager("test-secret", time.Hour)

	t.Cleanup(func() {
		hub.Shutdown()
		sqlDB.Close()
	})

	return &testApp{
		t:      t,
		db:     db,
		hub:    hub,
		tokens: tokens,
		router: router.SetupRouter(router.Deps{DB: db, Hub: hub, Tokens: tokens, Config: cfg}),
	}
}

func (a *testApp) request(method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func (a *testApp) user(email, role string) (models.User, string) {
	a.t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(a.t, err)

	u := models.User{Email: email, Password: string(hash), FirstName: "Test", Role: role, IsActive: true}
	require.NoError(a.t, a.db.Create(&u).Error)

	token, err := a.tokens.GenerateToken(u.ID, u.Role)
	require.NoError(a.t, err)
	return u, token
}

func (a *testApp) staffToken() string {
	_, token := a.user("staff@canteen.test", models.RoleStaff)
	return token
}

func (a *testApp) menuItem(name, price string) models.MenuItem {
	a.t.Helper()
	var cat models.MenuCategory
	require.NoError(a.t, a.db.FirstOrCreate(&cat, models.MenuCategory{Name: "Snacks"}).Error)

	item := models.MenuItem{CategoryID: cat.ID, Name: name, Price: models.NewMoney(decimal.RequireFromString(price)), Available: true}
	require.NoError(a.t, a.db.Create(&item).Error)
	return item
}

type orderJSON struct {
	ID            uint            `json:"id"`
	Status        string          `json:"status"`
	PaymentMethod string          `json:"payment_method"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	Items         []struct {
		MenuItem     *uint           `json:"menu_item"`
		MenuItemName string          `json:"menu_item_name"`
		UnitPrice    decimal.Decimal `json:"unit_price"`
		Quantity     int             `json:"quantity"`
		Subtotal     decimal.Decimal `json:"subtotal"`
	} `json:"items"`
}

func decodeOrder(t *testing.T, raw json.RawMessage) orderJSON {
	t.Helper()
	var o orderJSON
	require.NoError(t, json.Unmarshal(raw, &o), string(raw))
	return o
}

func (a *testApp) placeOrder(items ...map[string]interface{}) orderJSON {
	a.t.Helper()
	w, env := a.request(http.MethodPost, "/api/orders", "", map[string]interface{}{"items": items})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	return decodeOrder(a.t, env.Data)
}
