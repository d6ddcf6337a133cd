package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-ops/config"
	"github.com/yeremiapane/restaurant-ops/database"
	"github.com/yeremiapane/restaurant-ops/kds"
	"github.com/yeremiapane/restaurant-ops/middlewares"
	"github.com/yeremiapane/restaurant-ops/models"
	"github.com/yeremiapane/restaurant-ops/router"
	"github.com/yeremiapane/restaurant-ops/utils"
	"gorm.io/gorm"
)

type testApp struct {
	db     *gorm.DB
	hub    *kds.Hub
	router *gin.Engine
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func setupApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.OpenSQLite("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	hashed, err := utils.HashPassword("secret")
	require.NoError(t, err)
	for _, s := range []models.Staff{
		{Username: "maya", Role: models.RoleManager},
		{Username: "walt", Role: models.RoleWaiter},
		{Username: "chloe", Role: models.RoleChef},
		{Username: "cass", Role: models.RoleCashier},
	} {
		s.Password = hashed
		s.Active = true
		require.NoError(t, db.Create(&s).Error)
	}

	hub := kds.NewHub()
	r := router.SetupRouter(router.Options{
		DB:          db,
		Hub:         hub,
		Tokens:      utils.NewTokenManager("test-secret", time.Hour),
		TokenStore:  utils.NewMemoryTokenStore(),
		CORS:        config.CORSConfig{AllowOrigins: []string{"http://localhost:3000"}, MaxAge: time.Hour},
		AuthLimiter: middlewares.NewRateLimiter(time.Millisecond, 1000),
	})
	return &testApp{db: db, hub: hub, router: r}
}

func (a *testApp) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") != "application/pdf" {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w, env
}

func (a *testApp) login(t *testing.T, username, role string) string {
	t.Helper()
	w, env := a.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"username": username, "password": "secret", "role": role,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return data.Token
}

func (a *testApp) seedTable(t *testing.T, capacity int) models.Table {
	t.Helper()
	table := models.Table{Capacity: capacity, Status: models.TableAvailable}
	require.NoError(t, a.db.Create(&table).Error)
	return table
}

func (a *testApp) seedMenuItem(t *testing.T, name, price, category string) models.MenuItem {
	t.Helper()
	item := models.MenuItem{Name: name, Price: decimal.RequireFromString(price), Category: category}
	require.NoError(t, a.db.Create(&item).Error)
	return item
}
