package Controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/waffle-wala/config"
	"github.com/yeremiapane/waffle-wala/database"
	"github.com/yeremiapane/waffle-wala/middlewares"
	"github.com/yeremiapane/waffle-wala/router"
	"github.com/yeremiapane/waffle-wala/storage"
	"github.com/yeremiapane/waffle-wala/utils"
)

const testAdminKey = "test-admin-key"

type apiResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Field   string          `json:"field"`
	Data    json.RawMessage `json:"data"`
}

// testAPI is a full router over an in-memory sqlite store and memory sessions.
type testAPI struct {
	t       *testing.T
	app     *router.App
	router  *gin.Engine
	session string
	token   string
}

func setupAPI(t *testing.T) *testAPI {
	t.Helper()
	utils.InitLogger()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		AdminKey:           testAdminKey,
		UPIID:              "waffle@upi",
		PaymentHoldTimeout: time.Minute,
		MonitorInterval:    time.Second,
	}
	app := router.NewApp(cfg, database.NewGormStore(db), storage.NewMemoryStorage())
	require.NoError(t, app.Stock.Initialize(context.Background()))

	r, err := router.SetupRouter(app)
	require.NoError(t, err)

	return &testAPI{t: t, app: app, router: r, session: uuid.NewString()}
}

// do sends a JSON request as the current session, with the admin token when set.
func (a *testAPI) do(method, path string, body interface{}) (*httptest.ResponseRecorder, apiResponse) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(a.t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middlewares.SessionHeader, a.session)
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var resp apiResponse
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func (a *testAPI) login() {
	a.t.Helper()
	w, resp := a.do("POST", "/admin/login", map[string]string{"key": testAdminKey})
	require.Equal(a.t, http.StatusOK, w.Code)
	var data struct {
		Token string `json:"token"`
	}
	require.NoError(a.t, json.Unmarshal(resp.Data, &data))
	require.NotEmpty(a.t, data.Token)
	a.token = data.Token
}

func (a *testAPI) setStock(name string, qty int) {
	a.t.Helper()
	require.NoError(a.t, a.app.Stock.SetQuantity(context.Background(), name, qty))
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}
