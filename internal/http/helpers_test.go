package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"shopapi/internal/config"
	"shopapi/internal/http/handlers"
	applog "shopapi/internal/log"
	"shopapi/internal/repos"
)

const seedPassword = "Passw0rd!"

func testConfig() config.Config {
	return config.Config{
		DBDriver:         repos.DriverSQLite,
		DBDSN:            ":memory:",
		JWTSecret:        "test-secret",
		JWTExpiresIn:     time.Hour,
		JWTCookieExpDays: 1,
		RateLimitMax:     1000,
		RateLimitWindow:  time.Minute,
		BodyLimit:        50 * 1024,
	}
}

// newTestApp builds the real app over a seeded in-memory database.
func newTestApp(t *testing.T, tweak ...func(*config.Config)) (*fiber.App, *sqlx.DB) {
	t.Helper()
	cfg := testConfig()
	for _, f := range tweak {
		f(&cfg)
	}
	db, err := repos.OpenDB(cfg.DBDriver, cfg.DBDSN)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, repos.Seed(db))
	return handlers.NewApp(cfg, handlers.NewDeps(db, cfg, nil)), db
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func do(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, envelope) {
	t.Helper()
	var rdr io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rdr = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rdr)
	if rdr != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &env)
	}
	return resp, env
}

func decode(t *testing.T, env envelope, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, dst))
}

func login(t *testing.T, app *fiber.App, email string) string {
	t.Helper()
	resp, env := do(t, app, "POST", "/api/v1/auth/login", "", map[string]string{"email": email, "password": seedPassword})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Message)
	var out struct {
		Token string `json:"token"`
	}
	decode(t, env, &out)
	require.NotEmpty(t, out.Token)
	return out.Token
}

// captureLogs routes the process logger into an in-memory observer for the test.
func captureLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	applog.SetLogger(zap.New(core))
	t.Cleanup(func() { applog.SetLogger(nil) })
	return logs
}

func actions(logs *observer.ObservedLogs) map[string]int {
	out := map[string]int{}
	for _, e := range logs.All() {
		if a, ok := e.ContextMap()["action"].(string); ok {
			out[a]++
		}
	}
	return out
}
