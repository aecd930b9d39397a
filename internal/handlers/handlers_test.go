package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/diewo77/offermaster/auth"
	"github.com/diewo77/offermaster/httpx"
	"github.com/diewo77/offermaster/internal/config"
	"github.com/diewo77/offermaster/internal/db"
	"github.com/diewo77/offermaster/internal/guard"
	"github.com/diewo77/offermaster/internal/mailer"
	"github.com/diewo77/offermaster/internal/metrics"
	"github.com/diewo77/offermaster/internal/middleware"
	"github.com/diewo77/offermaster/internal/models"
	"github.com/diewo77/offermaster/internal/policy"
	"github.com/diewo77/offermaster/internal/services"
	"github.com/diewo77/offermaster/internal/storage"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Use a unique in-memory database per test to avoid cross-test collisions.
	cfg := config.DatabaseConfig{Driver: "sqlite", DBName: "file:" + t.Name() + "?mode=memory&cache=shared"}
	conn, err := db.Connect(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

type testApp struct {
	db       *gorm.DB
	mail     *mailer.Recorder
	locker   *guard.Keyed
	metrics  *metrics.Registry
	articles *ArticleHandler
	quotes   *QuoteHandler
	projects *ProjectHandler
	calendar *CalendarHandler
	auth     *AuthHandler
	users    *UserHandler
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	conn := setupTestDB(t)
	app := &testApp{db: conn, mail: &mailer.Recorder{}, locker: guard.NewKeyed(), metrics: metrics.NewRegistry()}
	g := policy.NewAuthGate()
	store := storage.NewMemory("http://files.test")
	userSvc := services.NewUserService(conn, auth.NewTokens("secret", time.Hour), app.mail, "http://app.test", time.Hour)
	userSvc.Cost = bcrypt.MinCost

	app.articles = NewArticleHandler(services.NewArticleService(conn))
	app.quotes = NewQuoteHandler(services.NewQuoteService(conn, store, app.mail, g), app.locker, app.metrics)
	app.projects = NewProjectHandler(services.NewProjectService(conn, store, g), app.metrics)
	app.calendar = NewCalendarHandler(services.NewEventService(conn, g), app.metrics)
	app.auth = NewAuthHandler(userSvc, app.metrics)
	app.users = NewUserHandler(userSvc)
	return app
}

func (a *testApp) user(t *testing.T, email string) models.User {
	t.Helper()
	u := models.User{FirstName: "Ivo", LastName: "Ivić", Email: email, Password: "x"}
	if err := a.db.Create(&u).Error; err != nil {
		t.Fatalf("user: %v", err)
	}
	return u
}

func (a *testApp) article(t *testing.T, name, price string) models.Article {
	t.Helper()
	art := models.Article{Name: name, Category: models.CategoryService, Price: decimal.RequireFromString(price)}
	if err := a.db.Create(&art).Error; err != nil {
		t.Fatalf("article: %v", err)
	}
	return art
}

// request builds a request acting as uid (0 for anonymous) in lang.
func request(method, target, body string, uid uint, lang string) *http.Request {
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rdr)
	req.Header.Set("Content-Type", "application/json")
	ctx := req.Context()
	if uid != 0 {
		ctx = auth.WithUserID(ctx, uid)
	}
	if lang != "" {
		ctx = middleware.WithLang(ctx, lang)
	}
	return req.WithContext(ctx)
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) httpx.ErrorResponse {
	t.Helper()
	var out httpx.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode error body %q: %v", w.Body.String(), err)
	}
	return out
}

func messageOf(e httpx.ErrorResponse) string {
	m, _ := e.Details.(map[string]any)
	s, _ := m["message"].(string)
	return s
}
