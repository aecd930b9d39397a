package services

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/diewo77/offermaster/auth"
	"github.com/diewo77/offermaster/internal/config"
	"github.com/diewo77/offermaster/internal/db"
	"github.com/diewo77/offermaster/internal/mailer"
	"github.com/diewo77/offermaster/internal/models"
	"github.com/diewo77/offermaster/internal/policy"
	"github.com/diewo77/offermaster/internal/storage"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
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

func seedUser(t *testing.T, conn *gorm.DB, email string) models.User {
	t.Helper()
	u := models.User{FirstName: "Ana", LastName: "Horvat", Email: email, Password: "hash"}
	if err := conn.Create(&u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func seedArticle(t *testing.T, conn *gorm.DB, name string, price string) models.Article {
	t.Helper()
	a := models.Article{Name: name, Category: models.CategoryBuildingMaterial, Price: decimal.RequireFromString(price), MeasureUnit: models.UnitSquareMetre}
	if err := conn.Create(&a).Error; err != nil {
		t.Fatalf("seed article: %v", err)
	}
	return a
}

func as(u models.User) context.Context {
	return auth.WithUserID(context.Background(), u.ID)
}

type fixture struct {
	db       *gorm.DB
	store    *storage.Memory
	mail     *mailer.Recorder
	gate     *policy.AuthGate
	quotes   *QuoteService
	projects *ProjectService
	events   *EventService
	users    *UserService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	conn := setupTestDB(t)
	f := &fixture{
		db:    conn,
		store: storage.NewMemory("http://files.test"),
		mail:  &mailer.Recorder{},
		gate:  policy.NewAuthGate(),
	}
	f.quotes = NewQuoteService(conn, f.store, f.mail, f.gate)
	f.projects = NewProjectService(conn, f.store, f.gate)
	f.events = NewEventService(conn, f.gate)
	f.users = NewUserService(conn, auth.NewTokens("test-secret", time.Hour), f.mail, "http://app.test/", time.Hour)
	f.users.Cost = bcrypt.MinCost
	return f
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
