package db

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/diewo77/offermaster/internal/config"
	"github.com/diewo77/offermaster/internal/models"
)

func openMemory(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := config.DatabaseConfig{Driver: "sqlite", DBName: "file:" + t.Name() + "?mode=memory&cache=shared"}
	d, err := Connect(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := Migrate(d, cfg, true); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return d
}

func TestSeedIdempotent(t *testing.T) {
	d := openMemory(t)
	if err := Seed(d); err != nil {
		t.Fatal(err)
	}
	if err := Seed(d); err != nil {
		t.Fatal(err)
	}
	var count int64
	d.Model(&models.Article{}).Count(&count)
	if count != int64(len(starterCatalog)) {
		t.Fatalf("expected %d articles got %d", len(starterCatalog), count)
	}
}

func TestArticleNameUniqueIgnoringCase(t *testing.T) {
	d := openMemory(t)
	if err := d.Create(&models.Article{Name: "Gips", Category: models.CategoryBuildingMaterial}).Error; err != nil {
		t.Fatalf("create: %v", err)
	}
	err := d.Create(&models.Article{Name: " GIPS ", Category: models.CategoryBuildingMaterial}).Error
	if !IsDuplicate(err) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestIsDuplicate(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{gorm.ErrDuplicatedKey, true},
		{errors.New(`ERROR: duplicate key value violates unique constraint "idx"`), true},
		{errors.New("UNIQUE constraint failed: users.email"), true},
		{errors.New("connection refused"), false},
	}
	for _, tt := range tests {
		if got := IsDuplicate(tt.err); got != tt.want {
			t.Errorf("IsDuplicate(%v) = %v want %v", tt.err, got, tt.want)
		}
	}
}

func TestMaskDSN(t *testing.T) {
	got := MaskDSN("host=db user=u password=secret dbname=om")
	if got != "host=db user=u password=*** dbname=om" {
		t.Fatalf("got %q", got)
	}
}

func TestUnsupportedDriver(t *testing.T) {
	if _, err := Connect(config.DatabaseConfig{Driver: "oracle"}, zap.NewNop()); err == nil {
		t.Fatalf("expected error")
	}
}
