package db

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/diewo77/offermaster/internal/models"
)

var starterCatalog = []models.Article{
	{Name: "Cement 25 kg", Category: models.CategoryBuildingMaterial, Price: decimal.RequireFromString("7.90"), MeasureUnit: models.UnitPiece, Description: "Portland cement CEM II 42,5"},
	{Name: "Keramičke pločice", Category: models.CategoryBuildingMaterial, Price: decimal.RequireFromString("18.50"), MeasureUnit: models.UnitSquareMetre, Description: "Podne pločice 30x60"},
	{Name: "Beton C25/30", Category: models.CategoryBuildingMaterial, Price: decimal.RequireFromString("95.00"), MeasureUnit: models.UnitCubicMetre, Description: "Transportni beton"},
	{Name: "Polaganje pločica", Category: models.CategoryService, Price: decimal.RequireFromString("22.00"), MeasureUnit: models.UnitSquareMetre, Description: "Rad s ljepilom i fugiranjem"},
	{Name: "Žbukanje zidova", Category: models.CategoryService, Price: decimal.RequireFromString("12.00"), MeasureUnit: models.UnitSquareMetre, Description: "Strojna žbuka"},
}

// Seed inserts the starter catalog. Articles already present by name are kept.
func Seed(db *gorm.DB) error {
	for _, a := range starterCatalog {
		var existing models.Article
		err := db.Where("name_key = ?", models.NameKeyOf(a.Name)).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("lookup %q: %w", a.Name, err)
		}
		if err := db.Create(&a).Error; err != nil {
			return fmt.Errorf("seed %q: %w", a.Name, err)
		}
	}
	return nil
}
