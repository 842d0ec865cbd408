package repository

import (
	"fmt"
	"strings"
	"testing"

	"github.com/krishi-setu/internal/constants"
	"github.com/krishi-setu/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func openRepositoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func createRepoTestProduct(t *testing.T, db *gorm.DB, name string, farmerID uint, price string, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:          name,
		Category:      constants.CategoryVegetables,
		Price:         models.MustMoney(price),
		OriginalPrice: models.MustMoney(price),
		Stock:         stock,
		Unit:          constants.UnitKg,
		FarmerID:      farmerID,
		FarmerName:    fmt.Sprintf("farmer-%d", farmerID),
		Status:        constants.ProductStatusActive,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}
