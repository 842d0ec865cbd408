package main

import (
	"errors"
	"strings"

	"github.com/krishi-setu/internal/config"
	"github.com/krishi-setu/internal/constants"
	"github.com/krishi-setu/internal/logger"
	"github.com/krishi-setu/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	demoFarmerEmail    = "farmer@krishisetu.local"
	demoFarmerPassword = "farmer123"
)

type seedProduct struct {
	Name          string
	Category      string
	Price         string
	OriginalPrice string
	Stock         int
	Unit          string
	Description   string
}

var demoProducts = []seedProduct{
	{Name: "Alphonso Mango", Category: constants.CategoryFruits, Price: "450", OriginalPrice: "520", Stock: 40, Unit: constants.UnitKg, Description: "Ratnagiri Alphonso, naturally ripened."},
	{Name: "Fresh Tomato", Category: constants.CategoryVegetables, Price: "30", OriginalPrice: "30", Stock: 120, Unit: constants.UnitKg, Description: "Vine ripened tomatoes picked this morning."},
	{Name: "Desi Cow Ghee", Category: constants.CategoryDairy, Price: "899", OriginalPrice: "999", Stock: 15, Unit: constants.UnitLiter, Description: "Bilona method A2 ghee."},
	{Name: "Toor Dal", Category: constants.CategoryPulses, Price: "160", OriginalPrice: "175", Stock: 60, Unit: constants.UnitKg, Description: "Unpolished pigeon pea split."},
	{Name: "Lemon Pickle", Category: constants.CategoryPickles, Price: "120", OriginalPrice: "120", Stock: 8, Unit: constants.UnitPiece, Description: "Sun cured, homemade, 400g jar."},
	{Name: "Turmeric Powder", Category: constants.CategoryMasala, Price: "45", OriginalPrice: "50", Stock: 90, Unit: constants.Unit100Gram, Description: "Lakadong turmeric, stone ground."},
	{Name: "Indrayani Rice", Category: constants.CategoryGrains, Price: "85", OriginalPrice: "95", Stock: 200, Unit: constants.UnitKg, Description: "Fragrant short grain rice from Maval."},
}

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}, false); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	if err := models.InitDefaultAdmin(cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		stdLog.Printf("Failed to init default admin: %v", err)
	}

	farmer, err := ensureDemoFarmer()
	if err != nil {
		stdLog.Fatalf("Failed to create demo farmer: %v", err)
	}

	for _, item := range demoProducts {
		var existing models.Product
		err := models.DB.Where("farmer_id = ? AND name = ?", farmer.ID, item.Name).First(&existing).Error
		if err == nil {
			stdLog.Printf("Product already exists: %s", item.Name)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			stdLog.Printf("Failed to look up product %s: %v", item.Name, err)
			continue
		}
		product := models.Product{
			Name:          item.Name,
			Category:      item.Category,
			Price:         models.MustMoney(item.Price),
			OriginalPrice: models.MustMoney(item.OriginalPrice),
			Stock:         item.Stock,
			Unit:          item.Unit,
			Image:         constants.DefaultProductImage,
			Description:   item.Description,
			FarmerID:      farmer.ID,
			FarmerName:    farmer.Name,
			Status:        constants.ProductStatusActive,
		}
		if err := models.DB.Create(&product).Error; err != nil {
			stdLog.Printf("Failed to create product %s: %v", item.Name, err)
			continue
		}
		stdLog.Printf("Created product: %s", item.Name)
	}

	stdLog.Printf("Seed completed. Demo farmer: %s / %s", demoFarmerEmail, demoFarmerPassword)
}

func ensureDemoFarmer() (*models.User, error) {
	var farmer models.User
	err := models.DB.Where("email = ?", demoFarmerEmail).First(&farmer).Error
	if err == nil {
		return &farmer, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(demoFarmerPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	farmer = models.User{
		Name:          "Ramesh Jadhav",
		Email:         strings.ToLower(demoFarmerEmail),
		PasswordHash:  string(hash),
		Role:          constants.RoleFarmer,
		Phone:         "9822012345",
		IsVerified:    true,
		Notifications: models.NotificationPrefs{Email: true, InApp: true},
	}
	if err := models.DB.Create(&farmer).Error; err != nil {
		return nil, err
	}
	return &farmer, nil
}
