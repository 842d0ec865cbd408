package service

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/krishi-setu/internal/constants"
	"github.com/krishi-setu/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func openServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func createServiceTestUser(t *testing.T, db *gorm.DB, email, role string, emailPref bool) *models.User {
	t.Helper()
	user := &models.User{
		Name:          strings.Split(email, "@")[0],
		Email:         email,
		PasswordHash:  "x",
		Role:          role,
		Notifications: models.NotificationPrefs{Email: emailPref, InApp: true},
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	if !emailPref {
		// gorm 对零值使用列默认值，需要显式写回 false
		if err := db.Model(user).Update("notify_email", false).Error; err != nil {
			t.Fatalf("update email pref failed: %v", err)
		}
	}
	return user
}

func createServiceTestProduct(t *testing.T, db *gorm.DB, farmer *models.User, name, price string, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:          name,
		Category:      constants.CategoryVegetables,
		Price:         models.MustMoney(price),
		OriginalPrice: models.MustMoney(price),
		Stock:         stock,
		Unit:          constants.UnitKg,
		FarmerID:      farmer.ID,
		FarmerName:    farmer.Name,
		Status:        constants.ProductStatusActive,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

type sentEmail struct {
	To      string
	Subject string
	HTML    string
}

type fakeEmailSender struct {
	mu   sync.Mutex
	sent []sentEmail
	fail bool
}

func (f *fakeEmailSender) Send(to, subject, html string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("smtp unavailable")
	}
	f.sent = append(f.sent, sentEmail{To: to, Subject: subject, HTML: html})
	return nil
}

func (f *fakeEmailSender) Sent() []sentEmail {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentEmail(nil), f.sent...)
}
