package service

import (
	"errors"
	"testing"
	"time"

	"github.com/krishi-setu/internal/config"
	"github.com/krishi-setu/internal/constants"
	"github.com/krishi-setu/internal/repository"
	"github.com/krishi-setu/internal/session"
)

type cartFixture struct {
	svc   *CartService
	clock time.Time
}

func newCartFixture(t *testing.T, cfg config.OrderConfig) (*cartFixture, *repository.GormProductRepository) {
	t.Helper()
	db := openServiceTestDB(t)
	repo := repository.NewProductRepository(db)
	f := &cartFixture{
		svc:   NewCartService(repo, cfg, nil),
		clock: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	f.svc.now = func() time.Time { return f.clock }

	farmer := createServiceTestUser(t, db, "farmer@cart.in", constants.RoleFarmer, true)
	createServiceTestProduct(t, db, farmer, "Onion", "25", 10)
	return f, repo
}

func (f *cartFixture) advance(d time.Duration) {
	f.clock = f.clock.Add(d)
}

func TestCartAddMergesAndIgnoresRapidDuplicates(t *testing.T) {
	f, _ := newCartFixture(t, config.OrderConfig{})
	sess := &session.Session{ID: "s1"}
	productID := uint(1)

	count, added, err := f.svc.AddItem(sess, AddCartItemInput{ProductID: &productID})
	if err != nil || !added || count != 1 {
		t.Fatalf("first add: count=%d added=%v err=%v", count, added, err)
	}
	if !sess.Dirty() {
		t.Fatalf("add should mark session dirty")
	}

	f.advance(200 * time.Millisecond)
	count, added, err = f.svc.AddItem(sess, AddCartItemInput{ProductID: &productID})
	if err != nil || added || count != 1 {
		t.Fatalf("duplicate add within window: count=%d added=%v err=%v", count, added, err)
	}

	f.advance(2 * time.Second)
	count, added, err = f.svc.AddItem(sess, AddCartItemInput{ProductID: &productID})
	if err != nil || !added || count != 2 {
		t.Fatalf("add after window: count=%d added=%v err=%v", count, added, err)
	}
	if len(sess.Data.Cart) != 1 || sess.Data.Cart[0].Quantity != 2 {
		t.Fatalf("same product should merge into one line: %+v", sess.Data.Cart)
	}
	if sess.Data.Cart[0].FarmerID == nil || sess.Data.Cart[0].Price.String() != "25.00" {
		t.Fatalf("line should snapshot catalog data: %+v", sess.Data.Cart[0])
	}
}

func TestCartAddRejectsUnknownOrInactiveProducts(t *testing.T) {
	f, repo := newCartFixture(t, config.OrderConfig{})
	sess := &session.Session{ID: "s1"}

	missing := uint(99)
	if _, _, err := f.svc.AddItem(sess, AddCartItemInput{ProductID: &missing}); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}

	product, err := repo.GetByID(1)
	if err != nil || product == nil {
		t.Fatalf("load product failed: %v", err)
	}
	product.Status = constants.ProductStatusInactive
	if err := repo.Update(product); err != nil {
		t.Fatalf("deactivate product failed: %v", err)
	}
	productID := product.ID
	if _, _, err := f.svc.AddItem(sess, AddCartItemInput{ProductID: &productID}); !errors.Is(err, ErrProductUnavailable) {
		t.Fatalf("expected ErrProductUnavailable, got %v", err)
	}
	if len(sess.Data.Cart) != 0 {
		t.Fatalf("rejected adds should leave the cart empty")
	}
}

func TestCartFreeTextLines(t *testing.T) {
	f, _ := newCartFixture(t, config.OrderConfig{})
	sess := &session.Session{ID: "s1"}

	if _, _, err := f.svc.AddItem(sess, AddCartItemInput{Name: "  ", Price: "10"}); !errors.Is(err, ErrCartItemNameRequired) {
		t.Fatalf("expected ErrCartItemNameRequired, got %v", err)
	}
	if _, _, err := f.svc.AddItem(sess, AddCartItemInput{Name: "Jaggery", Price: "-1"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for negative price, got %v", err)
	}
	count, added, err := f.svc.AddItem(sess, AddCartItemInput{Name: "Jaggery", Price: "80", Weight: "1kg"})
	if err != nil || !added || count != 1 {
		t.Fatalf("free text add: count=%d added=%v err=%v", count, added, err)
	}
	if sess.Data.Cart[0].ProductID != nil {
		t.Fatalf("free text line should not reference a product")
	}
}

func TestCartUpdateQuantityAndRemove(t *testing.T) {
	f, _ := newCartFixture(t, config.OrderConfig{MaxLineQuantity: 5})
	sess := &session.Session{ID: "s1"}
	productID := uint(1)
	if _, _, err := f.svc.AddItem(sess, AddCartItemInput{ProductID: &productID}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	key := sess.Data.Cart[0].Key()

	if got := f.svc.UpdateQuantity(sess, key, 3); got != 3 {
		t.Fatalf("update to 3 want count 3 got %d", got)
	}
	if got := f.svc.UpdateQuantity(sess, key, 50); got != 5 {
		t.Fatalf("quantity should be capped at 5, got %d", got)
	}
	if got := f.svc.UpdateQuantity(sess, "name:missing", 4); got != 5 {
		t.Fatalf("unknown key should not change the cart, got %d", got)
	}
	if got := f.svc.UpdateQuantity(sess, key, 0); got != 0 {
		t.Fatalf("zero quantity should remove the line, got %d", got)
	}
	if len(sess.Data.Cart) != 0 {
		t.Fatalf("cart should be empty: %+v", sess.Data.Cart)
	}

	if _, _, err := f.svc.AddItem(sess, AddCartItemInput{Name: "Ghee", Price: "300"}); err != nil {
		t.Fatalf("add free text failed: %v", err)
	}
	if got := f.svc.RemoveItem(sess, sess.Data.Cart[0].Key()); got != 0 {
		t.Fatalf("remove want count 0 got %d", got)
	}
}

func TestCartSummaryAppliesDeliveryRule(t *testing.T) {
	f, _ := newCartFixture(t, config.OrderConfig{})
	sess := &session.Session{ID: "s1"}
	productID := uint(1)
	if _, _, err := f.svc.AddItem(sess, AddCartItemInput{ProductID: &productID}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	f.svc.UpdateQuantity(sess, sess.Data.Cart[0].Key(), 4)

	summary := f.svc.Summary(sess)
	if summary.Count != 4 || summary.Subtotal.String() != "100.00" {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.DeliveryCharges.String() != "40.00" || summary.Total.String() != "140.00" {
		t.Fatalf("delivery charge should apply below threshold: %+v", summary)
	}
	if summary.Items[0].LineTotal.String() != "100.00" {
		t.Fatalf("line total want 100.00 got %s", summary.Items[0].LineTotal)
	}

	f.svc.UpdateQuantity(sess, sess.Data.Cart[0].Key(), 20)
	summary = f.svc.Summary(sess)
	if summary.DeliveryCharges.String() != "0.00" || summary.Total.String() != "500.00" {
		t.Fatalf("delivery should be free at threshold: %+v", summary)
	}

	f.svc.Clear(sess)
	if f.svc.Count(sess) != 0 || sess.Data.LastAdd != nil {
		t.Fatalf("clear should empty cart and reset duplicate marker")
	}
}
