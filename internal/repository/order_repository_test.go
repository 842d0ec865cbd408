package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/krishi-setu/internal/constants"
	"github.com/krishi-setu/internal/models"

	"gorm.io/gorm"
)

func createRepoTestOrder(t *testing.T, repo *GormOrderRepository, number string, userID uint, items []models.OrderItem, status string) *models.Order {
	t.Helper()
	now := time.Now()
	order := &models.Order{
		OrderNumber:           number,
		UserID:                userID,
		UserName:              fmt.Sprintf("user-%d", userID),
		Subtotal:              models.MustMoney("96"),
		DeliveryCharges:       models.MustMoney("40"),
		TotalAmount:           models.MustMoney("136"),
		Status:                status,
		PaymentMethod:         constants.PaymentMethodCOD,
		PaymentStatus:         constants.PaymentStatusPending,
		OrderDate:             now,
		EstimatedDeliveryDate: now.AddDate(0, 0, 7),
	}
	history := models.OrderStatusHistory{
		Status:    status,
		UpdatedBy: constants.HistoryActorSystem,
		Note:      "Order placed successfully",
		Timestamp: now,
	}
	if err := repo.Create(order, items, history); err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}

func uintPtr(v uint) *uint {
	return &v
}

func TestOrderCreateAndGetWithDetails(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo := NewOrderRepository(db)
	order := createRepoTestOrder(t, repo, "ORD1", 7, []models.OrderItem{
		{ProductID: uintPtr(1), Name: "Tomato", Price: models.MustMoney("24"), Quantity: 2},
		{Name: "Onion", Price: models.MustMoney("16"), Quantity: 3},
	}, constants.OrderStatusPending)

	got, err := repo.GetByIDAndUser(order.ID, 7)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if got == nil {
		t.Fatalf("expected order")
	}
	if len(got.Items) != 2 || len(got.StatusHistory) != 1 {
		t.Fatalf("unexpected details: items=%d history=%d", len(got.Items), len(got.StatusHistory))
	}
	if got.StatusHistory[0].Note != "Order placed successfully" {
		t.Fatalf("unexpected history note: %s", got.StatusHistory[0].Note)
	}

	other, err := repo.GetByIDAndUser(order.ID, 8)
	if err != nil {
		t.Fatalf("get foreign order failed: %v", err)
	}
	if other != nil {
		t.Fatalf("other user must not see the order")
	}
}

func TestOrderListForFarmerMatchesByIDAndLegacyName(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo := NewOrderRepository(db)
	createRepoTestOrder(t, repo, "ORD-A", 1, []models.OrderItem{
		{ProductID: uintPtr(10), Name: "Tomato", Price: models.MustMoney("24"), Quantity: 1},
	}, constants.OrderStatusPending)
	createRepoTestOrder(t, repo, "ORD-B", 1, []models.OrderItem{
		{Name: "Tomato", Price: models.MustMoney("24"), Quantity: 1},
	}, constants.OrderStatusPending)
	createRepoTestOrder(t, repo, "ORD-C", 2, []models.OrderItem{
		{ProductID: uintPtr(11), Name: "Tomato", Price: models.MustMoney("30"), Quantity: 1},
	}, constants.OrderStatusPending)

	orders, total, err := repo.ListForFarmer(FarmerOrderFilter{
		ProductIDs:   []uint{10},
		ProductNames: []string{"Tomato"},
	})
	if err != nil {
		t.Fatalf("list farmer orders failed: %v", err)
	}
	if total != 2 {
		t.Fatalf("farmer orders want 2 got %d", total)
	}
	for _, order := range orders {
		if order.OrderNumber == "ORD-C" {
			t.Fatalf("another farmer's product with the same name must not match")
		}
	}

	orders, total, err = repo.ListForFarmer(FarmerOrderFilter{})
	if err != nil {
		t.Fatalf("empty filter failed: %v", err)
	}
	if total != 0 || len(orders) != 0 {
		t.Fatalf("empty filter should return nothing")
	}
}

func TestOrderRevenueAndStatusCounts(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo := NewOrderRepository(db)
	createRepoTestOrder(t, repo, "ORD-1", 1, nil, constants.OrderStatusDelivered)
	createRepoTestOrder(t, repo, "ORD-2", 1, nil, constants.OrderStatusDelivered)
	createRepoTestOrder(t, repo, "ORD-3", 2, nil, constants.OrderStatusPending)

	summary, err := repo.SumRevenue([]string{constants.OrderStatusDelivered}, nil, nil)
	if err != nil {
		t.Fatalf("sum revenue failed: %v", err)
	}
	if summary.OrderCount != 2 || summary.Revenue.String() != "272" {
		t.Fatalf("unexpected revenue summary: %+v", summary)
	}

	counts, err := repo.CountByStatus()
	if err != nil {
		t.Fatalf("count by status failed: %v", err)
	}
	if len(counts) != 2 {
		t.Fatalf("status groups want 2 got %d", len(counts))
	}

	spent, err := repo.SumTotalByUser(1, nil)
	if err != nil {
		t.Fatalf("sum by user failed: %v", err)
	}
	if spent.String() != "272" {
		t.Fatalf("spent want 272 got %s", spent.String())
	}
}

func TestOrderSequenceNextIsUnique(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo := NewOrderSequenceRepository(db)

	first, err := repo.Next(constants.OrderSequenceName)
	if err != nil {
		t.Fatalf("next sequence failed: %v", err)
	}
	if first != 1 {
		t.Fatalf("first value want 1 got %d", first)
	}

	seen := map[int64]bool{first: true}
	prev := first
	for i := 0; i < 20; i++ {
		var value int64
		err := db.Transaction(func(tx *gorm.DB) error {
			v, err := repo.WithTx(tx).Next(constants.OrderSequenceName)
			value = v
			return err
		})
		if err != nil {
			t.Fatalf("next sequence in tx failed: %v", err)
		}
		if seen[value] || value <= prev {
			t.Fatalf("sequence value %d not strictly increasing after %d", value, prev)
		}
		seen[value] = true
		prev = value
	}

	other, err := repo.Next("other")
	if err != nil {
		t.Fatalf("next other sequence failed: %v", err)
	}
	if other != 1 {
		t.Fatalf("independent sequence want 1 got %d", other)
	}
}
