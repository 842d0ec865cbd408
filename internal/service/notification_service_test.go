package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/krishi-setu/internal/constants"
	"github.com/krishi-setu/internal/models"
	"github.com/krishi-setu/internal/queue"
	"github.com/krishi-setu/internal/repository"

	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

func setupNotificationServiceTest(t *testing.T) (*NotificationService, *fakeEmailSender, *gorm.DB) {
	t.Helper()
	db := openServiceTestDB(t)
	sender := &fakeEmailSender{}
	svc := NewNotificationService(repository.NewNotificationRepository(db), sender, nil, nil, "Krishi-Setu")
	return svc, sender, db
}

func testOrder(id, userID uint, number, total string) *models.Order {
	return &models.Order{
		ID:          id,
		UserID:      userID,
		OrderNumber: number,
		TotalAmount: models.MustMoney(total),
		Items:       []models.OrderItem{{Name: "Tomato", Quantity: 2}},
	}
}

func TestNotificationOrderPlacedWritesInAppAndEmail(t *testing.T) {
	svc, sender, db := setupNotificationServiceTest(t)
	customer := createServiceTestUser(t, db, "asha@example.com", constants.RoleCustomer, true)
	order := testOrder(5, customer.ID, "ORD17000000000000001", "136")

	if err := svc.OrderPlaced(order, customer); err != nil {
		t.Fatalf("order placed notify failed: %v", err)
	}

	var notification models.Notification
	if err := db.Where("user_id = ?", customer.ID).First(&notification).Error; err != nil {
		t.Fatalf("load notification failed: %v", err)
	}
	if notification.Title != "Order Placed Successfully" {
		t.Fatalf("unexpected title: %s", notification.Title)
	}
	wantMessage := "Your order #ORD17000000000000001 has been placed successfully. Total: ₹136"
	if notification.Message != wantMessage {
		t.Fatalf("unexpected message: %s", notification.Message)
	}
	if notification.Link != "/orders/5" || notification.Channel != constants.NotificationChannelInApp {
		t.Fatalf("unexpected link/channel: %s %s", notification.Link, notification.Channel)
	}
	if notification.EmailStatus != constants.NotificationStatusSent {
		t.Fatalf("email status want sent got %q", notification.EmailStatus)
	}

	sent := sender.Sent()
	if len(sent) != 1 {
		t.Fatalf("emails want 1 got %d", len(sent))
	}
	if sent[0].Subject != "Order Confirmation - Krishi-Setu" || sent[0].To != "asha@example.com" {
		t.Fatalf("unexpected email: %+v", sent[0])
	}
	if !strings.Contains(sent[0].HTML, "ORD17000000000000001") {
		t.Fatalf("email body should contain order number")
	}
}

func TestNotificationEmailFailureKeepsInAppRecord(t *testing.T) {
	svc, sender, db := setupNotificationServiceTest(t)
	sender.fail = true
	farmer := createServiceTestUser(t, db, "ravi@example.com", constants.RoleFarmer, true)
	order := testOrder(9, 1, "ORD1", "250")

	if err := svc.FarmerNewOrder(order, farmer); err != nil {
		t.Fatalf("farmer notify should not fail on email error: %v", err)
	}
	var notification models.Notification
	if err := db.Where("user_id = ?", farmer.ID).First(&notification).Error; err != nil {
		t.Fatalf("in-app notification missing: %v", err)
	}
	if notification.Message != "You have received a new order #ORD1 worth ₹250" {
		t.Fatalf("unexpected message: %s", notification.Message)
	}
	if notification.Link != "/farmer-dashboard?tab=orders" {
		t.Fatalf("unexpected link: %s", notification.Link)
	}
	if notification.EmailStatus != constants.NotificationStatusFailed {
		t.Fatalf("email status want failed got %q", notification.EmailStatus)
	}
}

func TestNotificationRespectsEmailPreference(t *testing.T) {
	svc, sender, db := setupNotificationServiceTest(t)
	customer := createServiceTestUser(t, db, "quiet@example.com", constants.RoleCustomer, false)
	reloaded := &models.User{}
	if err := db.First(reloaded, customer.ID).Error; err != nil {
		t.Fatalf("reload user failed: %v", err)
	}

	if err := svc.OrderStatusUpdate(testOrder(3, customer.ID, "ORD3", "100"), reloaded, constants.OrderStatusShipped); err != nil {
		t.Fatalf("status notify failed: %v", err)
	}
	if len(sender.Sent()) != 0 {
		t.Fatalf("email must not be sent when preference is off")
	}
	list, err := svc.List(customer.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list.Items) != 1 || list.UnreadCount != 1 {
		t.Fatalf("unexpected list: items=%d unread=%d", len(list.Items), list.UnreadCount)
	}
	if list.Items[0].Title != "Order Shipped" {
		t.Fatalf("unexpected title: %s", list.Items[0].Title)
	}
	if list.Items[0].Message != "Order #ORD3: Your order has been shipped and is on its way!" {
		t.Fatalf("unexpected message: %s", list.Items[0].Message)
	}
}

func TestNotificationStatusTitleAndFallbackMessage(t *testing.T) {
	svc, sender, db := setupNotificationServiceTest(t)
	customer := createServiceTestUser(t, db, "c@example.com", constants.RoleCustomer, true)
	order := testOrder(4, customer.ID, "ORD4", "100")
	order.TrackingNumber = "TRK-1"

	if err := svc.OrderStatusUpdate(order, customer, constants.OrderStatusOutForDelivery); err != nil {
		t.Fatalf("status notify failed: %v", err)
	}
	if err := svc.OrderStatusUpdate(order, customer, "returned"); err != nil {
		t.Fatalf("status notify failed: %v", err)
	}

	list, err := svc.List(customer.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	titles := map[string]string{}
	for _, item := range list.Items {
		titles[item.Title] = item.Message
	}
	if _, ok := titles["Order Out_for_delivery"]; !ok {
		t.Fatalf("missing out_for_delivery title: %+v", titles)
	}
	if titles["Order Returned"] != "Order #ORD4: Status updated" {
		t.Fatalf("unexpected fallback message: %+v", titles)
	}

	sent := sender.Sent()
	if len(sent) != 2 || sent[0].Subject != "Order Update - ORD4" {
		t.Fatalf("unexpected emails: %+v", sent)
	}
	if !strings.Contains(sent[0].HTML, "out for delivery") || !strings.Contains(sent[0].HTML, "TRK-1") {
		t.Fatalf("status email should carry label and tracking number")
	}
}

func TestNotificationLowStockIsInAppOnly(t *testing.T) {
	svc, sender, db := setupNotificationServiceTest(t)
	farmer := createServiceTestUser(t, db, "farm@example.com", constants.RoleFarmer, true)
	product := createServiceTestProduct(t, db, farmer, "Tomato", "24", 3)

	if err := svc.LowStock(product, farmer); err != nil {
		t.Fatalf("low stock notify failed: %v", err)
	}
	if len(sender.Sent()) != 0 {
		t.Fatalf("low stock alert must not send email")
	}
	list, err := svc.List(farmer.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list.Items) != 1 {
		t.Fatalf("want 1 notification got %d", len(list.Items))
	}
	item := list.Items[0]
	if item.Type != constants.NotificationTypeLowStock || item.Message != "Tomato is running low on stock. Current stock: 3 kg" {
		t.Fatalf("unexpected low stock notification: %+v", item)
	}
}

func TestNotificationMarkReadScopedToOwner(t *testing.T) {
	svc, _, db := setupNotificationServiceTest(t)
	owner := createServiceTestUser(t, db, "owner@example.com", constants.RoleCustomer, false)
	other := createServiceTestUser(t, db, "other@example.com", constants.RoleCustomer, false)
	if err := svc.OrderStatusUpdate(testOrder(1, owner.ID, "ORD1", "10"), nil, constants.OrderStatusConfirmed); err != nil {
		t.Fatalf("notify failed: %v", err)
	}
	list, err := svc.List(owner.ID)
	if err != nil || len(list.Items) != 1 {
		t.Fatalf("list failed: %v", err)
	}
	id := list.Items[0].ID

	if err := svc.MarkRead(id, other.ID); !errors.Is(err, ErrNotificationNotFound) {
		t.Fatalf("foreign mark read want ErrNotificationNotFound got %v", err)
	}
	if err := svc.MarkRead(id, owner.ID); err != nil {
		t.Fatalf("mark read failed: %v", err)
	}
	count, err := svc.UnreadCount(owner.ID)
	if err != nil || count != 0 {
		t.Fatalf("unread want 0 got %d (%v)", count, err)
	}
	if err := svc.MarkRead(999, owner.ID); !errors.Is(err, ErrNotificationNotFound) {
		t.Fatalf("missing id want ErrNotificationNotFound got %v", err)
	}
}

type fakeEmailQueue struct {
	payloads []queue.NotificationEmailPayload
	err      error
}

func (q *fakeEmailQueue) Enabled() bool { return true }

func (q *fakeEmailQueue) EnqueueNotificationEmail(payload queue.NotificationEmailPayload, _ ...asynq.Option) error {
	q.payloads = append(q.payloads, payload)
	return q.err
}

func TestNotificationEmailChannelDisabledLeavesNoStatus(t *testing.T) {
	db := openServiceTestDB(t)
	svc := NewNotificationService(repository.NewNotificationRepository(db), nil, nil, nil, "Krishi-Setu")
	customer := createServiceTestUser(t, db, "asha@example.com", constants.RoleCustomer, true)

	if err := svc.OrderPlaced(testOrder(5, customer.ID, "ORD5", "136"), customer); err != nil {
		t.Fatalf("order placed notify failed: %v", err)
	}
	var notification models.Notification
	if err := db.Where("user_id = ?", customer.ID).First(&notification).Error; err != nil {
		t.Fatalf("in-app notification missing: %v", err)
	}
	if notification.EmailStatus != "" {
		t.Fatalf("email status should stay empty without a mail channel, got %q", notification.EmailStatus)
	}
}

func TestNotificationQueuedEmailStatus(t *testing.T) {
	db := openServiceTestDB(t)
	emailQueue := &fakeEmailQueue{}
	svc := NewNotificationService(repository.NewNotificationRepository(db), nil, emailQueue, nil, "Krishi-Setu")
	customer := createServiceTestUser(t, db, "asha@example.com", constants.RoleCustomer, true)

	if err := svc.OrderPlaced(testOrder(5, customer.ID, "ORD5", "136"), customer); err != nil {
		t.Fatalf("order placed notify failed: %v", err)
	}
	if len(emailQueue.payloads) != 1 || emailQueue.payloads[0].NotificationID == 0 {
		t.Fatalf("email should be queued with notification id: %+v", emailQueue.payloads)
	}
	var queued models.Notification
	if err := db.First(&queued, emailQueue.payloads[0].NotificationID).Error; err != nil {
		t.Fatalf("load notification failed: %v", err)
	}
	if queued.EmailStatus != constants.NotificationStatusPending {
		t.Fatalf("queued email status want pending got %q", queued.EmailStatus)
	}

	emailQueue.err = errors.New("redis down")
	if err := svc.OrderStatusUpdate(testOrder(5, customer.ID, "ORD5", "136"), customer, constants.OrderStatusConfirmed); err != nil {
		t.Fatalf("status notify should not fail on enqueue error: %v", err)
	}
	var failed models.Notification
	if err := db.First(&failed, emailQueue.payloads[1].NotificationID).Error; err != nil {
		t.Fatalf("load notification failed: %v", err)
	}
	if failed.EmailStatus != constants.NotificationStatusFailed {
		t.Fatalf("enqueue failure status want failed got %q", failed.EmailStatus)
	}
}
