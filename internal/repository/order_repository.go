package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/krishi-setu/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderRepository 订单数据访问接口
type OrderRepository interface {
	Create(order *models.Order, items []models.OrderItem, history models.OrderStatusHistory) error
	GetByID(id uint) (*models.Order, error)
	GetByIDAndUser(id uint, userID uint) (*models.Order, error)
	ListByUser(filter OrderListFilter) ([]models.Order, int64, error)
	ListAdmin(filter OrderListFilter) ([]models.Order, int64, error)
	ListForFarmer(filter FarmerOrderFilter) ([]models.Order, int64, error)
	Update(order *models.Order) error
	AppendHistory(entry *models.OrderStatusHistory) error
	MarkNotified(id uint, customer, farmer bool) error
	CountAll() (int64, error)
	CountByStatus() ([]StatusCount, error)
	CountByUser(userID uint) (int64, error)
	SumTotalByUser(userID uint, statuses []string) (decimal.Decimal, error)
	SumRevenue(statuses []string, from, to *time.Time) (RevenueSummary, error)
	WithTx(tx *gorm.DB) OrderRepository
}

// GormOrderRepository GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderRepository) WithTx(tx *gorm.DB) OrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

func (r *GormOrderRepository) withDetails(query *gorm.DB) *gorm.DB {
	return query.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	}).Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
		return db.Order("timestamp ASC, id ASC")
	})
}

// Create 创建订单、订单项与首条状态历史
func (r *GormOrderRepository) Create(order *models.Order, items []models.OrderItem, history models.OrderStatusHistory) error {
	if err := r.db.Omit(clause.Associations).Create(order).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].OrderID = order.ID
	}
	if len(items) > 0 {
		if err := r.db.Create(&items).Error; err != nil {
			return err
		}
	}
	history.OrderID = order.ID
	if err := r.db.Create(&history).Error; err != nil {
		return err
	}
	order.Items = items
	order.StatusHistory = []models.OrderStatusHistory{history}
	return nil
}

// GetByID 根据 ID 获取订单
func (r *GormOrderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	if err := r.withDetails(r.db).First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByIDAndUser 获取用户自己的订单
func (r *GormOrderRepository) GetByIDAndUser(id uint, userID uint) (*models.Order, error) {
	var order models.Order
	if err := r.withDetails(r.db).Where("id = ? AND user_id = ?", id, userID).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// ListByUser 用户订单列表
func (r *GormOrderRepository) ListByUser(filter OrderListFilter) ([]models.Order, int64, error) {
	query := r.db.Model(&models.Order{}).Where("user_id = ?", filter.UserID)
	return r.list(query, filter)
}

// ListAdmin 管理端订单列表
func (r *GormOrderRepository) ListAdmin(filter OrderListFilter) ([]models.Order, int64, error) {
	query := r.db.Model(&models.Order{})
	if filter.UserID > 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	return r.list(query, filter)
}

func (r *GormOrderRepository) list(query *gorm.DB, filter OrderListFilter) ([]models.Order, int64, error) {
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	query = applyKeywordSearch(query, filter.Search, "order_number", "user_name")
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var orders []models.Order
	if err := r.withDetails(query).Order("created_at DESC, id DESC").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// ListForFarmer 包含指定商品的订单
func (r *GormOrderRepository) ListForFarmer(filter FarmerOrderFilter) ([]models.Order, int64, error) {
	if len(filter.ProductIDs) == 0 && len(filter.ProductNames) == 0 {
		return []models.Order{}, 0, nil
	}
	items := r.db.Model(&models.OrderItem{}).Select("order_id")
	switch {
	case len(filter.ProductIDs) > 0 && len(filter.ProductNames) > 0:
		items = items.Where("product_id IN ? OR (product_id IS NULL AND name IN ?)", filter.ProductIDs, filter.ProductNames)
	case len(filter.ProductIDs) > 0:
		items = items.Where("product_id IN ?", filter.ProductIDs)
	default:
		items = items.Where("product_id IS NULL AND name IN ?", filter.ProductNames)
	}

	query := r.db.Model(&models.Order{}).Where("id IN (?)", items)
	return r.list(query, OrderListFilter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Status:   filter.Status,
	})
}

// Update 更新订单主记录（不写关联）
func (r *GormOrderRepository) Update(order *models.Order) error {
	return r.db.Omit(clause.Associations).Save(order).Error
}

// MarkNotified 记录下单通知已送达的一方，只写为 true 的标记
func (r *GormOrderRepository) MarkNotified(id uint, customer, farmer bool) error {
	updates := map[string]interface{}{}
	if customer {
		updates["customer_notified"] = true
	}
	if farmer {
		updates["farmer_notified"] = true
	}
	if len(updates) == 0 {
		return nil
	}
	return r.db.Model(&models.Order{}).Where("id = ?", id).Updates(updates).Error
}

// AppendHistory 追加状态历史
func (r *GormOrderRepository) AppendHistory(entry *models.OrderStatusHistory) error {
	return r.db.Create(entry).Error
}

// CountAll 订单总数
func (r *GormOrderRepository) CountAll() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Order{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus 按状态统计订单数
func (r *GormOrderRepository) CountByStatus() ([]StatusCount, error) {
	var rows []StatusCount
	if err := r.db.Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Order("status ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CountByUser 用户订单数
func (r *GormOrderRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Order{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumTotalByUser 用户指定状态订单金额合计
func (r *GormOrderRepository) SumTotalByUser(userID uint, statuses []string) (decimal.Decimal, error) {
	query := r.db.Model(&models.Order{}).Where("user_id = ?", userID)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	var total decimal.NullDecimal
	if err := query.Select("SUM(total_amount)").Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal.Round(2), nil
}

// SumRevenue 统计时间窗口内指定状态订单的营收
func (r *GormOrderRepository) SumRevenue(statuses []string, from, to *time.Time) (RevenueSummary, error) {
	query := r.db.Model(&models.Order{})
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	if from != nil {
		query = query.Where("order_date >= ?", *from)
	}
	if to != nil {
		query = query.Where("order_date <= ?", *to)
	}
	var row struct {
		Revenue    decimal.NullDecimal
		OrderCount int64
	}
	if err := query.Select("SUM(total_amount) AS revenue, COUNT(*) AS order_count").Scan(&row).Error; err != nil {
		return RevenueSummary{}, err
	}
	summary := RevenueSummary{Revenue: decimal.Zero, OrderCount: row.OrderCount}
	if row.Revenue.Valid {
		summary.Revenue = row.Revenue.Decimal.Round(2)
	}
	return summary, nil
}
