package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/krishi-setu/internal/constants"
	"github.com/krishi-setu/internal/models"

	"gorm.io/gorm"
)

// ProductRepository 商品数据访问接口
type ProductRepository interface {
	List(filter ProductListFilter) ([]models.Product, int64, error)
	GetByID(id uint) (*models.Product, error)
	ListByIDs(ids []uint) ([]models.Product, error)
	ListByFarmer(farmerID uint) ([]models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	UpdateStatus(id uint, status string) error
	Delete(id uint) error
	DecrementStock(id uint, quantity int) (*models.Product, error)
	CountAll() (int64, error)
	CountByStatus(status string) (int64, error)
	WithTx(tx *gorm.DB) ProductRepository
}

// GormProductRepository GORM 实现
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓库
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// WithTx 绑定事务
func (r *GormProductRepository) WithTx(tx *gorm.DB) ProductRepository {
	if tx == nil {
		return r
	}
	return &GormProductRepository{db: tx}
}

// List 商品列表
func (r *GormProductRepository) List(filter ProductListFilter) ([]models.Product, int64, error) {
	query := r.db.Model(&models.Product{})
	if filter.OnlyActive {
		query = query.Where("status = ?", constants.ProductStatusActive)
	} else if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if category := strings.ToLower(strings.TrimSpace(filter.Category)); category != "" {
		query = query.Where("category = ?", category)
	}
	if filter.FarmerID > 0 {
		query = query.Where("farmer_id = ?", filter.FarmerID)
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.InStock {
		query = query.Where("stock > 0")
	}
	query = applyKeywordSearch(query, filter.Search, "name", "description")
	query = applyKeywordSearch(query, filter.FarmerName, "farmer_name")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var products []models.Product
	if err := query.Order(productSortClause(filter.SortBy)).Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func productSortClause(sortBy string) string {
	switch strings.ToLower(strings.TrimSpace(sortBy)) {
	case constants.ProductSortPriceLow:
		return "price ASC, id ASC"
	case constants.ProductSortPriceHigh:
		return "price DESC, id ASC"
	case constants.ProductSortName:
		return "name ASC, id ASC"
	case constants.ProductSortDiscount:
		return "discount DESC, id ASC"
	default:
		return "created_at DESC, id DESC"
	}
}

// GetByID 根据 ID 获取商品
func (r *GormProductRepository) GetByID(id uint) (*models.Product, error) {
	if id == 0 {
		return nil, nil
	}
	var product models.Product
	if err := r.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// ListByIDs 批量获取商品
func (r *GormProductRepository) ListByIDs(ids []uint) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	var products []models.Product
	if err := r.db.Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// ListByFarmer 获取农户的全部商品
func (r *GormProductRepository) ListByFarmer(farmerID uint) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Where("farmer_id = ?", farmerID).Order("created_at DESC, id DESC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Create 创建商品
func (r *GormProductRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

// Update 更新商品（触发库存状态修正）
func (r *GormProductRepository) Update(product *models.Product) error {
	return r.db.Save(product).Error
}

// UpdateStatus 更新商品状态，库存为 0 时仍保持缺货
func (r *GormProductRepository) UpdateStatus(id uint, status string) error {
	product, err := r.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return gorm.ErrRecordNotFound
	}
	product.Status = status
	return r.db.Save(product).Error
}

// Delete 删除商品
func (r *GormProductRepository) Delete(id uint) error {
	return r.db.Delete(&models.Product{}, id).Error
}

// DecrementStock 扣减库存（下限为 0），并在同一条语句内修正库存状态
func (r *GormProductRepository) DecrementStock(id uint, quantity int) (*models.Product, error) {
	if id == 0 {
		return nil, nil
	}
	if quantity <= 0 {
		return r.GetByID(id)
	}
	result := r.db.Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"stock": gorm.Expr("CASE WHEN stock > ? THEN stock - ? ELSE 0 END", quantity, quantity),
			"status": gorm.Expr("CASE WHEN stock <= ? THEN ? WHEN status = ? THEN ? ELSE status END",
				quantity, constants.ProductStatusOutOfStock,
				constants.ProductStatusOutOfStock, constants.ProductStatusActive),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return r.GetByID(id)
}

// CountAll 商品总数
func (r *GormProductRepository) CountAll() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Product{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus 按状态统计商品数
func (r *GormProductRepository) CountByStatus(status string) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Product{}).Where("status = ?", status).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
