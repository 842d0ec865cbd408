package service

import (
	"strings"

	"github.com/krishi-setu/internal/constants"
	"github.com/krishi-setu/internal/logger"
	"github.com/krishi-setu/internal/models"
	"github.com/krishi-setu/internal/repository"

	"github.com/shopspring/decimal"
)

// ProductService 商品目录服务
type ProductService struct {
	repo repository.ProductRepository
}

// NewProductService 创建商品服务
func NewProductService(repo repository.ProductRepository) *ProductService {
	return &ProductService{repo: repo}
}

// ProductInput 农户创建/更新商品输入
type ProductInput struct {
	Name          string
	Category      string
	Price         string
	OriginalPrice string
	Stock         int
	Unit          string
	Image         string
	Description   string
	Status        string // 可选：active / inactive
}

// ProductQuery 公开商品查询条件
type ProductQuery struct {
	Page       int
	PageSize   int
	Category   string
	Search     string
	MinPrice   string
	MaxPrice   string
	FarmerName string
	InStock    bool
	SortBy     string
}

var validCategories = map[string]bool{
	constants.CategoryFruits:     true,
	constants.CategoryVegetables: true,
	constants.CategoryDairy:      true,
	constants.CategoryPulses:     true,
	constants.CategoryPickles:    true,
	constants.CategoryMasala:     true,
	constants.CategoryGrains:     true,
}

var validUnits = map[string]bool{
	constants.UnitKg:      true,
	constants.UnitLiter:   true,
	constants.UnitPiece:   true,
	constants.UnitGram:    true,
	constants.Unit100Gram: true,
}

var validProductStatuses = map[string]bool{
	constants.ProductStatusActive:     true,
	constants.ProductStatusInactive:   true,
	constants.ProductStatusOutOfStock: true,
}

// ListPublic 公开商品列表，仅返回上架商品
func (s *ProductService) ListPublic(query ProductQuery) ([]models.Product, int64, error) {
	filter := repository.ProductListFilter{
		Page:       query.Page,
		PageSize:   query.PageSize,
		Category:   query.Category,
		Search:     query.Search,
		FarmerName: query.FarmerName,
		InStock:    query.InStock,
		OnlyActive: true,
		SortBy:     query.SortBy,
	}
	if v, ok := parseOptionalDecimal(query.MinPrice); ok {
		filter.MinPrice = &v
	}
	if v, ok := parseOptionalDecimal(query.MaxPrice); ok {
		filter.MaxPrice = &v
	}
	return s.repo.List(filter)
}

// GetPublic 公开商品详情，手动下架的商品不可见
func (s *ProductService) GetPublic(id uint) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil || product.Status == constants.ProductStatusInactive {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// ListMine 农户自己的商品
func (s *ProductService) ListMine(farmerID uint) ([]models.Product, error) {
	return s.repo.ListByFarmer(farmerID)
}

// Create 农户发布商品
func (s *ProductService) Create(farmer *models.User, input ProductInput) (*models.Product, error) {
	if farmer == nil {
		return nil, ErrForbidden
	}
	product := &models.Product{
		FarmerID:   farmer.ID,
		FarmerName: farmer.Name,
		Status:     constants.ProductStatusActive,
	}
	if err := applyProductInput(product, input); err != nil {
		return nil, err
	}
	if err := s.repo.Create(product); err != nil {
		return nil, err
	}
	logger.Infow("product_created", "product_id", product.ID, "farmer_id", farmer.ID, "name", product.Name)
	return product, nil
}

// Update 更新商品，仅商品所属农户可操作
func (s *ProductService) Update(id, farmerID uint, input ProductInput) (*models.Product, error) {
	product, err := s.ownedProduct(id, farmerID)
	if err != nil {
		return nil, err
	}
	if err := applyProductInput(product, input); err != nil {
		return nil, err
	}
	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete 删除商品，仅商品所属农户可操作
func (s *ProductService) Delete(id, farmerID uint) error {
	if _, err := s.ownedProduct(id, farmerID); err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	logger.Infow("product_deleted", "product_id", id, "farmer_id", farmerID)
	return nil
}

// AdminList 管理端商品列表
func (s *ProductService) AdminList(page, pageSize int, status, category, search string) ([]models.Product, int64, error) {
	return s.repo.List(repository.ProductListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   strings.TrimSpace(status),
		Category: category,
		Search:   search,
	})
}

// AdminSetStatus 管理员修改商品状态；库存为 0 的商品始终保持缺货
func (s *ProductService) AdminSetStatus(id uint, status string) (*models.Product, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if !validProductStatuses[status] {
		return nil, ErrProductStatusInvalid
	}
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if err := s.repo.UpdateStatus(id, status); err != nil {
		return nil, err
	}
	return s.repo.GetByID(id)
}

// AdminDelete 管理员删除商品
func (s *ProductService) AdminDelete(id uint) error {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}
	return s.repo.Delete(id)
}

func (s *ProductService) ownedProduct(id, farmerID uint) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if product.FarmerID != farmerID {
		return nil, ErrProductForbidden
	}
	return product, nil
}

func applyProductInput(product *models.Product, input ProductInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return ErrProductInvalid
	}
	category := strings.ToLower(strings.TrimSpace(input.Category))
	if !validCategories[category] {
		return ErrCategoryInvalid
	}
	price, err := decimal.NewFromString(strings.TrimSpace(input.Price))
	if err != nil || price.IsNegative() {
		return ErrProductInvalid
	}
	originalPrice := price
	if raw := strings.TrimSpace(input.OriginalPrice); raw != "" {
		originalPrice, err = decimal.NewFromString(raw)
		if err != nil || originalPrice.IsNegative() {
			return ErrProductInvalid
		}
	}
	if input.Stock < 0 {
		return ErrProductInvalid
	}
	unit := strings.ToLower(strings.TrimSpace(input.Unit))
	if unit == "" {
		unit = constants.UnitKg
	}
	if !validUnits[unit] {
		return ErrProductInvalid
	}
	switch status := strings.ToLower(strings.TrimSpace(input.Status)); status {
	case "":
	case constants.ProductStatusActive, constants.ProductStatusInactive:
		product.Status = status
	default:
		return ErrProductStatusInvalid
	}

	product.Name = name
	product.Category = category
	product.Price = models.NewMoneyFromDecimal(price)
	product.OriginalPrice = models.NewMoneyFromDecimal(originalPrice)
	product.Stock = input.Stock
	product.Unit = unit
	product.Image = strings.TrimSpace(input.Image)
	product.Description = strings.TrimSpace(input.Description)
	return nil
}

func parseOptionalDecimal(raw string) (decimal.Decimal, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, false
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false
	}
	return v, true
}
