package models

import (
	"time"

	"github.com/krishi-setu/internal/constants"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID            uint      `gorm:"primarykey" json:"id"`                                         // 主键
	Name          string    `gorm:"index;not null" json:"name"`                                   // 商品名称
	Category      string    `gorm:"index;not null" json:"category"`                               // 分类
	Price         Money     `gorm:"type:decimal(20,2);not null;default:0" json:"price"`           // 售价
	OriginalPrice Money     `gorm:"type:decimal(20,2);not null;default:0" json:"original_price"`  // 原价
	Discount      int       `gorm:"not null;default:0" json:"discount"`                           // 折扣百分比（派生）
	Stock         int       `gorm:"not null;default:0" json:"stock"`                              // 库存
	Unit          string    `gorm:"not null;default:'kg'" json:"unit"`                            // 计量单位
	Image         string    `gorm:"default:''" json:"image"`                                      // 图片路径
	Description   string    `gorm:"type:text" json:"description"`                                 // 描述
	FarmerID      uint      `gorm:"index;not null" json:"farmer_id"`                              // 所属农户
	FarmerName    string    `gorm:"index;default:''" json:"farmer_name"`                          // 农户名称（冗余）
	Status        string    `gorm:"index;not null;default:'active'" json:"status"`                // 状态
	CreatedAt     time.Time `gorm:"index" json:"created_at"`                                      // 创建时间
	UpdatedAt     time.Time `json:"updated_at"`                                                   // 更新时间
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// BeforeSave 写入前修正库存状态与折扣
func (p *Product) BeforeSave(_ *gorm.DB) error {
	p.ApplyStockStatus()
	p.Discount = CalcDiscount(p.OriginalPrice, p.Price)
	if p.Image == "" {
		p.Image = constants.DefaultProductImage
	}
	return nil
}

// ApplyStockStatus 按库存修正状态：库存为 0 即缺货，缺货商品补货后恢复上架，手动下架保持不变
func (p *Product) ApplyStockStatus() {
	if p.Stock < 0 {
		p.Stock = 0
	}
	if p.Stock == 0 {
		p.Status = constants.ProductStatusOutOfStock
		return
	}
	if p.Status == constants.ProductStatusOutOfStock || p.Status == "" {
		p.Status = constants.ProductStatusActive
	}
}

// CalcDiscount 计算折扣百分比 round((原价-售价)/原价*100)
func CalcDiscount(originalPrice, price Money) int {
	if !originalPrice.IsPositive() || originalPrice.LessThanOrEqual(price.Decimal) {
		return 0
	}
	pct := originalPrice.Sub(price.Decimal).Div(originalPrice.Decimal).Mul(decimal.NewFromInt(100))
	return int(pct.Round(0).IntPart())
}
