package models

import (
	"time"
)

// OrderItem 订单项表，创建后不再修改
type OrderItem struct {
	ID         uint      `gorm:"primarykey" json:"id"`                                    // 主键
	OrderID    uint      `gorm:"index;not null" json:"order_id"`                          // 订单ID
	ProductID  *uint     `gorm:"index" json:"product_id"`                                 // 商品ID（旧版自由文本商品为空）
	FarmerID   *uint     `gorm:"index" json:"farmer_id,omitempty"`                        // 该行商品所属农户
	Name       string    `gorm:"index;not null" json:"name"`                              // 商品名称快照
	Price      Money     `gorm:"type:decimal(20,2);not null;default:0" json:"price"`      // 单价快照
	Quantity   int       `gorm:"not null" json:"quantity"`                                // 数量
	TotalPrice Money     `gorm:"type:decimal(20,2);not null;default:0" json:"total_price"` // 小计
	Weight     string    `gorm:"default:''" json:"weight"`                                // 规格/单位
	Image      string    `gorm:"default:''" json:"image"`                                 // 图片快照
	Category   string    `gorm:"default:''" json:"category"`                              // 分类快照
	CreatedAt  time.Time `json:"created_at"`                                              // 创建时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}

// OrderStatusHistory 订单状态历史
type OrderStatusHistory struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	OrderID   uint      `gorm:"index;not null" json:"order_id"`
	Status    string    `gorm:"not null" json:"status"`
	UpdatedBy string    `gorm:"not null;default:'system'" json:"updated_by"` // 操作人：system 或 role:user_id
	Note      string    `gorm:"type:text" json:"note"`
	Timestamp time.Time `gorm:"index;not null" json:"timestamp"`
}

// TableName 指定表名
func (OrderStatusHistory) TableName() string {
	return "order_status_histories"
}

// OrderSequence 订单号序列（原子自增计数器）
type OrderSequence struct {
	Name      string    `gorm:"primarykey;size:64" json:"name"`
	Value     int64     `gorm:"not null;default:0" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 指定表名
func (OrderSequence) TableName() string {
	return "order_sequences"
}
