package models

import (
	"time"
)

// DeliveryAddress 收货地址快照
type DeliveryAddress struct {
	FullName string `gorm:"not null;default:''" json:"full_name" binding:"required"`
	Phone    string `gorm:"not null;default:''" json:"phone" binding:"required,phone_in"`
	Address  string `gorm:"type:text" json:"address" binding:"required"`
	Landmark string `gorm:"default:''" json:"landmark"`
	City     string `gorm:"not null;default:''" json:"city" binding:"required"`
	State    string `gorm:"not null;default:''" json:"state" binding:"required"`
	Pincode  string `gorm:"not null;default:''" json:"pincode" binding:"required,pincode"`
	Type     string `gorm:"not null;default:'home'" json:"type" binding:"omitempty,oneof=home work other"`
}

// OrderRating 订单评价
type OrderRating struct {
	Score   int        `gorm:"not null;default:0" json:"score"`
	Review  string     `gorm:"type:text" json:"review"`
	RatedAt *time.Time `json:"rated_at"`
}

// Order 订单表
type Order struct {
	ID                    uint            `gorm:"primarykey" json:"id"`                                                // 主键
	OrderNumber           string          `gorm:"uniqueIndex;not null" json:"order_number"`                            // 订单编号
	UserID                uint            `gorm:"index;not null" json:"user_id"`                                       // 下单用户
	UserName              string          `gorm:"index;default:''" json:"user_name"`                                   // 用户名称快照
	UserEmail             string          `gorm:"default:''" json:"user_email"`                                        // 用户邮箱快照
	Subtotal              Money           `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"`               // 商品小计
	DeliveryCharges       Money           `gorm:"type:decimal(20,2);not null;default:0" json:"delivery_charges"`       // 配送费
	Discount              Money           `gorm:"type:decimal(20,2);not null;default:0" json:"discount"`               // 优惠金额
	TotalAmount           Money           `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"`           // 应付总额
	Status                string          `gorm:"index;not null" json:"status"`                                        // 订单状态
	DeliveryAddress       DeliveryAddress `gorm:"embedded;embeddedPrefix:delivery_" json:"delivery_address"`           // 收货地址
	PaymentMethod         string          `gorm:"not null;default:'cod'" json:"payment_method"`                        // 支付方式
	PaymentStatus         string          `gorm:"not null;default:'pending'" json:"payment_status"`                    // 支付状态
	SpecialInstructions   string          `gorm:"type:text" json:"special_instructions"`                               // 备注
	FarmerID              *uint           `gorm:"index" json:"farmer_id,omitempty"`                                    // 代表农户（多农户订单只记录首个）
	FarmerName            string          `gorm:"default:''" json:"farmer_name,omitempty"`                             // 代表农户名称
	TrackingNumber        string          `gorm:"default:''" json:"tracking_number,omitempty"`                         // 物流单号
	OrderDate             time.Time       `gorm:"index;not null" json:"order_date"`                                    // 下单时间
	EstimatedDeliveryDate time.Time       `json:"estimated_delivery_date"`                                             // 预计送达
	DeliveryDate          *time.Time      `json:"delivery_date"`                                                       // 实际送达（首次进入 delivered 时写入）
	Rating                OrderRating     `gorm:"embedded;embeddedPrefix:rating_" json:"rating"`                       // 评价
	CustomerNotified      bool            `gorm:"not null;default:false" json:"-"`                                     // 已通知顾客
	FarmerNotified        bool            `gorm:"not null;default:false" json:"-"`                                     // 已通知农户
	CreatedAt             time.Time       `gorm:"index" json:"created_at"`                                             // 创建时间
	UpdatedAt             time.Time       `json:"updated_at"`                                                          // 更新时间

	Items         []OrderItem          `gorm:"foreignKey:OrderID" json:"items,omitempty"`          // 订单项
	StatusHistory []OrderStatusHistory `gorm:"foreignKey:OrderID" json:"status_history,omitempty"` // 状态历史
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
