package models

import (
	"time"
)

// Notification 站内通知表
type Notification struct {
	ID             uint       `gorm:"primarykey" json:"id"`                           // 主键
	UserID         uint       `gorm:"index;not null" json:"user_id"`                  // 接收用户
	Type           string     `gorm:"index;not null" json:"type"`                     // 通知类型
	Title          string     `gorm:"not null" json:"title"`                          // 标题
	Message        string     `gorm:"type:text;not null" json:"message"`              // 内容
	Link           string     `gorm:"default:''" json:"link,omitempty"`               // 跳转链接
	OrderID        *uint      `gorm:"index" json:"order_id,omitempty"`                // 关联订单
	ProductID      *uint      `gorm:"index" json:"product_id,omitempty"`              // 关联商品
	Read           bool       `gorm:"index;not null;default:false" json:"read"`       // 是否已读
	ReadAt         *time.Time `json:"read_at"`                                        // 已读时间
	Channel        string     `gorm:"not null;default:'in_app'" json:"channel"`       // 投递渠道
	DeliveryStatus string     `gorm:"not null;default:'pending'" json:"status"`       // 投递状态
	EmailStatus    string     `gorm:"default:''" json:"email_status,omitempty"`       // 邮件投递状态（未发送为空）
	SentAt         *time.Time `json:"sent_at"`                                        // 发送时间
	CreatedAt      time.Time  `gorm:"index" json:"created_at"`                        // 创建时间
	UpdatedAt      time.Time  `json:"updated_at"`                                     // 更新时间
}

// TableName 指定表名
func (Notification) TableName() string {
	return "notifications"
}
