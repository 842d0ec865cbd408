package repository

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// OrderSequenceRepository 订单号序列接口
type OrderSequenceRepository interface {
	Next(name string) (int64, error)
	WithTx(tx *gorm.DB) OrderSequenceRepository
}

// GormOrderSequenceRepository GORM 实现
type GormOrderSequenceRepository struct {
	db *gorm.DB
}

// NewOrderSequenceRepository 创建订单号序列仓库
func NewOrderSequenceRepository(db *gorm.DB) *GormOrderSequenceRepository {
	return &GormOrderSequenceRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderSequenceRepository) WithTx(tx *gorm.DB) OrderSequenceRepository {
	if tx == nil {
		return r
	}
	return &GormOrderSequenceRepository{db: tx}
}

// Next 原子递增并返回序列值，单条 upsert 语句保证并发下不重复
func (r *GormOrderSequenceRepository) Next(name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("sequence name is required")
	}
	var value int64
	err := r.db.Raw(
		`INSERT INTO order_sequences (name, value, updated_at) VALUES (?, 1, ?)
ON CONFLICT (name) DO UPDATE SET value = order_sequences.value + 1, updated_at = excluded.updated_at
RETURNING value`,
		name, time.Now(),
	).Scan(&value).Error
	if err != nil {
		return 0, err
	}
	if value <= 0 {
		return 0, fmt.Errorf("sequence %s returned invalid value %d", name, value)
	}
	return value, nil
}
