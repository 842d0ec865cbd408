package repository

import "gorm.io/gorm"

// maxPageSize 单页记录上限
const maxPageSize = 100

// applyPagination 应用分页参数，页码非法时回落到第一页，单页条数不超过 maxPageSize。
func applyPagination(query *gorm.DB, page, pageSize int) *gorm.DB {
	if query == nil || pageSize <= 0 {
		return query
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	if page < 1 {
		page = 1
	}
	return query.Limit(pageSize).Offset((page - 1) * pageSize)
}
