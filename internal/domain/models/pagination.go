package models

import "math"

const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

// PaginationQuery 分页请求参数
type PaginationQuery struct {
	Page  int `form:"page" json:"page"`
	Limit int `form:"limit" json:"limit"`
}

// Normalize 将缺失或非法的分页参数回退为默认值
func (q PaginationQuery) Normalize() PaginationQuery {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultPageSize
	}
	return q
}

// Offset 当前页需要跳过的记录数，溢出时取 math.MaxInt
func (q PaginationQuery) Offset() int {
	if q.Page <= 1 || q.Limit < 1 {
		return 0
	}
	if q.Page-1 > math.MaxInt/q.Limit {
		return math.MaxInt
	}
	return (q.Page - 1) * q.Limit
}

// PastEnd 当前页是否已超出 total 条记录
func (q PaginationQuery) PastEnd(total int64) bool {
	return int64(q.Offset()) >= total
}

// PaginationResult 分页结果
type PaginationResult struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// NewPaginationResult 创建一个新的分页结果对象
func NewPaginationResult(total int64, page, limit int) PaginationResult {
	pages := 0
	if limit > 0 {
		pages = int(math.Ceil(float64(total) / float64(limit)))
	}
	return PaginationResult{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: pages,
	}
}
