package utils

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Pagination 分页参数，来自 ?page=&limit=
type Pagination struct {
	Page  int `json:"page" form:"page"`
	Limit int `json:"limit" form:"limit"`
}

// PageResult 分页结果，Pages 为总页数
type PageResult struct {
	List  interface{} `json:"list"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
	Pages int64       `json:"pages"`
}

// GetPageOffset 规范化页码与页大小并返回 offset、limit
// page 小于 1 取第一页，limit 缺省 DefaultPageSize，上限 MaxPageSize
func (p *Pagination) GetPageOffset() (int, int) {
	if p.Page <= 0 {
		p.Page = 1
	}
	switch {
	case p.Limit <= 0:
		p.Limit = DefaultPageSize
	case p.Limit > MaxPageSize:
		p.Limit = MaxPageSize
	}
	return (p.Page - 1) * p.Limit, p.Limit
}

// NewPageResult 按已规范化的分页参数组装结果
func NewPageResult(list interface{}, total int64, p Pagination) *PageResult {
	var pages int64
	if p.Limit > 0 {
		pages = (total + int64(p.Limit) - 1) / int64(p.Limit)
	}
	return &PageResult{List: list, Total: total, Page: p.Page, Limit: p.Limit, Pages: pages}
}
