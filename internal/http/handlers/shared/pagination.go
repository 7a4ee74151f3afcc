package shared

// 分页参数的兜底值;page_size 超出上限时按上限截断
const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// NormalizePagination 修正非法的 page/page_size 组合后返回可用值。
func NormalizePagination(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}
