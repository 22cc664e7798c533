package consult

// Page описывает одну страницу элементов списка.
type Page[T any] struct {
	Items    []T
	Page     int // номер страницы (с 1)
	PageSize int
	HasNext  bool
	HasPrev  bool
	Total    int64 // общее количество элементов
}

const defaultPageSize = 20

// PageParams — нормализованные параметры страницы для запросов к хранилищу.
type PageParams struct {
	Page     int
	PageSize int
}

// NormalizePage приводит номер страницы и размер к допустимым значениям.
func NormalizePage(page, pageSize int) PageParams {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return PageParams{Page: page, PageSize: pageSize}
}

// Offset возвращает смещение для limit/offset запроса.
func (p PageParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// NewPage собирает страницу из уже отфильтрованных хранилищем элементов
// и общего количества.
func NewPage[T any](items []T, params PageParams, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:    items,
		Page:     params.Page,
		PageSize: params.PageSize,
		HasPrev:  params.Page > 1,
		HasNext:  int64(params.Offset()+len(items)) < total,
		Total:    total,
	}
}
