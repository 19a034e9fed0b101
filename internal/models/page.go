package models

// PageInfo представляет одну страницу результата постраничной выборки.
type PageInfo[T any] struct {
	TotalList   []T   `json:"total_list"`   // записи текущей страницы
	Total       int64 `json:"total"`        // общее количество записей
	TotalPage   int64 `json:"total_page"`   // количество страниц
	PageSize    int   `json:"page_size"`    // размер страницы
	CurrentPage int   `json:"current_page"` // номер текущей страницы (с 1)
}

// NewPageInfo собирает страницу и вычисляет количество страниц
func NewPageInfo[T any](pageNo, pageSize int, total int64, items []T) *PageInfo[T] {
	if items == nil {
		items = []T{}
	}

	var totalPage int64
	if pageSize > 0 {
		totalPage = (total + int64(pageSize) - 1) / int64(pageSize)
	}

	return &PageInfo[T]{
		TotalList:   items,
		Total:       total,
		TotalPage:   totalPage,
		PageSize:    pageSize,
		CurrentPage: pageNo,
	}
}

// Offset возвращает смещение первой записи страницы
func Offset(pageNo, pageSize int) int {
	if pageNo < 1 {
		pageNo = 1
	}
	if pageSize < 1 {
		return 0
	}
	return (pageNo - 1) * pageSize
}
