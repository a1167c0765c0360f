// Package pagination implements the cursor convention shared by every
// reverse-chronological listing: the cursor is the id of the last item of the
// previous page and the next page starts strictly after it.
package pagination

// PageSizeConfig configures page size normalization.
type PageSizeConfig struct {
	Default int
	Max     int
}

// DefaultPageSize is used by list endpoints that do not override it.
var DefaultPageSize = PageSizeConfig{Default: 20, Max: 100}

// ClampPageSize applies defaults and limits for page sizes.
func ClampPageSize(value int, cfg PageSizeConfig) int {
	pageSize := value
	if pageSize <= 0 {
		pageSize = cfg.Default
	}
	if cfg.Max > 0 && pageSize > cfg.Max {
		pageSize = cfg.Max
	}
	if pageSize <= 0 {
		pageSize = 1
	}
	return pageSize
}

// Page is one window of a descending stream.
//
// HasMore is true whenever the page came back full. It can be a false
// positive when the following page turns out to be empty.
type Page[T any] struct {
	Items      []T    `json:"items"`
	HasMore    bool   `json:"hasMore"`
	NextCursor string `json:"nextCursor,omitempty"`
	PageSize   int    `json:"pageSize"`
}

// NewPage builds a page from items fetched with the given page size.
func NewPage[T any](items []T, pageSize int, idOf func(T) string) Page[T] {
	if items == nil {
		items = []T{}
	}
	page := Page[T]{
		Items:    items,
		HasMore:  pageSize > 0 && len(items) == pageSize,
		PageSize: pageSize,
	}
	if len(items) > 0 {
		page.NextCursor = idOf(items[len(items)-1])
	}
	return page
}
