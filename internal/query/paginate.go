package query

import "strconv"

const (
	DefaultPageSize = 20
	MaxPageSize     = 50
)

// ClampLimit forces limit into [1, MaxPageSize]; out-of-range values are
// clamped, not rejected. Zero or negative falls back to the default.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultPageSize
	}
	if limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}

// Page is one bounded slice of an ordered listing. NextCursor is the
// identifier of the last retained item and is only set when HasMore.
type Page[T any] struct {
	Items      []T    `json:"items"`
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor,omitempty"`
}

// BuildPage trims an over-fetched result down to limit. Callers fetch
// limit+1 rows; the probe row only proves a later item exists and is never
// returned.
func BuildPage[T any](items []T, limit int, id func(T) uint64) Page[T] {
	if len(items) <= limit {
		return Page[T]{Items: items}
	}
	kept := items[:limit]
	return Page[T]{
		Items:      kept,
		HasMore:    true,
		NextCursor: FormatCursor(id(kept[len(kept)-1])),
	}
}

// DecodeCursor parses an opaque cursor token back into the item id it
// references. A malformed cursor decodes to 0, which repositories treat as
// "start from the beginning".
func DecodeCursor(cursor string) uint64 {
	if cursor == "" {
		return 0
	}
	id, err := strconv.ParseUint(cursor, 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func FormatCursor(id uint64) string {
	return strconv.FormatUint(id, 10)
}
