package ad

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// List is a slice persisted as a JSON text column.  NULL and "" scan to an
// empty list.
type List[T any] []T

// Scan implements sql.Scanner.
func (l *List[T]) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("ad.List: cannot scan %T", src)
	}
	if len(raw) == 0 {
		*l = nil
		return nil
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("ad.List: %w", err)
	}
	*l = out
	return nil
}

// Value implements driver.Valuer.  A nil list is stored as "[]".
func (l List[T]) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]T(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
