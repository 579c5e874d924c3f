package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// LikeSet holds the ids of users who liked a post. It is stored as a JSON
// array.
type LikeSet []string

// Value implements driver.Valuer.
func (s LikeSet) Value() (driver.Value, error) {
	if s == nil {
		s = LikeSet{}
	}
	b, err := json.Marshal([]string(s))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (s *LikeSet) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*s = LikeSet{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("cannot scan %T into LikeSet", src)
	}
	if len(raw) == 0 {
		*s = LikeSet{}
		return nil
	}

	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return fmt.Errorf("failed to decode like set: %w", err)
	}
	*s = LikeSet(ids)
	return nil
}

// Clone returns an independent copy.
func (s LikeSet) Clone() LikeSet {
	out := make(LikeSet, len(s))
	copy(out, s)
	return out
}
