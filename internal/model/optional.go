package model

import (
	"bytes"
	"encoding/json"
)

// Optional is a list section with an explicit presence flag. The zero value
// is absent. JSON encodes an absent section as a missing key (with omitzero)
// and a present one as an array, possibly empty.
type Optional[T any] struct {
	Present bool
	Items   []T `validate:"dive"`
}

func Some[T any](items ...T) Optional[T] {
	if items == nil {
		items = []T{}
	}
	return Optional[T]{Present: true, Items: items}
}

func (o Optional[T]) IsZero() bool { return !o.Present }
func (o Optional[T]) Len() int     { return len(o.Items) }

// Visible reports whether a renderer should emit anything for the section.
func (o Optional[T]) Visible() bool { return o.Present && len(o.Items) > 0 }

func (o Optional[T]) clone() Optional[T] {
	if !o.Present {
		return Optional[T]{}
	}
	items := make([]T, len(o.Items))
	copy(items, o.Items)
	return Optional[T]{Present: true, Items: items}
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Present {
		return []byte("null"), nil
	}
	if o.Items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(o.Items)
}

func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*o = Optional[T]{}
		return nil
	}
	var items []T
	if err := json.Unmarshal(b, &items); err != nil {
		return err
	}
	if items == nil {
		items = []T{}
	}
	*o = Optional[T]{Present: true, Items: items}
	return nil
}
