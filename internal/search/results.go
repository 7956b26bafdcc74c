package search

// Record is an entity shown in a list.
type Record[T any] interface {
	RecordID() int64
	DisplayName() string
	Active() bool
	// WithActive returns a copy with the active flag set.
	WithActive(active bool) T
}

// Results keeps list rows in server order, addressed by id.
type Results[T Record[T]] struct {
	ids  []int64
	byID map[int64]T
}

func NewResults[T Record[T]](items []T) Results[T] {
	r := Results[T]{
		ids:  make([]int64, 0, len(items)),
		byID: make(map[int64]T, len(items)),
	}
	for _, item := range items {
		id := item.RecordID()
		if _, dup := r.byID[id]; !dup {
			r.ids = append(r.ids, id)
		}
		r.byID[id] = item
	}
	return r
}

func (r Results[T]) Len() int {
	return len(r.ids)
}

func (r Results[T]) Items() []T {
	out := make([]T, 0, len(r.ids))
	for _, id := range r.ids {
		out = append(out, r.byID[id])
	}
	return out
}

func (r Results[T]) Get(id int64) (T, bool) {
	item, ok := r.byID[id]
	return item, ok
}

// replace swaps the row with item's id in place; false if the id is not shown.
func (r Results[T]) replace(item T) bool {
	id := item.RecordID()
	if _, ok := r.byID[id]; !ok {
		return false
	}
	r.byID[id] = item
	return true
}
