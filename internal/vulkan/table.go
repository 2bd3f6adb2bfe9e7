package vulkan

import "github.com/cockroachdb/errors"

// table maps the engine's opaque handles onto native vkng objects. Handle values are never
// reused within one table, so a stale handle can only miss.
type table[H ~uint64, T any] struct {
	kind  string
	next  H
	items map[H]T
}

func newTable[H ~uint64, T any](kind string) *table[H, T] {
	return &table[H, T]{kind: kind, items: map[H]T{}}
}

func (t *table[H, T]) add(item T) H {
	t.next++
	t.items[t.next] = item
	return t.next
}

func (t *table[H, T]) get(handle H) (T, error) {
	item, ok := t.items[handle]
	if !ok {
		var zero T
		return zero, errors.Newf("unknown %s handle %d", t.kind, uint64(handle))
	}
	return item, nil
}

// lookup is get for callers that treat an unknown handle as "no object".
func (t *table[H, T]) lookup(handle H) (T, bool) {
	item, ok := t.items[handle]
	return item, ok
}

// remove deletes handle and returns the native object it named.
func (t *table[H, T]) remove(handle H) (T, bool) {
	item, ok := t.items[handle]
	if ok {
		delete(t.items, handle)
	}
	return item, ok
}

func (t *table[H, T]) len() int {
	return len(t.items)
}
