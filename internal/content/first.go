package content

// First returns the first element of items. Extras are ignored; use Ignored to
// find out how many.
func First[T any](items []T) (T, bool) {
	if len(items) == 0 {
		var zero T
		return zero, false
	}
	return items[0], true
}

// FirstOrFallback returns the first element of primary, or the first element
// of fallback when primary is empty. Extras in either list are ignored.
func FirstOrFallback[T any](primary, fallback []T) (T, bool) {
	if v, ok := First(primary); ok {
		return v, true
	}
	return First(fallback)
}

// Ignored reports how many elements First silently drops from items.
func Ignored[T any](items []T) int {
	if len(items) <= 1 {
		return 0
	}
	return len(items) - 1
}

// Bases projects nodes onto their common fields so variants can share a
// fallback list.
func Bases[T Node](items []T) []Base {
	out := make([]Base, len(items))
	for i, n := range items {
		out[i] = n.Common()
	}
	return out
}
