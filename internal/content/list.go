package content

// MoveWithinList returns a copy of list with the element at from moved to index to.
// The element is removed first and then inserted into the shorter list, so to addresses the
// post-removal positions 0..len(list)-1. Out-of-range indices yield an unchanged copy.
// The input is never modified.
func MoveWithinList[T any](list []T, from, to int) []T {
	out := make([]T, len(list))
	copy(out, list)
	if from < 0 || from >= len(list) || to < 0 || to >= len(list) || from == to {
		return out
	}
	item := out[from]
	out = append(out[:from], out[from+1:]...)
	return insertAt(out, to, item)
}

func removeAt[T any](list []T, i int) ([]T, T) {
	out := make([]T, 0, len(list))
	out = append(out, list[:i]...)
	out = append(out, list[i+1:]...)
	return out, list[i]
}

// insertAt returns a new slice; i may equal len(list) to append.
func insertAt[T any](list []T, i int, item T) []T {
	out := make([]T, 0, len(list)+1)
	out = append(out, list[:i]...)
	out = append(out, item)
	out = append(out, list[i:]...)
	return out
}
