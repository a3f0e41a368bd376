package fn

func Map[T any, V any](items []T, selector func(T) V) []V {
	results := make([]V, 0, len(items))
	for _, item := range items {
		results = append(results, selector(item))
	}
	return results
}

func Filter[T any](items []T, keep func(T) bool) []T {
	var results []T
	for _, item := range items {
		if keep(item) {
			results = append(results, item)
		}
	}
	return results
}

func Find[T any](items []T, match func(T) bool) (T, bool) {
	for _, item := range items {
		if match(item) {
			return item, true
		}
	}

	var zero T
	return zero, false
}
