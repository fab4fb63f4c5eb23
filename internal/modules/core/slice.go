package core

func Map[TSource any, TResult any](source []TSource, m func(TSource) TResult) []TResult {
	results := make([]TResult, 0, len(source))
	for _, s := range source {
		results = append(results, m(s))
	}
	return results
}

func Filter[T any](source []T, predicate func(T) bool) []T {
	var results []T
	for _, s := range source {
		if predicate(s) {
			results = append(results, s)
		}
	}
	return results
}
