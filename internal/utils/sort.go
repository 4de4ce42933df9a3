package utils

import (
	"cmp"
	"sort"
)

func SortStrings(values []string, asc bool) []string {
	sort.Slice(values, func(i, j int) bool {
		if asc {
			return values[i] < values[j]
		}
		return values[i] > values[j]
	})
	return values
}

func GetSortedKeys[K cmp.Ordered, T any](m map[K]T, asc bool) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Slice(keys, func(i, j int) bool {
		if asc {
			return keys[i] < keys[j]
		}
		return keys[i] > keys[j]
	})
	return keys
}
