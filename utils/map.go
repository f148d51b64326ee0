package utils

import (
	"cmp"
	"slices"
)

func ToKeys[K comparable, V any](m map[K]V) []K {
	var slice []K

	for k := range m {
		slice = append(slice, k)
	}

	return slice
}

func SortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := ToKeys(m)
	slices.Sort(keys)
	return keys
}
