package utils

import "strings"

func Contains[V comparable](arr []V, e V) bool {
	for _, v := range arr {
		if v == e {
			return true
		}
	}

	return false
}

func ContainsFold(arr []string, s string) bool {
	for _, v := range arr {
		if strings.EqualFold(v, s) {
			return true
		}
	}

	return false
}

// Chunk splits arr into consecutive pieces of at most size elements.
// A size below 1 is treated as 1.
func Chunk[V any](arr []V, size int) (out [][]V) {
	if size < 1 {
		size = 1
	}

	for len(arr) > size {
		out = append(out, arr[:size:size])
		arr = arr[size:]
	}

	if len(arr) > 0 {
		out = append(out, arr)
	}

	return
}
