package util

import (
	"encoding/json"
	"fmt"
)

// CloneSlice returns a shallow copy of a slice. A nil slice stays nil.
func CloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}

	clone := make([]T, len(s))
	copy(clone, s)

	return clone
}

// CloneMap returns a shallow copy of a map. A nil map stays nil.
func CloneMap[K comparable, V any](m map[K]V) map[K]V {
	if m == nil {
		return nil
	}

	clone := make(map[K]V, len(m))
	for k, v := range m {
		clone[k] = v
	}

	return clone
}

// DeepClone copies v through a JSON round-trip. It only works for values
// that survive JSON marshaling, which covers every wire type in this module.
func DeepClone[T any](v T) (T, error) {
	var clone T

	data, err := json.Marshal(v)
	if err != nil {
		return clone, fmt.Errorf("marshaling value for clone: %w", err)
	}

	if err := json.Unmarshal(data, &clone); err != nil {
		return clone, fmt.Errorf("unmarshaling cloned value: %w", err)
	}

	return clone, nil
}
