package configs

import "fmt"

// MakeSlice converts each raw tree into a T. It stops at the first failing item.
func MakeSlice[T any](c *Converter, raws []any) ([]T, error) {
	result := make([]T, 0, len(raws))
	for i, raw := range raws {
		item, err := Make[T](c, raw)
		if err != nil {
			return nil, fmt.Errorf("converting item %d: %w", i, err)
		}
		result = append(result, item)
	}
	return result, nil
}
