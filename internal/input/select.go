package input

import (
	"fmt"

	"github.com/itchyny/gojq"
)

// Select runs a jq expression over value. A single result is returned as
// is; several results are collected into a list.
func Select(value interface{}, expr string) (interface{}, error) {
	parsed, err := gojq.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid --select: %w", err)
	}

	code, err := gojq.Compile(parsed)
	if err != nil {
		return nil, fmt.Errorf("invalid --select: %w", err)
	}

	var results []interface{}
	iter := code.Run(value)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := v.(error); isErr {
			return nil, fmt.Errorf("select error: %w", err)
		}
		results = append(results, v)
	}

	if len(results) == 1 {
		return results[0], nil
	}
	if results == nil {
		return []interface{}{}, nil
	}
	return results, nil
}
