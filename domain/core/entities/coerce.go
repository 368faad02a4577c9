package entities

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// CastError reports a submitted value that cannot be stored in a field
type CastError struct {
	Field string
	Value interface{}
}

func (e *CastError) Error() string {
	return fmt.Sprintf("cannot cast %T to string for field %q", e.Value, e.Field)
}

// coerceString converts a decoded submission value into the string form a
// record stores. A nil value reports present=false.
func coerceString(field string, v interface{}) (string, bool, error) {
	switch val := v.(type) {
	case nil:
		return "", false, nil
	case string:
		return val, true, nil
	case float64:
		return formatNumber(val), true, nil
	case json.Number:
		return val.String(), true, nil
	case int:
		return strconv.Itoa(val), true, nil
	case int64:
		return strconv.FormatInt(val, 10), true, nil
	case bool:
		return strconv.FormatBool(val), true, nil
	default:
		return "", false, &CastError{Field: field, Value: v}
	}
}

// coerceStringList accepts a single scalar or a list of scalars.
func coerceStringList(field string, v interface{}) ([]string, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case []string:
		return append([]string(nil), val...), nil
	case []interface{}:
		out := make([]string, 0, len(val))
		for _, item := range val {
			s, ok, err := coerceString(field, item)
			if err != nil {
				return nil, err
			}
			if ok {
				out = append(out, s)
			}
		}
		return out, nil
	default:
		s, ok, err := coerceString(field, v)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
		return []string{s}, nil
	}
}

func formatNumber(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
