package validators

import (
	"encoding/json"
	"math"

	"cosmic-backend/pkg/errors"
)

// RequiredFields fails with a validation error when any of the named fields
// is absent or falsy. Falsy means nil, an empty string, zero, NaN or false;
// lists and objects always count as present.
func RequiredFields(fields map[string]interface{}, required ...string) error {
	var missing []string
	for _, name := range required {
		if !isPresent(fields[name]) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return errors.NewMissingFieldsError(missing)
	}
	return nil
}

func isPresent(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case bool:
		return val
	case float64:
		return val != 0 && !math.IsNaN(val)
	case int:
		return val != 0
	case int64:
		return val != 0
	case json.Number:
		f, err := val.Float64()
		return err != nil || (f != 0 && !math.IsNaN(f))
	default:
		return true
	}
}
