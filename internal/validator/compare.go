package validator

import (
	"math"
	"strings"
)

// Compare checks a UI-observed value against its API ground truth using a
// type-aware tolerance rule:
//
//   - both numeric: relative percentage difference within tolerance. An API
//     value of exactly zero matches only a UI value of exactly zero, because
//     percentage tolerance is undefined at zero.
//   - both strings: case-insensitive exact equality.
//   - otherwise: strict equality (booleans, enums, both-nil).
//
// The returned measured percentage is non-nil only when both values were
// numeric and a relative difference was computable.
func (v *Validator) Compare(uiValue, apiValue interface{}, overridePct *float64) (bool, *float64) {
	uiNum, uiIsNum := asFloat(uiValue)
	apiNum, apiIsNum := asFloat(apiValue)

	if uiIsNum && apiIsNum {
		if apiNum == 0 {
			if uiNum == 0 {
				zero := 0.0
				return true, &zero
			}
			return false, nil
		}
		measured := math.Abs(uiNum-apiNum) / math.Abs(apiNum) * 100
		tolerance := v.tolerance.DefaultPercent
		if overridePct != nil {
			tolerance = *overridePct
		}
		return measured <= tolerance, &measured
	}

	uiStr, uiIsStr := uiValue.(string)
	apiStr, apiIsStr := apiValue.(string)
	if uiIsStr && apiIsStr {
		return strings.EqualFold(uiStr, apiStr), nil
	}

	return uiValue == apiValue, nil
}

// asFloat normalizes numeric Go kinds (and JSON's float64) to float64.
func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
