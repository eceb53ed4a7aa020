package filter

import "strconv"

// FormatScalar renders a generation-parameter value for value tuples, group
// labels and file names. Whole floats render without a fractional part so
// JSON-decoded numbers line up with their HCL counterparts.
func FormatScalar(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case bool:
		return strconv.FormatBool(s)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case float64:
		return strconv.FormatFloat(s, 'g', -1, 64)
	default:
		return ""
	}
}

// numeric reports the value as a float64 when it is a number.
func numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// compareScalars orders two parameter values: numerically when both are
// numbers, lexically on their rendered form otherwise.
func compareScalars(a, b any) int {
	na, aok := numeric(a)
	nb, bok := numeric(b)
	if aok && bok {
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		default:
			return 0
		}
	}
	fa, fb := FormatScalar(a), FormatScalar(b)
	switch {
	case fa < fb:
		return -1
	case fa > fb:
		return 1
	default:
		return 0
	}
}

// scalarsEqual reports parameter-value equality with numeric tolerance for
// the int64/float64 split between HCL and JSON decoding.
func scalarsEqual(a, b any) bool {
	return compareScalars(a, b) == 0 && FormatScalar(a) == FormatScalar(b)
}
