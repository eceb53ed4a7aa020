package hcl

import (
	"fmt"
	"math/big"

	"github.com/zclconf/go-cty/cty"
)

// scalarListsFromCty converts a cty object whose attributes are lists of
// primitives (e.g. `{ time_limit = [600, 7200] }`) into a Go map of scalar
// slices. A null or absent value yields an empty map.
func scalarListsFromCty(val cty.Value) (map[string][]any, error) {
	result := make(map[string][]any)
	if val.IsNull() || val == cty.NilVal {
		return result, nil
	}
	if !val.Type().IsObjectType() && !val.Type().IsMapType() {
		return nil, fmt.Errorf("expected an object of lists, got %s", val.Type().FriendlyName())
	}

	for name, attr := range val.AsValueMap() {
		if attr.IsNull() {
			return nil, fmt.Errorf("parameter %q is null", name)
		}
		ty := attr.Type()
		if !ty.IsTupleType() && !ty.IsListType() && !ty.IsSetType() {
			return nil, fmt.Errorf("parameter %q must be a list of values, got %s", name, ty.FriendlyName())
		}
		var values []any
		for it := attr.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			scalar, err := scalarFromCty(elem)
			if err != nil {
				return nil, fmt.Errorf("parameter %q: %w", name, err)
			}
			values = append(values, scalar)
		}
		if len(values) == 0 {
			return nil, fmt.Errorf("parameter %q has no candidate values", name)
		}
		result[name] = values
	}
	return result, nil
}

// scalarFromCty converts a primitive cty value into a Go scalar. Whole
// numbers become int64, everything else numeric becomes float64.
func scalarFromCty(val cty.Value) (any, error) {
	if val.IsNull() {
		return nil, fmt.Errorf("null value is not a valid scalar")
	}
	switch val.Type() {
	case cty.String:
		return val.AsString(), nil
	case cty.Bool:
		return val.True(), nil
	case cty.Number:
		bf := val.AsBigFloat()
		if i, acc := bf.Int64(); acc == big.Exact {
			return i, nil
		}
		f, _ := bf.Float64()
		return f, nil
	default:
		return nil, fmt.Errorf("unsupported scalar type %s", val.Type().FriendlyName())
	}
}
