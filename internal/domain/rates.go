package domain

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// RateInput is an annual rate supplied either as a single constant or as a
// month-indexed path. The two forms are an explicit variant rather than a
// runtime type test: a scalar applies to every month, a path is consumed by
// month index with the last element held once the path runs out. The Monte
// Carlo layer feeds each path's sampled rates through the path form.
type RateInput struct {
	scalar decimal.Decimal
	path   []decimal.Decimal
	isPath bool
}

// Rate builds a scalar RateInput.
func Rate(v decimal.Decimal) RateInput {
	return RateInput{scalar: v}
}

// RateFromFloat builds a scalar RateInput from a float literal.
func RateFromFloat(f float64) RateInput {
	return RateInput{scalar: decimal.NewFromFloat(f)}
}

// RatePath builds a month-indexed RateInput. The slice is not copied; the
// caller must not mutate it afterwards.
func RatePath(seq []decimal.Decimal) RateInput {
	return RateInput{path: seq, isPath: true}
}

// IsPath reports whether the input is month-indexed.
func (r RateInput) IsPath() bool { return r.isPath }

// EmptyPath reports the degenerate case of a path with no elements, which
// has no defined value for any month.
func (r RateInput) EmptyPath() bool { return r.isPath && len(r.path) == 0 }

// At returns the rate for a month index. A scalar answers every index; a
// path holds its last element for indexes at or past its end.
func (r RateInput) At(month int) decimal.Decimal {
	if !r.isPath {
		return r.scalar
	}
	if len(r.path) == 0 {
		return decimal.Zero
	}
	if month >= len(r.path) {
		return r.path[len(r.path)-1]
	}
	if month < 0 {
		return r.path[0]
	}
	return r.path[month]
}

// Resolve expands the input into a per-month lookup table of the given
// length. The engine resolves both rate inputs exactly once at simulation
// start so the monthly loop never re-inspects the variant.
func (r RateInput) Resolve(months int) []decimal.Decimal {
	if months < 0 {
		months = 0
	}
	out := make([]decimal.Decimal, months)
	for i := range out {
		out[i] = r.At(i)
	}
	return out
}

// AnyNegative reports whether the scalar, or any element of the path, is
// negative.
func (r RateInput) AnyNegative() bool {
	if !r.isPath {
		return r.scalar.IsNegative()
	}
	for _, v := range r.path {
		if v.IsNegative() {
			return true
		}
	}
	return false
}

func (r RateInput) String() string {
	if r.isPath {
		return fmt.Sprintf("path[%d]", len(r.path))
	}
	return r.scalar.String()
}

// UnmarshalYAML accepts either a bare number or a sequence of numbers.
func (r *RateInput) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var d decimal.Decimal
		if err := value.Decode(&d); err != nil {
			return fmt.Errorf("rate: %w", err)
		}
		*r = Rate(d)
		return nil
	case yaml.SequenceNode:
		var seq []decimal.Decimal
		if err := value.Decode(&seq); err != nil {
			return fmt.Errorf("rate path: %w", err)
		}
		*r = RatePath(seq)
		return nil
	default:
		return fmt.Errorf("rate must be a number or a sequence of numbers, got %v", value.Kind)
	}
}

// MarshalYAML emits the scalar or the sequence, matching the accepted input.
func (r RateInput) MarshalYAML() (interface{}, error) {
	if r.isPath {
		return r.path, nil
	}
	return r.scalar, nil
}

// UnmarshalJSON accepts either a bare number or an array of numbers.
func (r *RateInput) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := json.Unmarshal(data, &d); err == nil {
		*r = Rate(d)
		return nil
	}
	var seq []decimal.Decimal
	if err := json.Unmarshal(data, &seq); err == nil {
		*r = RatePath(seq)
		return nil
	}
	return fmt.Errorf("rate must be a number or an array of numbers")
}

// MarshalJSON emits the scalar or the array, matching the accepted input.
func (r RateInput) MarshalJSON() ([]byte, error) {
	if r.isPath {
		return json.Marshal(r.path)
	}
	return json.Marshal(r.scalar)
}
