package retriever

import "strconv"

// Op is a comparison operator a Filter condition applies to one metadata
// field.
type Op string

const (
	Eq  Op = "="
	Neq Op = "!="
	Gt  Op = ">"
	Lt  Op = "<"
)

// Condition compares one metadata field against a fixed value.
type Condition struct {
	Field string
	Op    Op
	Value string
}

type junction string

const (
	junctionNone junction = ""
	junctionAnd  junction = "AND"
	junctionOr   junction = "OR"
)

type term struct {
	cond     Condition
	junction junction
}

// Filter is an ordered sequence of conditions joined by AND/OR, per
// spec.md §4.4's Filter DSL. Evaluation is left-to-right with no operator
// precedence: "a AND b OR c" evaluates as "(a AND b) OR c". A field absent
// from a row's metadata always evaluates false, regardless of Op.
type Filter struct {
	terms []term
}

// NewFilter starts a Filter with one condition. An empty Filter (returned
// by a zero-value Filter{}, or Filter.Where never called) matches every
// row.
func NewFilter(cond Condition) Filter {
	return Filter{terms: []term{{cond: cond}}}
}

// And appends a condition joined by AND.
func (f Filter) And(cond Condition) Filter {
	f.terms = append(append([]term{}, f.terms...), term{cond: cond, junction: junctionAnd})
	return f
}

// Or appends a condition joined by OR.
func (f Filter) Or(cond Condition) Filter {
	f.terms = append(append([]term{}, f.terms...), term{cond: cond, junction: junctionOr})
	return f
}

// Eval reports whether metadata satisfies the filter.
func (f Filter) Eval(metadata map[string]string) bool {
	if len(f.terms) == 0 {
		return true
	}
	result := evalCondition(f.terms[0].cond, metadata)
	for _, t := range f.terms[1:] {
		v := evalCondition(t.cond, metadata)
		switch t.junction {
		case junctionAnd:
			result = result && v
		case junctionOr:
			result = result || v
		}
	}
	return result
}

func evalCondition(cond Condition, metadata map[string]string) bool {
	actual, ok := metadata[cond.Field]
	if !ok {
		return false
	}
	switch cond.Op {
	case Eq:
		return actual == cond.Value
	case Neq:
		return actual != cond.Value
	case Gt, Lt:
		actualNum, aErr := strconv.ParseFloat(actual, 64)
		wantNum, wErr := strconv.ParseFloat(cond.Value, 64)
		if aErr == nil && wErr == nil {
			if cond.Op == Gt {
				return actualNum > wantNum
			}
			return actualNum < wantNum
		}
		if cond.Op == Gt {
			return actual > cond.Value
		}
		return actual < cond.Value
	default:
		return false
	}
}
