package tenant

import "strings"

// PredicateKind tags the shape of a Predicate.
type PredicateKind string

const (
	PredicateNone       PredicateKind = ""
	PredicateCapability PredicateKind = "capability"
	PredicateAll        PredicateKind = "all"
	PredicateAny        PredicateKind = "any"
	PredicateNot        PredicateKind = "not"
)

// Predicate is a declarative visibility condition over tenant capabilities.
// The zero value declares nothing and always holds.
type Predicate struct {
	Kind       PredicateKind
	Capability Capability
	Operands   []Predicate
}

// Requires builds a predicate that holds when the capability is enabled.
func Requires(capability Capability) Predicate {
	return Predicate{Kind: PredicateCapability, Capability: NormalizeCapability(string(capability))}
}

// AllOf holds when every operand holds.
func AllOf(operands ...Predicate) Predicate {
	return Predicate{Kind: PredicateAll, Operands: operands}
}

// AnyOf holds when at least one operand holds.
func AnyOf(operands ...Predicate) Predicate {
	return Predicate{Kind: PredicateAny, Operands: operands}
}

// Not negates a predicate.
func Not(operand Predicate) Predicate {
	return Predicate{Kind: PredicateNot, Operands: []Predicate{operand}}
}

// Declared reports whether the predicate carries a condition.
func (p Predicate) Declared() bool {
	return p.Kind != PredicateNone
}

// Eval evaluates the predicate against a features value.
func (p Predicate) Eval(features Features) bool {
	return p.EvalCapabilities(Project(features))
}

// EvalCapabilities evaluates the predicate against projected capabilities.
// Unknown capabilities and malformed predicates evaluate to false.
func (p Predicate) EvalCapabilities(caps Capabilities) bool {
	switch p.Kind {
	case PredicateNone:
		return true
	case PredicateCapability:
		return caps.Enabled(p.Capability)
	case PredicateAll:
		if len(p.Operands) == 0 {
			return false
		}
		for _, operand := range p.Operands {
			if !operand.EvalCapabilities(caps) {
				return false
			}
		}
		return true
	case PredicateAny:
		for _, operand := range p.Operands {
			if operand.EvalCapabilities(caps) {
				return true
			}
		}
		return false
	case PredicateNot:
		if len(p.Operands) != 1 {
			return false
		}
		return !p.Operands[0].EvalCapabilities(caps)
	default:
		return false
	}
}

// Capabilities lists the capability keys the predicate depends on, in
// declaration order without duplicates.
func (p Predicate) Capabilities() []Capability {
	seen := map[Capability]struct{}{}
	var out []Capability
	var walk func(Predicate)
	walk = func(node Predicate) {
		if node.Kind == PredicateCapability && node.Capability != "" {
			if _, ok := seen[node.Capability]; !ok {
				seen[node.Capability] = struct{}{}
				out = append(out, node.Capability)
			}
		}
		for _, operand := range node.Operands {
			walk(operand)
		}
	}
	walk(p)
	return out
}

// String renders the predicate in a compact form, e.g. all(queue,visits.clinic).
func (p Predicate) String() string {
	switch p.Kind {
	case PredicateNone:
		return ""
	case PredicateCapability:
		return string(p.Capability)
	default:
		parts := make([]string, 0, len(p.Operands))
		for _, operand := range p.Operands {
			parts = append(parts, operand.String())
		}
		return string(p.Kind) + "(" + strings.Join(parts, ",") + ")"
	}
}
