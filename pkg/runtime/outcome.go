package runtime

// OutcomeKind says how a statement finished.
type OutcomeKind int

const (
	OutcomeNormal OutcomeKind = iota
	OutcomeReturn
	// OutcomeBreak and OutcomeContinue are consumed by loops. No syntax
	// produces them yet.
	OutcomeBreak
	OutcomeContinue
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeNormal:
		return "normal"
	case OutcomeReturn:
		return "return"
	case OutcomeBreak:
		return "break"
	case OutcomeContinue:
		return "continue"
	default:
		return "unknown"
	}
}

// Outcome is the completion record of executing a statement. Value is only
// meaningful for OutcomeReturn.
type Outcome struct {
	Kind  OutcomeKind
	Value Value
}

// Normal is the outcome of a statement that ran to completion.
func Normal() Outcome {
	return Outcome{Kind: OutcomeNormal}
}

// Return carries a function's result up to the enclosing call.
func Return(v Value) Outcome {
	if v == nil {
		v = NilValue{}
	}
	return Outcome{Kind: OutcomeReturn, Value: v}
}

// IsNormal reports whether execution should continue with the next statement.
func (o Outcome) IsNormal() bool {
	return o.Kind == OutcomeNormal
}
