package lazy

type state uint8

const (
	stateUnmaterialized state = iota // holds the buffer, store empty
	stateMaterializing               // buffer moved out, store being filled
	stateMaterialized                // store populated, buffer released
)

func (s state) String() string {
	switch s {
	case stateUnmaterialized:
		return "unmaterialized"
	case stateMaterializing:
		return "materializing"
	case stateMaterialized:
		return "materialized"
	default:
		return "invalid"
	}
}

type event uint8

const (
	eventBegin      event = iota // commit phase starts
	eventCommitted               // store accepted every field
	eventRolledBack              // store rejected the fields
)

func (e event) String() string {
	switch e {
	case eventBegin:
		return "begin"
	case eventCommitted:
		return "committed"
	case eventRolledBack:
		return "rolled-back"
	default:
		return "invalid"
	}
}

// transition returns the state following e. ok is false when e is not valid
// in s; the state is then returned unchanged.
func transition(s state, e event) (next state, ok bool) {
	switch {
	case s == stateUnmaterialized && e == eventBegin:
		return stateMaterializing, true
	case s == stateMaterializing && e == eventCommitted:
		return stateMaterialized, true
	case s == stateMaterializing && e == eventRolledBack:
		return stateUnmaterialized, true
	default:
		return s, false
	}
}
