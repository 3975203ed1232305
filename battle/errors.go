package battle

import "errors"

var (
	ErrResolution           = errors.New("battle: character not resolvable")
	ErrInsufficientResource = errors.New("battle: insufficient resource")
	ErrExecution            = errors.New("battle: card effect failed")
	ErrMissingDependency    = errors.New("battle: missing dependency")
	ErrBusy                 = errors.New("battle: execution already in flight")
	ErrNotAllowed           = errors.New("battle: not allowed in current state")
	ErrCardOnCooldown       = errors.New("battle: card on cooldown")
	ErrNoSummon             = errors.New("battle: no summon in flight")
)

// ErrorKind classifies the outcome of a card execution.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindResolution
	KindInsufficientResource
	KindExecution
	KindBusy
	KindMissingDependency
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindResolution:
		return "resolution"
	case KindInsufficientResource:
		return "insufficient_resource"
	case KindExecution:
		return "execution"
	case KindBusy:
		return "busy"
	case KindMissingDependency:
		return "missing_dependency"
	default:
		return "unknown"
	}
}

// KindOf maps an error returned by the core to its ErrorKind.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrResolution):
		return KindResolution
	case errors.Is(err, ErrInsufficientResource):
		return KindInsufficientResource
	case errors.Is(err, ErrBusy):
		return KindBusy
	case errors.Is(err, ErrMissingDependency):
		return KindMissingDependency
	default:
		return KindExecution
	}
}
