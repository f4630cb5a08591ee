package census

import "errors"

// Kind classifies a lookup failure.
type Kind int

const (
	// KindNone is returned by KindOf for nil or foreign errors.
	KindNone Kind = iota
	// KindType means the input was not a string.
	KindType
	// KindFormat means the string is not NNNNN or NNNNN-NNNN.
	KindFormat
	// KindLookup means no state, division or region matched.
	KindLookup
)

func (k Kind) String() string {
	switch k {
	case KindType:
		return "type"
	case KindFormat:
		return "format"
	case KindLookup:
		return "lookup"
	default:
		return "none"
	}
}

// Sentinel errors, wrapped with the offending value. Match with errors.Is.
var (
	ErrInvalidType      = errors.New("zip code must be a string")
	ErrInvalidFormat    = errors.New("invalid zip code format")
	ErrStateNotFound    = errors.New("state not found")
	ErrDivisionNotFound = errors.New("division not found")
	ErrRegionNotFound   = errors.New("region not found")
)

// KindOf reports which kind of failure err wraps.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrInvalidType):
		return KindType
	case errors.Is(err, ErrInvalidFormat):
		return KindFormat
	case errors.Is(err, ErrStateNotFound),
		errors.Is(err, ErrDivisionNotFound),
		errors.Is(err, ErrRegionNotFound):
		return KindLookup
	default:
		return KindNone
	}
}
