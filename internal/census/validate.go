package census

import (
	"fmt"
	"regexp"
	"strconv"
)

// zipCodeRe matches a 5-digit ZIP with an optional 4-digit add-on.
var zipCodeRe = regexp.MustCompile(`^\d{5}(-\d{4})?$`)

// ValidateZipCode reports whether value is a well-formed ZIP code.
// It returns ErrInvalidType for non-string input and ErrInvalidFormat for
// strings that are not NNNNN or NNNNN-NNNN.
func ValidateZipCode(value any) (bool, error) {
	s, ok := value.(string)
	if !ok {
		return false, fmt.Errorf("%w: got %T", ErrInvalidType, value)
	}
	if !zipCodeRe.MatchString(s) {
		return false, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	return true, nil
}

// zipPrefix validates zip and returns its 5-digit prefix as an integer.
func zipPrefix(zip string) (int, error) {
	if _, err := ValidateZipCode(zip); err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(zip[:5])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, zip)
	}
	return n, nil
}
