package entities

import (
	"errors"
	"fmt"
)

// ErrInvalidMethod is returned when a verification method is not recognised.
var ErrInvalidMethod = errors.New("invalid verification method")

// Method is a verification method.
type Method string

const (
	// MethodID is ID photos plus a gesture video.
	MethodID Method = "id"

	// MethodCross is a screenshot of a verified role from a trusted server.
	MethodCross Method = "cross"

	// MethodVouch is a vouch from a trusted member.
	MethodVouch Method = "vouch"
)

// Methods is every method in the order they are offered to the user.
var Methods = []Method{MethodID, MethodCross, MethodVouch}

// ParseMethod parses the value of the method select menu.
func ParseMethod(s string) (Method, error) {
	switch m := Method(s); m {
	case MethodID, MethodCross, MethodVouch:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMethod, s)
	}
}

// String implements the fmt.Stringer interface.
func (m Method) String() string {
	return string(m)
}

// CollectsFiles reports whether the method is completed by uploading attachments.
func (m Method) CollectsFiles() bool {
	return m == MethodID || m == MethodCross
}
