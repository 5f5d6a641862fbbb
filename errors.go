package transition

import (
	"github.com/cockroachdb/errors"
)

var (
	// ErrInvalidTransition marks a transition request the caller should never
	// have made, such as a same-layout transition of a read-only layout.
	ErrInvalidTransition = errors.New("invalid transition request")

	// ErrMalformedBarrier marks a barrier descriptor that cannot be accumulated:
	// one carrying a Next chain, or a buffer range with a bad offset or size.
	ErrMalformedBarrier = errors.New("malformed barrier descriptor")
)

func invalidTransitionf(format string, args ...interface{}) error {
	return errors.Mark(errors.AssertionFailedf(format, args...), ErrInvalidTransition)
}

func malformedBarrierf(format string, args ...interface{}) error {
	return errors.Mark(errors.AssertionFailedf(format, args...), ErrMalformedBarrier)
}
