// SPDX-License-Identifier: MIT
package noise

import (
	"errors"
	"fmt"
)

// Error taxonomy. Every error returned by this package wraps one of these;
// callers classify with errors.Is.
var (
	// ErrInvalidParameter rejects a request before any synthesis work.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrSynthesisFailure reports non-finite samples in an intermediate buffer.
	ErrSynthesisFailure = errors.New("synthesis failure")
	// ErrStorageFailure wraps a failed export. It is never retried here.
	ErrStorageFailure = errors.New("storage failure")
)

func invalidf(format string, v ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidParameter, fmt.Sprintf(format, v...))
}
