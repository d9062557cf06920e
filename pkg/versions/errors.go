package versions

import (
	"context"
	"errors"
	"fmt"

	psvmerrors "github.com/paritytech/psvm/pkg/errors"
	"github.com/paritytech/psvm/pkg/integrations"
)

// ResolutionError reports a failed resolution of one release.
type ResolutionError struct {
	Release string
	Code    psvmerrors.Code
	Err     error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve %s: %v", e.Release, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// ErrorCode returns the error category, one of NOT_FOUND, NETWORK_ERROR,
// INVALID_FORMAT, INVALID_RELEASE, UNKNOWN_FAMILY or, for snapshots,
// SNAPSHOT_NOT_FOUND.
func (e *ResolutionError) ErrorCode() psvmerrors.Code { return e.Code }

func resolutionError(release string, err error) *ResolutionError {
	var re *ResolutionError
	if errors.As(err, &re) {
		return re
	}
	return &ResolutionError{Release: release, Code: classify(err), Err: err}
}

func classify(err error) psvmerrors.Code {
	switch {
	case errors.Is(err, integrations.ErrNotFound):
		return psvmerrors.ErrCodeNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, integrations.ErrNetwork):
		return psvmerrors.ErrCodeNetwork
	}
	switch code := psvmerrors.GetCode(err); code {
	case psvmerrors.ErrCodeInvalidFormat, psvmerrors.ErrCodeUnknownFamily, psvmerrors.ErrCodeInvalidRelease,
		psvmerrors.ErrCodeSnapshotNotFound, psvmerrors.ErrCodeInternal:
		return code
	}
	return psvmerrors.ErrCodeNetwork
}
