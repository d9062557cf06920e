package cli

import (
	"context"
	"errors"

	psvmerrors "github.com/paritytech/psvm/pkg/errors"
	"github.com/paritytech/psvm/pkg/integrations"
)

// Exit statuses returned by [ExitCode].
const (
	ExitOK       = 0
	ExitFailure  = 1
	ExitUsage    = 2
	ExitMismatch = 3
	ExitNotFound = 4
	ExitNetwork  = 5
	ExitCanceled = 130
)

// ExitCode maps an error returned by a command to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if errors.Is(err, context.Canceled) {
		return ExitCanceled
	}
	switch psvmerrors.GetCode(err) {
	case psvmerrors.ErrCodeMismatch:
		return ExitMismatch
	case psvmerrors.ErrCodeInvalidInput, psvmerrors.ErrCodeInvalidRelease, psvmerrors.ErrCodeInvalidPath,
		psvmerrors.ErrCodeInvalidManifest, psvmerrors.ErrCodeInvalidCrate:
		return ExitUsage
	case psvmerrors.ErrCodeNotFound, psvmerrors.ErrCodeUnknownFamily, psvmerrors.ErrCodeSnapshotNotFound:
		return ExitNotFound
	case psvmerrors.ErrCodeNetwork, psvmerrors.ErrCodeRateLimited:
		return ExitNetwork
	}
	switch {
	case errors.Is(err, integrations.ErrNotFound):
		return ExitNotFound
	case errors.Is(err, integrations.ErrNetwork):
		return ExitNetwork
	}
	return ExitFailure
}
