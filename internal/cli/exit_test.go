package cli

import (
	"context"
	"errors"
	"fmt"
	"testing"

	psvmerrors "github.com/paritytech/psvm/pkg/errors"
	"github.com/paritytech/psvm/pkg/integrations"
	"github.com/paritytech/psvm/pkg/versions"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"plain", errors.New("boom"), ExitFailure},
		{"canceled", fmt.Errorf("resolve: %w", context.Canceled), ExitCanceled},
		{"mismatch", psvmerrors.New(psvmerrors.ErrCodeMismatch, "2 dependencies"), ExitMismatch},
		{"invalid path", psvmerrors.New(psvmerrors.ErrCodeInvalidPath, "missing"), ExitUsage},
		{"invalid manifest", psvmerrors.New(psvmerrors.ErrCodeInvalidManifest, "bad"), ExitUsage},
		{"invalid release", psvmerrors.New(psvmerrors.ErrCodeInvalidRelease, "bad"), ExitUsage},
		{
			"release not found",
			&versions.ResolutionError{Release: "9.9.9", Code: psvmerrors.ErrCodeNotFound, Err: integrations.ErrNotFound},
			ExitNotFound,
		},
		{"unknown family", psvmerrors.New(psvmerrors.ErrCodeUnknownFamily, "acala"), ExitNotFound},
		{
			"network",
			&versions.ResolutionError{Release: "1.6.0", Code: psvmerrors.ErrCodeNetwork, Err: integrations.ErrNetwork},
			ExitNetwork,
		},
		{"rate limited", &psvmerrors.RateLimitedError{RetryAfter: 60}, ExitNetwork},
		{"bare not found", fmt.Errorf("list: %w", integrations.ErrNotFound), ExitNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
