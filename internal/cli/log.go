// Package cli implements the psvm command-line interface.
//
// The root command resolves a Polkadot SDK release into crate versions and
// rewrites the dependencies of a Cargo.toml to match, or checks them with
// --check. The CLI is built using cobra, reads its configuration through
// viper and logs via the charmbracelet/log library.
//
// # Commands
//
//   - psvm -v <release>: Update or check a manifest
//   - psvm --list: List releases (-O for ORML, -C from cache)
//   - cache: Manage the cached release lists
//   - snapshot: Save release mappings for --offline use
//   - mapping: Print the crate versions of a release as JSON or YAML
//   - serve: Serve release mappings over HTTP
//
// # Logging
//
// All commands support --verbose for debug-level logging. Resolution
// advisories, such as the Cargo.lock fallback, are logged at warning level.
//
// # Exit status
//
// [ExitCode] maps errors to statuses: 2 for invalid input, 3 when --check
// finds mismatches, 4 for missing releases and 5 for network failures.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, e.g. "Resolved 312 crates (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
