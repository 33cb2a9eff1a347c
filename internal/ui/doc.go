// Package ui provides terminal output components for svcmon's CLI commands.
//
// The dashboard itself lives in the monitor package; this package covers
// the one-shot commands (check, host list, restart) that print and exit.
//
// # Components Overview
//
//	Spinner          - Animated status indicator for a running probe
//	RenderCheckTable - Per-host service results for 'svcmon check'
//	RenderSimpleTable - Plain column tables (host and service lists)
//
// # Color Scheme
//
//	ColorSuccess (green) - Available services
//	ColorError   (red)   - Services not working
//	ColorWarning (amber) - Unreachable hosts and warnings
//	ColorInfo    (cyan)  - Checks in progress
//	ColorMuted   (gray)  - Secondary text, timing info
//
// Use DisableColors() to switch to monochrome output (for --no-color flag).
package ui
