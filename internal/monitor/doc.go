// Package monitor drives service checks across every registered host and
// renders the results as a live TUI grid.
//
// # Architecture
//
// The Orchestrator owns refresh scheduling. Each host refresh runs in its
// own goroutine: it first checks SSH reachability, then probes every
// registered service in registration order, writing each result to the
// status store as soon as it lands. A semaphore bounds how many hosts are
// refreshed at once when max_concurrency is set.
//
// The dashboard is a Bubble Tea model (Model-Update-View):
//
//   - Model: registry snapshot, cursor, log pane, restarts in flight
//   - Update: keystrokes, store updates, log lines, spinner ticks
//   - View: the host × service grid plus detail, log pane and footer
//
// Store updates and log lines reach the model through channels that are
// polled by tea.Cmds, so probe goroutines never touch UI state directly.
//
// # Key Components
//
//	Orchestrator - Fans out host refreshes and writes to the status store
//	Model        - The Bubble Tea model containing all dashboard state
//	LogFeed      - Non-blocking bridge from loggers to the log pane
//
// # Keyboard Shortcuts
//
//	q, Ctrl+C  - Quit
//	r          - Refresh selected host
//	R          - Refresh all hosts
//	Enter, x   - Restart selected service
//	arrows     - Move selection (also hjkl)
//	PgUp/PgDn  - Scroll log pane
//	?          - Toggle help
//
// # Status Colors
//
//	Green  - available
//	Red    - not working or unreachable
//	Amber  - checking
//	Gray   - not yet checked
package monitor
