// Package cli implements the svcmon command-line interface.
//
// Each Cobra command is a thin wrapper around a function that takes an
// io.Writer and returns an error (and, for check and restart, an exit
// code). The functions build what they need through loadApp, which reads
// the config, loads the host and service registry, and wires the SSH
// executor, checker and status store together.
//
// # Command Structure
//
//	svcmon                       - Live dashboard (same as svcmon monitor)
//	svcmon check [--host] [--json] - One-shot check of every service
//	svcmon restart <host> <svc>  - Restart a service and re-check it
//	svcmon host [add|list]       - Manage registered hosts
//	svcmon service [add|list]    - Manage monitored services
//	svcmon config [init|path]    - Write or locate the config file
//
// # Output
//
// Tables and JSON go to stdout. Spinners and probe log lines go to
// stderr, so `svcmon check --json | jq` stays parseable. Probe log lines
// are only printed with --verbose.
//
// # Exit Codes
//
// check and restart exit 1 when a service is not available afterwards.
// Errors exit 1 and unknown commands exit 2.
package cli
