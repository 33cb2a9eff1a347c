package ui

// Unicode symbols for status indicators.
const (
	SymbolSuccess  = "◉" // Service available
	SymbolFail     = "✕" // Service not working
	SymbolPending  = "◇" // Not yet checked
	SymbolProgress = "◆" // Check in progress
	SymbolComplete = "●" // Operation done
	SymbolSkipped  = "⊖" // Host unreachable, checks skipped
	SymbolWarning  = "⚠"
)
