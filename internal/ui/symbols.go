package ui

// Timeline symbols for per-attempt outcomes. One column per probe attempt,
// so these stay single-cell ASCII.
const (
	SymbolSuccess = "." // Reply received under the slow threshold
	SymbolSlow    = "!" // Reply received at or above the slow threshold
	SymbolFail    = "x" // No reply
)

// Summary symbols for end-of-run status.
const (
	SymbolPass     = "✓" // Host answered at least once
	SymbolFailMark = "✗" // Host never answered
)
