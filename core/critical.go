package core

// Critical runs fn with interrupts masked. The previous mask state is
// restored when fn returns, including on panic.
//
// Critical sections must be short and must not nest.
func Critical(fn func()) {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	fn()
}
