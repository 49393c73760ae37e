//go:build !tinygo

package core

import "sync"

// State is a placeholder for interrupt state on regular Go
type State uintptr

// On regular Go the tick is advanced by a goroutine, so the interrupt mask
// is modelled as a mutex. Critical sections must not nest.
var interruptMask sync.Mutex

// disableInterrupts takes the mask lock
func disableInterrupts() State {
	interruptMask.Lock()
	return 0
}

// restoreInterrupts releases the mask lock
func restoreInterrupts(state State) {
	interruptMask.Unlock()
}
