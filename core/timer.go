package core

import "runtime"

// Timer constants for the reference board
const (
	SMCLKFreq        = 16000000 // 16MHz calibrated DCO
	TimerClkDivider  = 8
	TimerFreq        = SMCLKFreq / TimerClkDivider // 2MHz
	TimerPeriodMs    = 1
	TimerCountsPerMs = TimerFreq / 1000

	// WDTIntervalUs is the watchdog interval timer period used by the
	// accumulator tick source (SMCLK / 8192 at 16MHz).
	WDTIntervalUs = 512

	usPerMs = 1000
)

// Ticker is a wrapping millisecond counter advanced from interrupt context.
// Every access goes through Critical.
type Ticker struct {
	ms        uint32
	remainder uint16 // accumulated microseconds below one millisecond

	// Idle is called between polls in DelayMs.
	Idle func()
}

// SystemTick is the process-wide tick advanced by the timer interrupt.
var SystemTick = &Ticker{}

// NewTicker creates a ticker starting at zero.
func NewTicker() *Ticker {
	return &Ticker{}
}

// Tick is the body of the 1ms timer interrupt. It advances the counter by one
// and does nothing else.
func (t *Ticker) Tick() {
	Critical(func() {
		t.ms++
	})
}

// TickMicros is the body of a sub-millisecond interval interrupt. It adds us
// to the remainder and carries into the millisecond counter once 1000us have
// accumulated.
func (t *Ticker) TickMicros(us uint16) {
	Critical(func() {
		t.remainder += us
		for t.remainder >= usPerMs {
			t.ms++
			t.remainder -= usPerMs
		}
	})
}

// Now returns the current tick. The read is masked so a multi-byte counter
// is never observed half-updated.
func (t *Ticker) Now() uint32 {
	var ms uint32
	Critical(func() {
		ms = t.ms
	})
	return ms
}

// Remainder returns the accumulated sub-millisecond microseconds.
func (t *Ticker) Remainder() uint16 {
	var us uint16
	Critical(func() {
		us = t.remainder
	})
	return us
}

// Set sets the current tick (for testing/hardware integration)
func (t *Ticker) Set(ms uint32) {
	Critical(func() {
		t.ms = ms
		t.remainder = 0
	})
}

// Elapsed returns the milliseconds since the tick value since.
func (t *Ticker) Elapsed(since uint32) uint32 {
	return Elapsed(t.Now(), since)
}

// DelayMs busy-waits until ms milliseconds have elapsed.
func (t *Ticker) DelayMs(ms uint32) {
	start := t.Now()
	for t.Elapsed(start) < ms {
		if t.Idle != nil {
			t.Idle()
		} else {
			runtime.Gosched()
		}
	}
}

// Elapsed computes now - since with unsigned wrap-around, so a counter that
// rolled over (every ~49.7 days at 1ms) still yields the true distance.
func Elapsed(now, since uint32) uint32 {
	return now - since
}

// Millis returns the system tick in milliseconds
func Millis() uint32 {
	return SystemTick.Now()
}

// DelayMs busy-waits on the system tick
func DelayMs(ms uint32) {
	SystemTick.DelayMs(ms)
}

// TimerInit resets the system tick. Platform code programs the hardware timer.
func TimerInit() {
	SystemTick.Set(0)
}
