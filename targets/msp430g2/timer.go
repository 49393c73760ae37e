//go:build msp430g2553

package main

import (
	"runtime/interrupt"
	"runtime/volatile"
	"unsafe"

	"ledfw/core"
)

// Timer A0 registers and bits
const (
	regTA0CTL   = 0x0160
	regTA0CCTL0 = 0x0162
	regTA0CCR0  = 0x0172

	taSSEL2 = 0x0200 // SMCLK
	id3     = 0x00C0 // /8
	mc1     = 0x0010 // up mode
	taCLR   = 0x0004
	ccIE    = 0x0010

	irqTimer0A0 = 9  // TIMER0_A0_VECTOR
	irqWDT      = 10 // WDT_VECTOR
)

var (
	ta0CTL   = (*volatile.Register16)(unsafe.Pointer(uintptr(regTA0CTL)))
	ta0CCTL0 = (*volatile.Register16)(unsafe.Pointer(uintptr(regTA0CCTL0)))
	ta0CCR0  = (*volatile.Register16)(unsafe.Pointer(uintptr(regTA0CCR0)))
)

// startTickTimer runs Timer A0 from SMCLK/8 (2MHz) in up mode with
// CCR0 = 1999, so CCR0 matches once per millisecond.
func startTickTimer() {
	intr := interrupt.New(irqTimer0A0, func(interrupt.Interrupt) {
		// CCIFG for CCR0 is cleared by hardware
		core.SystemTick.Tick()
	})
	intr.Enable()

	ta0CTL.Set(taSSEL2 | id3 | mc1 | taCLR)
	ta0CCR0.Set(core.TimerCountsPerMs*core.TimerPeriodMs - 1)
	ta0CCTL0.SetBits(ccIE)
}

// startTickWDT uses the watchdog as a 512us interval timer and accumulates
// whole milliseconds in the tick.
func startTickWDT() {
	intr := interrupt.New(irqWDT, func(interrupt.Interrupt) {
		core.SystemTick.TickMicros(core.WDTIntervalUs)
	})
	intr.Enable()

	wdtCTL.Set(wdtMDLY8)
	ie1.SetBits(wdtIE)
}
