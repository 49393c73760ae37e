//go:build msp430g2553

package main

import (
	"device"
	"runtime/volatile"
	"unsafe"
)

// Watchdog, basic clock system and calibration data
const (
	regWDTCTL   = 0x0120
	regIE1      = 0x0000
	regDCOCTL   = 0x0056
	regBCSCTL1  = 0x0057
	regBCSCTL2  = 0x0058
	calDCO16MHz = 0x10F8 // CALDCO_16MHZ in info flash
	calBC116MHz = 0x10F9 // CALBC1_16MHZ in info flash

	wdtPW    = 0x5A00
	wdtHOLD  = 0x0080
	wdtTMSEL = 0x0010
	wdtCNTCL = 0x0008
	wdtIS0   = 0x0001
	wdtIE    = 0x01

	// Interval mode, SMCLK/8192: 512us at 16MHz
	wdtMDLY8 = wdtPW | wdtTMSEL | wdtCNTCL | wdtIS0

	divS0 = 0x00
)

var (
	wdtCTL  = (*volatile.Register16)(unsafe.Pointer(uintptr(regWDTCTL)))
	ie1     = (*volatile.Register8)(unsafe.Pointer(uintptr(regIE1)))
	dcoCTL  = (*volatile.Register8)(unsafe.Pointer(uintptr(regDCOCTL)))
	bcsCTL1 = (*volatile.Register8)(unsafe.Pointer(uintptr(regBCSCTL1)))
	bcsCTL2 = (*volatile.Register8)(unsafe.Pointer(uintptr(regBCSCTL2)))
	calDCO  = (*volatile.Register8)(unsafe.Pointer(uintptr(calDCO16MHz)))
	calBC1  = (*volatile.Register8)(unsafe.Pointer(uintptr(calBC116MHz)))
)

// mcuInit stops the watchdog, runs the DCO at 16MHz from the factory
// calibration and enables interrupts. Must run before any port register write.
func mcuInit() {
	disableWatchdog()
	configureClocks()
	device.Asm("eint")
	device.Asm("nop")
}

func disableWatchdog() {
	wdtCTL.Set(wdtPW | wdtHOLD)
}

func configureClocks() {
	// Erased calibration reads 0xFF; keep the reset DCO in that case.
	if calBC1.Get() != 0xFF {
		dcoCTL.Set(calDCO.Get())
		bcsCTL1.Set(calBC1.Get())
	}

	// SMCLK from DCO, divider 1
	bcsCTL2.Set(divS0)
}
