//go:build msp430g2553

package main

import (
	"runtime/volatile"
	"unsafe"

	"ledfw/core"
)

// MSP430G2553 digital I/O register map
const (
	p1IN   = 0x0020
	p1OUT  = 0x0021
	p1DIR  = 0x0022
	p1SEL  = 0x0026
	p1REN  = 0x0027
	p1SEL2 = 0x0041

	p2IN   = 0x0028
	p2OUT  = 0x0029
	p2DIR  = 0x002A
	p2SEL  = 0x002E
	p2REN  = 0x002F
	p2SEL2 = 0x0042
)

func reg8(addr uintptr) *volatile.Register8 {
	return (*volatile.Register8)(unsafe.Pointer(addr))
}

// portRegs is indexed by [port][core.Register]
var portRegs = [core.PortCount][core.RegisterCount]*volatile.Register8{
	{
		core.RegDir:  reg8(p1DIR),
		core.RegRen:  reg8(p1REN),
		core.RegOut:  reg8(p1OUT),
		core.RegIn:   reg8(p1IN),
		core.RegSel:  reg8(p1SEL),
		core.RegSel2: reg8(p1SEL2),
	},
	{
		core.RegDir:  reg8(p2DIR),
		core.RegRen:  reg8(p2REN),
		core.RegOut:  reg8(p2OUT),
		core.RegIn:   reg8(p2IN),
		core.RegSel:  reg8(p2SEL),
		core.RegSel2: reg8(p2SEL2),
	},
}

// portBank implements core.RegisterBank on the memory-mapped port registers
type portBank struct{}

func (portBank) Read(port uint8, reg core.Register) uint8 {
	return portRegs[port][reg].Get()
}

func (portBank) SetBits(port uint8, reg core.Register, mask uint8) {
	portRegs[port][reg].SetBits(mask)
}

func (portBank) ClearBits(port uint8, reg core.Register, mask uint8) {
	portRegs[port][reg].ClearBits(mask)
}
