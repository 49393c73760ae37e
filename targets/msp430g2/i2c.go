//go:build msp430g2553

package main

import (
	"errors"
	"runtime/volatile"
	"unsafe"

	"ledfw/core"
)

// USCI_B0 in I2C master mode
const (
	regUCB0CTL0  = 0x0068
	regUCB0CTL1  = 0x0069
	regUCB0BR0   = 0x006A
	regUCB0BR1   = 0x006B
	regUCB0STAT  = 0x006D
	regUCB0RXBUF = 0x006E
	regUCB0TXBUF = 0x006F
	regUCB0I2CSA = 0x011A
	regIFG2      = 0x0003

	ucMST    = 0x08
	ucMODE3  = 0x06 // I2C
	ucSYNC   = 0x01
	ucSSEL2  = 0x80 // SMCLK
	ucTR     = 0x10
	ucTXSTP  = 0x04
	ucTXSTT  = 0x02
	ucSWRST  = 0x01
	ucNACKIF = 0x08
	ucBBUSY  = 0x10

	ucB0RXIFG = 0x04
	ucB0TXIFG = 0x08

	// SMCLK 16MHz / 160 = 100kHz
	i2cDivider = core.SMCLKFreq / 100000

	// Spins before a flag wait gives up
	i2cSpinLimit = 20000
)

// P1.6 and P1.7 route to UCB0SCL and UCB0SDA with SEL=1 SEL2=1. P1.6 is
// also the on-board green LED, so its jumper must be removed.
const (
	pinSCL = core.IO16
	pinSDA = core.IO17
)

var i2cPinConfig = core.PinConfig{
	Select:    core.SelectAlt3,
	Resistor:  core.ResistorDisabled,
	Direction: core.DirInput,
	Output:    core.Low,
}

var (
	errI2CNack    = errors.New("i2c: nack")
	errI2CTimeout = errors.New("i2c: timeout")
)

var (
	ucb0CTL0  = (*volatile.Register8)(unsafe.Pointer(uintptr(regUCB0CTL0)))
	ucb0CTL1  = (*volatile.Register8)(unsafe.Pointer(uintptr(regUCB0CTL1)))
	ucb0BR0   = (*volatile.Register8)(unsafe.Pointer(uintptr(regUCB0BR0)))
	ucb0BR1   = (*volatile.Register8)(unsafe.Pointer(uintptr(regUCB0BR1)))
	ucb0STAT  = (*volatile.Register8)(unsafe.Pointer(uintptr(regUCB0STAT)))
	ucb0RXBUF = (*volatile.Register8)(unsafe.Pointer(uintptr(regUCB0RXBUF)))
	ucb0TXBUF = (*volatile.Register8)(unsafe.Pointer(uintptr(regUCB0TXBUF)))
	ucb0I2CSA = (*volatile.Register16)(unsafe.Pointer(uintptr(regUCB0I2CSA)))
	ifg2      = (*volatile.Register8)(unsafe.Pointer(uintptr(regIFG2)))
)

// usciI2C is a polled I2C master on USCI_B0. It satisfies drivers.I2C.
type usciI2C struct{}

// configure routes the pins through the resolver and sets up the module at
// 100kHz. The register bank must already be the on-chip port bank.
func (usciI2C) configure() {
	core.ConfigurePin(pinSCL, i2cPinConfig)
	core.ConfigurePin(pinSDA, i2cPinConfig)

	ucb0CTL1.Set(ucSWRST)
	ucb0CTL0.Set(ucMST | ucMODE3 | ucSYNC)
	ucb0CTL1.Set(ucSSEL2 | ucSWRST)
	ucb0BR0.Set(uint8(i2cDivider & 0xFF))
	ucb0BR1.Set(uint8(i2cDivider >> 8))
	ucb0CTL1.ClearBits(ucSWRST)
}

// Tx writes w and then, after a repeated start, reads len(r) bytes.
func (b usciI2C) Tx(addr uint16, w, r []byte) error {
	if !spinUntil(func() bool { return ucb0STAT.Get()&ucBBUSY == 0 }) {
		return errI2CTimeout
	}
	ucb0I2CSA.Set(addr)

	if len(w) > 0 {
		if err := b.write(w, len(r) == 0); err != nil {
			return err
		}
	}
	if len(r) > 0 {
		return b.read(r)
	}
	return nil
}

func (b usciI2C) write(w []byte, stop bool) error {
	ucb0CTL1.SetBits(ucTR | ucTXSTT)
	for _, c := range w {
		if err := b.waitFlag(ucB0TXIFG); err != nil {
			return err
		}
		ucb0TXBUF.Set(c)
	}
	// Last byte moved into the shift register
	if err := b.waitFlag(ucB0TXIFG); err != nil {
		return err
	}
	if stop {
		return b.stop()
	}
	return nil
}

func (b usciI2C) read(r []byte) error {
	ucb0CTL1.ClearBits(ucTR)
	ucb0CTL1.SetBits(ucTXSTT)
	if !spinUntil(func() bool { return ucb0CTL1.Get()&ucTXSTT == 0 }) {
		return errI2CTimeout
	}
	if ucb0STAT.Get()&ucNACKIF != 0 {
		b.stop()
		ucb0STAT.ClearBits(ucNACKIF)
		return errI2CNack
	}

	for i := range r {
		// STP is set while the last byte is being received
		if i == len(r)-1 {
			ucb0CTL1.SetBits(ucTXSTP)
		}
		if !spinUntil(func() bool { return ifg2.Get()&ucB0RXIFG != 0 }) {
			return errI2CTimeout
		}
		r[i] = ucb0RXBUF.Get()
	}
	if !spinUntil(func() bool { return ucb0CTL1.Get()&ucTXSTP == 0 }) {
		return errI2CTimeout
	}
	return nil
}

// waitFlag waits for an IFG2 flag, aborting the transfer on a NACK.
func (b usciI2C) waitFlag(flag uint8) error {
	for i := 0; i < i2cSpinLimit; i++ {
		if ucb0STAT.Get()&ucNACKIF != 0 {
			b.stop()
			ucb0STAT.ClearBits(ucNACKIF)
			return errI2CNack
		}
		if ifg2.Get()&flag != 0 {
			return nil
		}
	}
	b.stop()
	return errI2CTimeout
}

func (usciI2C) stop() error {
	ucb0CTL1.SetBits(ucTXSTP)
	if !spinUntil(func() bool { return ucb0CTL1.Get()&ucTXSTP == 0 }) {
		return errI2CTimeout
	}
	return nil
}

func spinUntil(done func() bool) bool {
	for i := 0; i < i2cSpinLimit; i++ {
		if done() {
			return true
		}
	}
	return false
}
