// Package expander provides a core.RegisterBank backed by an MCP23017 16-bit
// I2C port expander, so the resolver and LED scheduler can drive pins that
// live off-chip.
//
// Port 0 maps to the expander's bank A and port 1 to bank B. The expander is
// used in its power-on (paired, IOCON.BANK=0) register layout:
//
//	core register   MCP23017 register
//	DIR             IODIR (inverted: MCP 1 = input)
//	REN             GPPU  (pull-up only)
//	OUT             OLAT
//	IN              GPIO  (read from the device)
//	SEL, SEL2       no equivalent; kept in a local shadow
//
// Register writes cannot fail at the core.RegisterBank boundary. A bus error
// is latched and reported through Err; later writes keep updating the shadow
// and retry the bus.
package expander

import (
	"errors"
	"fmt"

	"ledfw/core"

	"tinygo.org/x/drivers"
)

// Address is the default 7-bit I2C address (A2..A0 tied low).
const Address = 0x20

// Register addresses in paired mode.
const (
	regIODIRA = 0x00
	regIODIRB = 0x01
	regIPOLA  = 0x02
	regIPOLB  = 0x03
	regGPPUA  = 0x0C
	regGPPUB  = 0x0D
	regGPIOA  = 0x12
	regGPIOB  = 0x13
	regOLATA  = 0x14
	regOLATB  = 0x15
)

// Errors returned by the bank.
var (
	ErrNoDevice = errors.New("mcp23017: no device")
)

// Bank implements core.RegisterBank over an MCP23017.
type Bank struct {
	bus     drivers.I2C
	address uint16

	// Last value written (or read back) for each core register.
	shadow [core.PortCount][core.RegisterCount]uint8

	err error
}

// New creates a bank on bus at address (0 means Address). It does not touch
// the device; call Reset to push a known state.
func New(bus drivers.I2C, address uint16) *Bank {
	if address == 0 {
		address = Address
	}
	b := &Bank{bus: bus, address: address}
	b.resetShadow()
	return b
}

func (b *Bank) resetShadow() {
	b.shadow = [core.PortCount][core.RegisterCount]uint8{}
	// Power-on IODIR is all inputs, which reads as DIR=0 on the core side.
}

// Reset writes the power-on defaults to both banks: all pins input, no pull-ups,
// non-inverted polarity, output latches low.
func (b *Bank) Reset() error {
	b.resetShadow()
	b.err = nil

	writes := [][2]uint8{
		{regIODIRA, 0xFF}, {regIODIRB, 0xFF},
		{regIPOLA, 0x00}, {regIPOLB, 0x00},
		{regGPPUA, 0x00}, {regGPPUB, 0x00},
		{regOLATA, 0x00}, {regOLATB, 0x00},
	}
	for _, w := range writes {
		if err := b.writeReg(w[0], w[1]); err != nil {
			return err
		}
	}
	return nil
}

// Err returns the first bus error since the last Reset or ClearErr.
func (b *Bank) Err() error {
	return b.err
}

// ClearErr forgets a latched bus error.
func (b *Bank) ClearErr() {
	b.err = nil
}

// Read returns the register byte. IN is sampled from the device; everything
// else comes from the shadow.
func (b *Bank) Read(port uint8, reg core.Register) uint8 {
	if port >= core.PortCount || reg >= core.RegisterCount {
		return 0
	}
	if reg != core.RegIn {
		return b.shadow[port][reg]
	}

	if b.bus == nil {
		b.latch(ErrNoDevice)
		return b.shadow[port][reg]
	}
	var buf [1]uint8
	if err := b.bus.Tx(b.address, []byte{deviceReg(port, reg)}, buf[:]); err != nil {
		b.latch(fmt.Errorf("mcp23017: read %s port %d: %w", reg, port, err))
		return b.shadow[port][reg]
	}
	b.shadow[port][reg] = buf[0]
	return buf[0]
}

// SetBits sets the masked bits.
func (b *Bank) SetBits(port uint8, reg core.Register, mask uint8) {
	if port >= core.PortCount || reg >= core.RegisterCount {
		return
	}
	b.store(port, reg, b.shadow[port][reg]|mask)
}

// ClearBits clears the masked bits.
func (b *Bank) ClearBits(port uint8, reg core.Register, mask uint8) {
	if port >= core.PortCount || reg >= core.RegisterCount {
		return
	}
	b.store(port, reg, b.shadow[port][reg]&^mask)
}

func (b *Bank) store(port uint8, reg core.Register, value uint8) {
	b.shadow[port][reg] = value

	switch reg {
	case core.RegSel, core.RegSel2:
		// No peripheral mux on the expander.
		return
	case core.RegIn:
		// Input register is read only.
		return
	}

	wire := value
	if reg == core.RegDir {
		wire = ^value
	}
	if err := b.writeReg(deviceReg(port, reg), wire); err != nil {
		b.latch(err)
	}
}

func (b *Bank) writeReg(addr, value uint8) error {
	if b.bus == nil {
		return ErrNoDevice
	}
	if err := b.bus.Tx(b.address, []byte{addr, value}, nil); err != nil {
		return fmt.Errorf("mcp23017: write reg 0x%02X: %w", addr, err)
	}
	return nil
}

func (b *Bank) latch(err error) {
	if b.err == nil {
		b.err = err
		core.DebugPrintln("[EXPANDER] " + err.Error())
	}
}

// deviceReg maps a core register on a port to the MCP23017 register address.
func deviceReg(port uint8, reg core.Register) uint8 {
	var base uint8
	switch reg {
	case core.RegDir:
		base = regIODIRA
	case core.RegRen:
		base = regGPPUA
	case core.RegOut:
		base = regOLATA
	case core.RegIn:
		base = regGPIOA
	}
	// B registers directly follow A registers in paired mode.
	return base + port
}
