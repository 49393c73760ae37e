package core

// Register names one of the per-port GPIO register families.
type Register uint8

const (
	RegDir  Register = iota // PxDIR: 1 = output
	RegRen                  // PxREN: pull resistor enable
	RegOut                  // PxOUT: output latch, pull select when REN is set
	RegIn                   // PxIN: pin level (read only on hardware)
	RegSel                  // PxSEL: function select bit 0
	RegSel2                 // PxSEL2: function select bit 1

	RegisterCount = 6
)

var registerNames = [RegisterCount]string{"DIR", "REN", "OUT", "IN", "SEL", "SEL2"}

func (r Register) String() string {
	if int(r) < len(registerNames) {
		return registerNames[r]
	}
	return "REG?"
}

// RegisterBank is the abstract register interface that core code uses.
// Platform-specific implementations map (port, register) pairs onto hardware.
// Writes are single-bit read-modify-write operations and cannot fail.
type RegisterBank interface {
	// Read returns the current byte of the register for the port.
	Read(port uint8, reg Register) uint8

	// SetBits sets the masked bits of the register.
	SetBits(port uint8, reg Register, mask uint8)

	// ClearBits clears the masked bits of the register.
	ClearBits(port uint8, reg Register, mask uint8)
}

// Global singleton used by core code.
var registerBank RegisterBank

// SetRegisterBank is called by target-specific code to register its bank.
func SetRegisterBank(b RegisterBank) {
	registerBank = b
}

// MustRegisters returns the configured bank or panics if missing.
func MustRegisters() RegisterBank {
	if registerBank == nil {
		panic("register bank not configured")
	}
	return registerBank
}

// MemoryBank is a RegisterBank held in RAM. It stands in for the
// memory-mapped port registers on the host and in tests.
type MemoryBank struct {
	regs [PortCount][RegisterCount]uint8

	// Loopback mirrors every OUT write into IN, as if each output pin
	// were wired back to itself.
	Loopback bool

	// Writes counts SetBits/ClearBits calls; WriteLog records them in order
	// when non-nil.
	Writes   int
	WriteLog *[]RegisterWrite
}

// RegisterWrite is one recorded MemoryBank write.
type RegisterWrite struct {
	Port uint8
	Reg  Register
	Mask uint8
	Set  bool
}

// NewMemoryBank creates a zeroed bank.
func NewMemoryBank() *MemoryBank {
	return &MemoryBank{}
}

// Read returns the register byte. Out-of-range addresses read as zero.
func (m *MemoryBank) Read(port uint8, reg Register) uint8 {
	if port >= PortCount || reg >= RegisterCount {
		return 0
	}
	return m.regs[port][reg]
}

// SetBits sets the masked bits.
func (m *MemoryBank) SetBits(port uint8, reg Register, mask uint8) {
	m.update(port, reg, mask, true)
}

// ClearBits clears the masked bits.
func (m *MemoryBank) ClearBits(port uint8, reg Register, mask uint8) {
	m.update(port, reg, mask, false)
}

// Write overwrites a whole register byte. Used to drive IN from a test.
func (m *MemoryBank) Write(port uint8, reg Register, value uint8) {
	if port >= PortCount || reg >= RegisterCount {
		return
	}
	m.regs[port][reg] = value
}

func (m *MemoryBank) update(port uint8, reg Register, mask uint8, set bool) {
	if port >= PortCount || reg >= RegisterCount {
		return
	}
	m.Writes++
	if m.WriteLog != nil {
		*m.WriteLog = append(*m.WriteLog, RegisterWrite{Port: port, Reg: reg, Mask: mask, Set: set})
	}

	if set {
		m.regs[port][reg] |= mask
	} else {
		m.regs[port][reg] &^= mask
	}

	if m.Loopback && reg == RegOut {
		if set {
			m.regs[port][RegIn] |= mask
		} else {
			m.regs[port][RegIn] &^= mask
		}
	}
}
