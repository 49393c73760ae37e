package core

// Pin identifies a GPIO pin by port and bit.
// Bits [4:3] hold the port index, bits [2:0] the pin index within the port.
type Pin uint8

const (
	PortCount   = 2 // P1 and P2
	PinsPerPort = 8

	pinPortOffset = 3
	pinPortMask   = 0x3 << pinPortOffset
	pinIndexMask  = 0x7
)

// Generic pin identifiers. IOxy is port x, bit y (1-based port numbering as
// printed on the board).
const (
	IO10 Pin = iota
	IO11
	IO12
	IO13
	IO14
	IO15
	IO16
	IO17
	IO20
	IO21
	IO22
	IO23
	IO24
	IO25
	IO26
	IO27
)

// Board aliases. Equal in value to the generic identifiers they name.
const (
	LEDRed   = IO10
	LEDGreen = IO16
)

// Port returns the register table index for the pin.
func (p Pin) Port() uint8 {
	return (uint8(p) & pinPortMask) >> pinPortOffset
}

// Index returns the bit position within the port (0-7).
func (p Pin) Index() uint8 {
	return uint8(p) & pinIndexMask
}

// Mask returns the single-bit mask for the pin within its port registers.
func (p Pin) Mask() uint8 {
	return 1 << p.Index()
}

// Valid reports whether the pin addresses an existing port.
func (p Pin) Valid() bool {
	return uint8(p)&^(pinPortMask|pinIndexMask) == 0 && p.Port() < PortCount
}

// String returns the board name of the pin, e.g. "P1.6".
func (p Pin) String() string {
	if !p.Valid() {
		return "P?." + utoa(uint32(p))
	}
	return "P" + utoa(uint32(p.Port())+1) + "." + utoa(uint32(p.Index()))
}
