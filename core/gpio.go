// GPIO (General Purpose Input/Output) support
// Resolves pin identifiers onto port register bits and applies pin configurations
package core

// Select is the pin function: plain GPIO or one of three peripheral routings.
// Encoded as the (SEL, SEL2) bit pair.
type Select uint8

const (
	SelectGPIO Select = iota // SEL=0 SEL2=0
	SelectAlt1               // SEL=1 SEL2=0
	SelectAlt2               // SEL=0 SEL2=1
	SelectAlt3               // SEL=1 SEL2=1
)

// Direction of a pin.
type Direction uint8

const (
	DirInput Direction = iota
	DirOutput
)

// Resistor enables the internal pull resistor.
type Resistor uint8

const (
	ResistorDisabled Resistor = iota
	ResistorEnabled
)

// Level is an output latch value or a sampled input.
// With the resistor enabled on an input, Low selects pull-down and High pull-up.
type Level uint8

const (
	Low Level = iota
	High
)

// Trigger is an input edge. Declared for board description only; edge
// interrupts are not implemented.
type Trigger uint8

const (
	TriggerRising Trigger = iota
	TriggerFalling
)

// PinConfig holds the four independent fields applied by Configure.
type PinConfig struct {
	Select    Select
	Resistor  Resistor
	Direction Direction
	Output    Level
}

// OutputLow is the configuration used for LED pins: GPIO output driven low.
var OutputLow = PinConfig{
	Select:    SelectGPIO,
	Resistor:  ResistorDisabled,
	Direction: DirOutput,
	Output:    Low,
}

// PinDefault is one entry of a board's default pin table.
type PinDefault struct {
	Pin    Pin
	Config PinConfig
}

// DefaultPinTable is applied by InitPins at startup.
var DefaultPinTable = []PinDefault{
	{Pin: LEDRed, Config: OutputLow},
	{Pin: LEDGreen, Config: OutputLow},
}

// Resolver applies pin operations against a RegisterBank.
type Resolver struct {
	bank RegisterBank
}

// NewResolver creates a resolver over bank.
func NewResolver(bank RegisterBank) *Resolver {
	return &Resolver{bank: bank}
}

// Bank returns the underlying register bank.
func (r *Resolver) Bank() RegisterBank {
	return r.bank
}

// Configure applies cfg to pin in the order select, resistor, direction,
// output. Selecting the function first keeps the pin from briefly driving a
// peripheral signal while it turns into an output. The sequence is not atomic.
func (r *Resolver) Configure(pin Pin, cfg PinConfig) {
	r.SetSelect(pin, cfg.Select)
	r.SetResistor(pin, cfg.Resistor)
	r.SetDirection(pin, cfg.Direction)
	r.SetOutput(pin, cfg.Output)
}

// Init applies every entry of table.
func (r *Resolver) Init(table []PinDefault) {
	for _, d := range table {
		r.Configure(d.Pin, d.Config)
	}
}

// SetDirection sets or clears the pin's DIR bit.
func (r *Resolver) SetDirection(pin Pin, dir Direction) {
	if !pin.Valid() {
		return
	}
	r.writeBit(pin, RegDir, dir == DirOutput)
}

// SetResistor sets or clears the pin's REN bit.
func (r *Resolver) SetResistor(pin Pin, res Resistor) {
	if !pin.Valid() {
		return
	}
	r.writeBit(pin, RegRen, res == ResistorEnabled)
}

// SetOutput sets or clears the pin's OUT bit.
func (r *Resolver) SetOutput(pin Pin, level Level) {
	if !pin.Valid() {
		return
	}
	r.writeBit(pin, RegOut, level == High)
}

// SetSelect writes the SEL bit and then the SEL2 bit. Between the two writes
// the pin is briefly in a third mode; the order is the same for every mode.
func (r *Resolver) SetSelect(pin Pin, sel Select) {
	if !pin.Valid() {
		return
	}
	var sel1, sel2 bool
	switch sel {
	case SelectGPIO:
	case SelectAlt1:
		sel1 = true
	case SelectAlt2:
		sel2 = true
	case SelectAlt3:
		sel1, sel2 = true, true
	default:
		return
	}
	r.writeBit(pin, RegSel, sel1)
	r.writeBit(pin, RegSel2, sel2)
}

// GetInput samples the pin's IN bit.
func (r *Resolver) GetInput(pin Pin) Level {
	if !pin.Valid() {
		return Low
	}
	if r.bank.Read(pin.Port(), RegIn)&pin.Mask() != 0 {
		return High
	}
	return Low
}

// GetSelect reads back the (SEL, SEL2) pair as a Select.
func (r *Resolver) GetSelect(pin Pin) Select {
	if !pin.Valid() {
		return SelectGPIO
	}
	var sel Select
	if r.bank.Read(pin.Port(), RegSel)&pin.Mask() != 0 {
		sel |= 1
	}
	if r.bank.Read(pin.Port(), RegSel2)&pin.Mask() != 0 {
		sel |= 2
	}
	return sel
}

func (r *Resolver) writeBit(pin Pin, reg Register, set bool) {
	if set {
		r.bank.SetBits(pin.Port(), reg, pin.Mask())
	} else {
		r.bank.ClearBits(pin.Port(), reg, pin.Mask())
	}
}

// Package-level helpers operating on the registered bank.

// InitPins applies DefaultPinTable using the registered bank.
func InitPins() {
	NewResolver(MustRegisters()).Init(DefaultPinTable)
}

// ConfigurePin applies cfg to pin using the registered bank.
func ConfigurePin(pin Pin, cfg PinConfig) {
	NewResolver(MustRegisters()).Configure(pin, cfg)
}

// SetPinOutput drives pin using the registered bank.
func SetPinOutput(pin Pin, level Level) {
	NewResolver(MustRegisters()).SetOutput(pin, level)
}

// GetPinInput samples pin using the registered bank.
func GetPinInput(pin Pin) Level {
	return NewResolver(MustRegisters()).GetInput(pin)
}
