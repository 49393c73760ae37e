// LED blink scheduler
// Cooperative, polled from the main loop against the interrupt-driven system tick
package core

// Default blink periods
const (
	DefaultOnPeriodMs  = 1300
	DefaultOffPeriodMs = 200
)

// LEDState is the logical (and hardware-visible) level of an LED.
type LEDState uint8

const (
	LEDOff LEDState = iota
	LEDOn
)

func (s LEDState) String() string {
	if s == LEDOn {
		return "ON"
	}
	return "OFF"
}

// LEDHandle refers to an LED owned by a Scheduler.
type LEDHandle int

// NoLED is returned by Lookup when no LED matches.
const NoLED LEDHandle = -1

// LEDSpec describes one LED in the scheduler table.
type LEDSpec struct {
	Pin         Pin
	OnPeriodMs  uint16
	OffPeriodMs uint16
}

// DefaultLEDs is the board LED table.
var DefaultLEDs = []LEDSpec{
	{Pin: LEDGreen, OnPeriodMs: DefaultOnPeriodMs, OffPeriodMs: DefaultOffPeriodMs},
	{Pin: LEDRed, OnPeriodMs: DefaultOnPeriodMs, OffPeriodMs: DefaultOffPeriodMs},
}

// LED is the scheduler's record for one output.
type LED struct {
	Pin            Pin
	State          LEDState
	OnPeriodMs     uint16
	OffPeriodMs    uint16
	Blinking       bool
	LastToggleTime uint32
}

// Scheduler owns a fixed table of LEDs and advances blinking ones.
type Scheduler struct {
	leds     []LED
	resolver *Resolver
	ticker   *Ticker
}

// NewScheduler creates a scheduler for specs. Every LED starts OFF and not
// blinking. Zero periods fall back to the defaults.
func NewScheduler(resolver *Resolver, ticker *Ticker, specs ...LEDSpec) *Scheduler {
	s := &Scheduler{
		leds:     make([]LED, len(specs)),
		resolver: resolver,
		ticker:   ticker,
	}
	for i, spec := range specs {
		on, off := spec.OnPeriodMs, spec.OffPeriodMs
		if on == 0 {
			on = DefaultOnPeriodMs
		}
		if off == 0 {
			off = DefaultOffPeriodMs
		}
		s.leds[i] = LED{
			Pin:         spec.Pin,
			State:       LEDOff,
			OnPeriodMs:  on,
			OffPeriodMs: off,
		}
	}
	return s
}

// Init configures every LED pin as a GPIO output driven low.
// The hardware timer feeding the ticker is programmed by the target.
func (s *Scheduler) Init() {
	for i := range s.leds {
		s.resolver.Configure(s.leds[i].Pin, OutputLow)
		s.leds[i].State = LEDOff
	}
}

// Len returns the number of LEDs in the table.
func (s *Scheduler) Len() int {
	return len(s.leds)
}

// Lookup finds the LED driven by pin.
func (s *Scheduler) Lookup(pin Pin) (LEDHandle, bool) {
	for i := range s.leds {
		if s.leds[i].Pin == pin {
			return LEDHandle(i), true
		}
	}
	return NoLED, false
}

func (s *Scheduler) led(h LEDHandle) *LED {
	if h < 0 || int(h) >= len(s.leds) {
		return nil
	}
	return &s.leds[h]
}

// SetState drives the LED and records the new level. It does not touch the
// blinking flag; a blinking LED keeps blinking from the new level.
func (s *Scheduler) SetState(h LEDHandle, state LEDState) {
	led := s.led(h)
	if led == nil {
		return
	}
	s.setState(led, state, s.ticker.Now())
}

func (s *Scheduler) setState(led *LED, state LEDState, now uint32) {
	if state == LEDOn {
		s.resolver.SetOutput(led.Pin, High)
		led.State = LEDOn
	} else {
		s.resolver.SetOutput(led.Pin, Low)
		led.State = LEDOff
	}

	evt := uint8(EvtLEDOff)
	if led.State == LEDOn {
		evt = EvtLEDOn
	}
	var blinking uint32
	if led.Blinking {
		blinking = 1
	}
	traceEvent(evt, led.Pin, now, blinking, 0)
}

// StartBlinking stores the periods and starts a blink cycle with the ON phase.
func (s *Scheduler) StartBlinking(h LEDHandle, onPeriodMs, offPeriodMs uint16) {
	led := s.led(h)
	if led == nil {
		return
	}

	led.OnPeriodMs = onPeriodMs
	led.OffPeriodMs = offPeriodMs

	now := s.ticker.Now()
	led.LastToggleTime = now
	led.Blinking = true
	traceEvent(EvtBlinkStart, led.Pin, now, uint32(onPeriodMs), uint32(offPeriodMs))

	s.setState(led, LEDOn, now)
}

// StopBlinking ends blinking and leaves the LED OFF.
func (s *Scheduler) StopBlinking(h LEDHandle) {
	led := s.led(h)
	if led == nil {
		return
	}

	now := s.ticker.Now()
	led.Blinking = false
	traceEvent(EvtBlinkStop, led.Pin, now, 0, 0)

	s.setState(led, LEDOff, now)
}

// AdvanceAll moves each blinking LED whose current phase has run its
// period into the next phase. The tick is read once so every LED is
// compared against the same instant. At most one transition per LED per call.
func (s *Scheduler) AdvanceAll() {
	now := s.ticker.Now()

	for i := range s.leds {
		led := &s.leds[i]
		if !led.Blinking {
			continue
		}

		elapsed := Elapsed(now, led.LastToggleTime)

		if led.State == LEDOn && elapsed >= uint32(led.OnPeriodMs) {
			traceEvent(EvtPhase, led.Pin, now, elapsed, 0)
			s.setState(led, LEDOff, now)
			led.LastToggleTime = now
		} else if led.State == LEDOff && elapsed >= uint32(led.OffPeriodMs) {
			traceEvent(EvtPhase, led.Pin, now, elapsed, 0)
			s.setState(led, LEDOn, now)
			led.LastToggleTime = now
		}
	}
}

// State returns the LED level, LEDOff for an invalid handle.
func (s *Scheduler) State(h LEDHandle) LEDState {
	if led := s.led(h); led != nil {
		return led.State
	}
	return LEDOff
}

// IsBlinking reports whether the LED is blinking.
func (s *Scheduler) IsBlinking(h LEDHandle) bool {
	if led := s.led(h); led != nil {
		return led.Blinking
	}
	return false
}

// Periods returns the configured on and off periods in milliseconds.
func (s *Scheduler) Periods(h LEDHandle) (onMs, offMs uint16) {
	if led := s.led(h); led != nil {
		return led.OnPeriodMs, led.OffPeriodMs
	}
	return 0, 0
}

// Pin returns the pin driving the LED.
func (s *Scheduler) Pin(h LEDHandle) (Pin, bool) {
	if led := s.led(h); led != nil {
		return led.Pin, true
	}
	return 0, false
}

// Snapshot returns a copy of the LED record.
func (s *Scheduler) Snapshot(h LEDHandle) (LED, bool) {
	if led := s.led(h); led != nil {
		return *led, true
	}
	return LED{}, false
}

// Global scheduler driven by the target main loop.
var ledScheduler *Scheduler

// InitLEDs builds the board scheduler over the registered bank and the system
// tick, and drives every LED low. Call after SetRegisterBank and InitPins.
func InitLEDs() *Scheduler {
	ledScheduler = NewScheduler(NewResolver(MustRegisters()), SystemTick, DefaultLEDs...)
	ledScheduler.Init()
	return ledScheduler
}

// HandleBlinking advances the board scheduler. Call it from the main loop.
func HandleBlinking() {
	if ledScheduler != nil {
		ledScheduler.AdvanceAll()
	}
}
