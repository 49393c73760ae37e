package sim

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"ledfw/core"
)

// Tick sources the simulator can model.
const (
	TickTimer = "timer" // Timer A0, one interrupt per millisecond
	TickWDT   = "wdt"   // watchdog interval timer, 512us per interrupt
)

// LEDConfig represents configuration for one LED
type LEDConfig struct {
	Name  string `json:"name"`
	Pin   string `json:"pin"`    // "P1.6", "IO16" or an alias such as "green"
	OnMs  uint16 `json:"on_ms"`  // ON phase duration
	OffMs uint16 `json:"off_ms"` // OFF phase duration
	Blink bool   `json:"blink"`  // start blinking at boot
}

// BoardConfig represents the complete simulated board
type BoardConfig struct {
	Tick     string      `json:"tick"`     // TickTimer or TickWDT
	Loopback bool        `json:"loopback"` // mirror OUT into IN
	PollMs   uint32      `json:"poll_ms"`  // main loop period
	LEDs     []LEDConfig `json:"leds"`
}

// LoadConfig parses a JSON configuration and returns a BoardConfig
func LoadConfig(jsonData []byte) (*BoardConfig, error) {
	var config BoardConfig

	if err := json.Unmarshal(jsonData, &config); err != nil {
		return nil, fmt.Errorf("parse board config: %w", err)
	}

	// Apply defaults
	applyDefaults(&config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// LoadConfigFile reads and parses a JSON board file
func LoadConfigFile(path string) (*BoardConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read board config: %w", err)
	}
	return LoadConfig(data)
}

// applyDefaults fills in missing configuration values with sensible defaults
func applyDefaults(config *BoardConfig) {
	if config.Tick == "" {
		config.Tick = TickTimer
	}
	if config.PollMs == 0 {
		config.PollMs = 10
	}
	if len(config.LEDs) == 0 {
		config.LEDs = DefaultConfig().LEDs
	}

	for i := range config.LEDs {
		led := &config.LEDs[i]
		if led.OnMs == 0 {
			led.OnMs = core.DefaultOnPeriodMs
		}
		if led.OffMs == 0 {
			led.OffMs = core.DefaultOffPeriodMs
		}
		if led.Name == "" {
			led.Name = led.Pin
		}
	}
}

// Validate checks pins, tick source and poll period
func (c *BoardConfig) Validate() error {
	if c.Tick != TickTimer && c.Tick != TickWDT {
		return fmt.Errorf("unknown tick source %q", c.Tick)
	}
	if c.PollMs == 0 {
		return errors.New("poll period must be at least 1 ms")
	}
	seen := make(map[core.Pin]string)
	for _, led := range c.LEDs {
		pin, err := ParsePin(led.Pin)
		if err != nil {
			return fmt.Errorf("led %q: %w", led.Name, err)
		}
		if other, ok := seen[pin]; ok {
			return fmt.Errorf("led %q: pin %s already used by %q", led.Name, pin, other)
		}
		seen[pin] = led.Name
	}
	return nil
}

// Specs converts the LED list to scheduler specs
func (c *BoardConfig) Specs() []core.LEDSpec {
	specs := make([]core.LEDSpec, 0, len(c.LEDs))
	for _, led := range c.LEDs {
		pin, err := ParsePin(led.Pin)
		if err != nil {
			continue
		}
		specs = append(specs, core.LEDSpec{Pin: pin, OnPeriodMs: led.OnMs, OffPeriodMs: led.OffMs})
	}
	return specs
}

// DefaultConfig returns the reference board: green on P1.6 and red on P1.0,
// default periods, green blinking.
func DefaultConfig() *BoardConfig {
	return &BoardConfig{
		Tick:   TickTimer,
		PollMs: 10,
		LEDs: []LEDConfig{
			{Name: "green", Pin: "P1.6", OnMs: core.DefaultOnPeriodMs, OffMs: core.DefaultOffPeriodMs, Blink: true},
			{Name: "red", Pin: "P1.0", OnMs: core.DefaultOnPeriodMs, OffMs: core.DefaultOffPeriodMs},
		},
	}
}

var pinAliases = map[string]core.Pin{
	"green": core.LEDGreen,
	"red":   core.LEDRed,
}

// ParsePin accepts "P1.6", "IO16" or a board alias.
func ParsePin(name string) (core.Pin, error) {
	s := strings.ToLower(strings.TrimSpace(name))
	if pin, ok := pinAliases[s]; ok {
		return pin, nil
	}

	var port, index byte
	switch {
	case len(s) == 4 && s[0] == 'p' && s[2] == '.':
		port, index = s[1], s[3]
	case len(s) == 4 && strings.HasPrefix(s, "io"):
		port, index = s[2], s[3]
	default:
		return 0, fmt.Errorf("invalid pin %q", name)
	}

	if port < '1' || port >= '1'+core.PortCount || index < '0' || index > '7' {
		return 0, fmt.Errorf("pin %q out of range", name)
	}
	return core.Pin((port-'1')<<3 | (index - '0')), nil
}
