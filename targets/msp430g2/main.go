//go:build msp430g2553

package main

import (
	"ledfw/core"
	"ledfw/expander"
)

// Tick source: Timer A0 at 1ms, or the watchdog interval timer at 512us
const useWDTTick = false

// Drive the LED pin table on an MCP23017 at expander.Address instead of the
// on-chip ports. The expander hangs off USCI_B0 on P1.6/P1.7.
const useExpander = false

func main() {
	// Clocks and watchdog first; port writes are meaningless before this
	mcuInit()

	core.SetRegisterBank(portBank{})
	if useExpander {
		selectExpander()
	}
	core.InitPins()

	core.TimerInit()
	leds := core.InitLEDs()
	if useWDTTick {
		startTickWDT()
	} else {
		startTickTimer()
	}

	if green, ok := leds.Lookup(core.LEDGreen); ok {
		leds.StartBlinking(green, core.DefaultOnPeriodMs, core.DefaultOffPeriodMs)
	}

	for {
		core.HandleBlinking()
	}
}

// selectExpander brings up the I2C bus and makes the expander the register
// bank. Without a responding device the on-chip ports stay in use.
func selectExpander() {
	bus := usciI2C{}
	bus.configure()

	exp := expander.New(bus, expander.Address)
	if err := exp.Reset(); err != nil {
		core.DebugPrintln("[EXPANDER] " + err.Error() + ", using on-chip ports")
		return
	}
	core.SetRegisterBank(exp)
}
