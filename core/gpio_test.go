package core

import "testing"

func TestSetOutputLoopback(t *testing.T) {
	bank := NewMemoryBank()
	bank.Loopback = true
	r := NewResolver(bank)

	for _, pin := range []Pin{IO10, IO16, IO23, IO27} {
		r.Configure(pin, OutputLow)

		r.SetOutput(pin, High)
		if got := r.GetInput(pin); got != High {
			t.Errorf("%s: expected High after SetOutput(High), got %d", pin, got)
		}

		r.SetOutput(pin, Low)
		if got := r.GetInput(pin); got != Low {
			t.Errorf("%s: expected Low after SetOutput(Low), got %d", pin, got)
		}
	}
}

func TestSetOutputTouchesOneBit(t *testing.T) {
	bank := NewMemoryBank()
	bank.Write(0, RegOut, 0xA5)
	bank.Write(1, RegOut, 0x5A)
	r := NewResolver(bank)

	r.SetOutput(IO11, High)
	if got := bank.Read(0, RegOut); got != 0xA7 {
		t.Errorf("P1OUT = 0x%02X, want 0xA7", got)
	}
	r.SetOutput(IO17, Low)
	if got := bank.Read(0, RegOut); got != 0x27 {
		t.Errorf("P1OUT = 0x%02X, want 0x27", got)
	}
	if got := bank.Read(1, RegOut); got != 0x5A {
		t.Errorf("P2OUT changed to 0x%02X", got)
	}
}

func TestGetInput(t *testing.T) {
	bank := NewMemoryBank()
	r := NewResolver(bank)

	bank.Write(1, RegIn, 0x08)
	if got := r.GetInput(IO23); got != High {
		t.Errorf("IO23: expected High, got %d", got)
	}
	if got := r.GetInput(IO22); got != Low {
		t.Errorf("IO22: expected Low, got %d", got)
	}
	// Same port index on P1 must not see P2's bits
	if got := r.GetInput(IO13); got != Low {
		t.Errorf("IO13: expected Low, got %d", got)
	}
	if bank.Writes != 0 {
		t.Errorf("GetInput wrote %d times", bank.Writes)
	}
}

func TestSetSelectTruthTable(t *testing.T) {
	testCases := []struct {
		sel  Select
		sel1 bool
		sel2 bool
	}{
		{SelectGPIO, false, false},
		{SelectAlt1, true, false},
		{SelectAlt2, false, true},
		{SelectAlt3, true, true},
	}

	bank := NewMemoryBank()
	r := NewResolver(bank)
	pin := IO25

	for _, tc := range testCases {
		r.SetSelect(pin, tc.sel)

		got1 := bank.Read(pin.Port(), RegSel)&pin.Mask() != 0
		got2 := bank.Read(pin.Port(), RegSel2)&pin.Mask() != 0
		if got1 != tc.sel1 || got2 != tc.sel2 {
			t.Errorf("select %d: got (%v,%v), want (%v,%v)", tc.sel, got1, got2, tc.sel1, tc.sel2)
		}
		if back := r.GetSelect(pin); back != tc.sel {
			t.Errorf("GetSelect = %d, want %d", back, tc.sel)
		}
	}
}

func TestSetSelectWriteOrder(t *testing.T) {
	for _, sel := range []Select{SelectGPIO, SelectAlt1, SelectAlt2, SelectAlt3} {
		var log []RegisterWrite
		bank := NewMemoryBank()
		bank.WriteLog = &log
		NewResolver(bank).SetSelect(IO14, sel)

		if len(log) != 2 {
			t.Fatalf("select %d: expected 2 writes, got %d", sel, len(log))
		}
		if log[0].Reg != RegSel || log[1].Reg != RegSel2 {
			t.Errorf("select %d: write order %s,%s, want SEL,SEL2", sel, log[0].Reg, log[1].Reg)
		}
	}
}

func TestConfigureOrder(t *testing.T) {
	var log []RegisterWrite
	bank := NewMemoryBank()
	bank.WriteLog = &log
	r := NewResolver(bank)

	r.Configure(IO21, PinConfig{
		Select:    SelectAlt1,
		Resistor:  ResistorEnabled,
		Direction: DirInput,
		Output:    High,
	})

	want := []RegisterWrite{
		{Port: 1, Reg: RegSel, Mask: 0x02, Set: true},
		{Port: 1, Reg: RegSel2, Mask: 0x02, Set: false},
		{Port: 1, Reg: RegRen, Mask: 0x02, Set: true},
		{Port: 1, Reg: RegDir, Mask: 0x02, Set: false},
		{Port: 1, Reg: RegOut, Mask: 0x02, Set: true},
	}
	if len(log) != len(want) {
		t.Fatalf("expected %d writes, got %d: %+v", len(want), len(log), log)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Errorf("write %d: got %+v, want %+v", i, log[i], want[i])
		}
	}
}

func TestSetDirectionAndResistor(t *testing.T) {
	bank := NewMemoryBank()
	r := NewResolver(bank)

	r.SetDirection(IO12, DirOutput)
	r.SetResistor(IO12, ResistorEnabled)
	if bank.Read(0, RegDir) != 0x04 || bank.Read(0, RegRen) != 0x04 {
		t.Errorf("DIR=0x%02X REN=0x%02X, want 0x04 each", bank.Read(0, RegDir), bank.Read(0, RegRen))
	}

	r.SetDirection(IO12, DirInput)
	r.SetResistor(IO12, ResistorDisabled)
	if bank.Read(0, RegDir) != 0 || bank.Read(0, RegRen) != 0 {
		t.Errorf("DIR=0x%02X REN=0x%02X, want 0", bank.Read(0, RegDir), bank.Read(0, RegRen))
	}
}

func TestInvalidPinIgnored(t *testing.T) {
	bank := NewMemoryBank()
	r := NewResolver(bank)

	r.Configure(Pin(0x1F), OutputLow)
	r.SetOutput(Pin(0x1F), High)
	if bank.Writes != 0 {
		t.Errorf("invalid pin caused %d writes", bank.Writes)
	}
	if got := r.GetInput(Pin(0x1F)); got != Low {
		t.Errorf("invalid pin read %d", got)
	}
}

func TestInitPins(t *testing.T) {
	bank := NewMemoryBank()
	bank.Write(0, RegOut, 0xFF)
	SetRegisterBank(bank)
	defer SetRegisterBank(nil)

	InitPins()

	wantMask := LEDRed.Mask() | LEDGreen.Mask()
	if got := bank.Read(0, RegDir); got != wantMask {
		t.Errorf("P1DIR = 0x%02X, want 0x%02X", got, wantMask)
	}
	if got := bank.Read(0, RegOut) & wantMask; got != 0 {
		t.Errorf("LED outputs not low: 0x%02X", got)
	}

	SetPinOutput(LEDGreen, High)
	if bank.Read(0, RegOut)&LEDGreen.Mask() == 0 {
		t.Error("SetPinOutput did not drive LEDGreen high")
	}
}

func TestMustRegistersPanics(t *testing.T) {
	SetRegisterBank(nil)
	defer func() {
		if recover() == nil {
			t.Error("expected panic with no register bank")
		}
	}()
	MustRegisters()
}

func TestPackagePinHelpers(t *testing.T) {
	bank := NewMemoryBank()
	bank.Loopback = true
	SetRegisterBank(bank)
	defer SetRegisterBank(nil)

	alt := PinConfig{Select: SelectAlt3, Direction: DirInput}
	ConfigurePin(IO17, alt)
	if got := NewResolver(bank).GetSelect(IO17); got != SelectAlt3 {
		t.Errorf("select = %d, want Alt3", got)
	}
	if bank.Read(0, RegDir)&IO17.Mask() != 0 {
		t.Error("IO17 should be an input")
	}

	ConfigurePin(IO23, OutputLow)
	if GetPinInput(IO23) != Low {
		t.Error("IO23 should read low")
	}
	SetPinOutput(IO23, High)
	if GetPinInput(IO23) != High {
		t.Error("IO23 should read high through loopback")
	}
	if bank.Read(1, RegOut) != IO23.Mask() {
		t.Errorf("P2OUT = 0x%02X", bank.Read(1, RegOut))
	}
}
