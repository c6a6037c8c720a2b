package cartridge

import "testing"

func TestUxROMLastBankFixed(t *testing.T) {
	cart := &Cartridge{
		PRG:      make([]byte, 4*prgBankSize),
		CHR:      make([]byte, chrBankSize),
		PRGBanks: 4,
	}
	cart.PRG[3*prgBankSize] = 0xAA // marker at start of last bank
	m := newUxROM(cart, Horizontal)
	cart.mapper = m

	hi, err := cart.ReadPRG(0xC000)
	if err != nil || hi != 0xAA {
		t.Fatalf("expected fixed last bank, got %#x err=%v", hi, err)
	}

	if err := cart.WritePRG(0x8000, 0x02); err != nil {
		t.Fatalf("WritePRG: %v", err)
	}
	cart.PRG[2*prgBankSize] = 0x55
	lo, _ := cart.ReadPRG(0x8000)
	if lo != 0x55 {
		t.Fatalf("expected selected bank 2, got %#x", lo)
	}

	hiAgain, _ := cart.ReadPRG(0xFFFF)
	if hiAgain != cart.PRG[3*prgBankSize+0x3FFF] {
		t.Fatalf("last bank should remain fixed after selector write")
	}
}

func TestUxROMEightBankResetVectorAndSelector(t *testing.T) {
	cart := &Cartridge{
		PRG:      make([]byte, 8*prgBankSize),
		CHR:      make([]byte, chrBankSize),
		PRGBanks: 8,
	}
	lastBank := 7 * prgBankSize
	cart.PRG[lastBank+0x3FFC] = 0x34
	cart.PRG[lastBank+0x3FFD] = 0x12
	cart.PRG[3*prgBankSize] = 0x77 // first byte of bank 3

	m := newUxROM(cart, Horizontal)
	cart.mapper = m

	lo, _ := cart.ReadPRG(0xFFFC)
	hi, _ := cart.ReadPRG(0xFFFD)
	if lo != 0x34 || hi != 0x12 {
		t.Fatalf("expected reset vector 0x1234 from the final bank regardless of selector, got %#x%02x", hi, lo)
	}

	if err := cart.WritePRG(0x8000, 0x03); err != nil {
		t.Fatalf("WritePRG: %v", err)
	}
	v, _ := cart.ReadPRG(0x8000)
	if v != 0x77 {
		t.Fatalf("expected selector 0x03 to map bank 3 at 0x8000, got %#x", v)
	}

	loAfter, _ := cart.ReadPRG(0xFFFC)
	if loAfter != 0x34 {
		t.Fatalf("reset vector must stay fixed after a selector write, got %#x", loAfter)
	}
}
