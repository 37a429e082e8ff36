// Package goadv is the root of the emulator core: it owns the CPU, bus, PPU
// and APU, and drives the 228-scanline-per-frame loop that interleaves their
// updates (§4.5).
package goadv

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/kestrelcore/goadv/goadv/addr"
	"github.com/kestrelcore/goadv/goadv/apu"
	"github.com/kestrelcore/goadv/goadv/bus"
	"github.com/kestrelcore/goadv/goadv/cartridge"
	"github.com/kestrelcore/goadv/goadv/cpu"
	"github.com/kestrelcore/goadv/goadv/keypad"
	"github.com/kestrelcore/goadv/goadv/video"
)

// compile-time check that *bus.Bus satisfies the narrow interfaces the CPU
// and PPU packages declare, without either of them importing bus.
var _ cpu.Bus = (*bus.Bus)(nil)
var _ video.Bus = (*bus.Bus)(nil)

const (
	scanlinesPerFrame = 228
	visibleScanlines  = 160
	hDrawCycles       = 1006
	hBlankCycles      = 226

	dispstatVBlankFlag  = 1 << 0
	dispstatHBlankFlag  = 1 << 1
	dispstatVCountFlag  = 1 << 2
	dispstatVBlankIRQEn = 1 << 3
	dispstatHBlankIRQEn = 1 << 4
	dispstatVCountIRQEn = 1 << 5
)

// Emulator is the root struct binding every subsystem together and driving
// the scanline scheduler described in §4.5.
type Emulator struct {
	cpu *cpu.CPU
	bus *bus.Bus
	ppu *video.PPU
	apu *apu.APU
	pad *keypad.Keypad
}

// New constructs an emulator from raw BIOS and cartridge ROM images, sniffing
// the cartridge's backup type from the ASCII id strings embedded in the ROM
// image (§6 supplemental features).
func New(bios, rom []byte) (*Emulator, error) {
	backup := cartridge.DetectBackup(rom)

	b := bus.New(bios, rom, backup)
	c := cpu.New(b)

	e := &Emulator{
		cpu: c,
		bus: b,
		ppu: video.New(),
		apu: apu.New(b),
		pad: keypad.New(),
	}

	b.SetPCProvider(c)
	b.SetHaltTarget(c)
	b.SetFIFOSampleSink(e.apu)

	return e, nil
}

// NewWithFiles loads BIOS and cartridge images from disk and constructs an
// Emulator.
func NewWithFiles(biosPath, romPath string) (*Emulator, error) {
	bios, err := os.ReadFile(biosPath)
	if err != nil {
		return nil, fmt.Errorf("reading BIOS: %w", err)
	}
	rom, err := os.ReadFile(romPath)
	if err != nil {
		return nil, fmt.Errorf("reading cartridge: %w", err)
	}

	slog.Debug("loaded cartridge", "bios_size", len(bios), "rom_size", len(rom))
	return New(bios, rom)
}

// CPU returns the underlying interpreter, for debug inspection.
func (e *Emulator) CPU() *cpu.CPU { return e.cpu }

// Bus returns the underlying memory fabric, for debug inspection.
func (e *Emulator) Bus() *bus.Bus { return e.bus }

// Keypad returns the button-state tracker; hosts call Press/Release on it.
func (e *Emulator) Keypad() *keypad.Keypad { return e.pad }

// PressKey marks key as held.
func (e *Emulator) PressKey(key keypad.Key) { e.pad.Press(key, e.bus) }

// ReleaseKey marks key as not held.
func (e *Emulator) ReleaseKey(key keypad.Key) { e.pad.Release(key, e.bus) }

// FrameBuffer returns the most recently rendered frame.
func (e *Emulator) FrameBuffer() *video.FrameBuffer { return e.ppu.FrameBuffer() }

// RunFrame drives one complete 228-scanline pass through the per-scanline
// scheduler loop of §4.5, returning once the frame has been published.
func (e *Emulator) RunFrame() {
	for line := 0; line < scanlinesPerFrame; line++ {
		e.runScanline(uint16(line))
	}
	slog.Debug("frame completed", "pc", fmt.Sprintf("0x%08X", e.cpu.GetPC()))
}

func (e *Emulator) runScanline(line uint16) {
	e.bus.SetVCount(line)

	// 1. Clear H-blank and V-count-match flags.
	e.bus.SetDISPSTATFlag(dispstatHBlankFlag, false)
	e.bus.SetDISPSTATFlag(dispstatVCountFlag, false)

	// 2. V-count match.
	lyc := uint16(e.bus.DISPSTAT()>>8) & 0xFF
	if line == lyc {
		e.bus.SetDISPSTATFlag(dispstatVCountFlag, true)
		if e.bus.DISPSTATIRQEnabled(dispstatVCountIRQEn) {
			e.bus.RequestInterrupt(addr.IRQVCount)
		}
	}

	// 3. V-blank entry.
	if line == visibleScanlines {
		e.ppu.LatchAffineReference(e.bus)
		e.bus.SetDISPSTATFlag(dispstatVBlankFlag, true)
		if e.bus.DISPSTATIRQEnabled(dispstatVBlankIRQEn) {
			e.bus.RequestInterrupt(addr.IRQVBlank)
		}
		e.bus.TriggerVBlank()
	} else if line == 0 {
		e.bus.SetDISPSTATFlag(dispstatVBlankFlag, false)
	}

	// 4. H-draw CPU budget.
	e.cpu.Run(hDrawCycles)
	e.bus.Advance(hDrawCycles)

	// 5. Render + H-blank DMA.
	if line < visibleScanlines {
		e.ppu.RenderScanline(e.bus)
		e.bus.TriggerHBlank()
	}

	// 6. H-blank flag/IRQ.
	e.bus.SetDISPSTATFlag(dispstatHBlankFlag, true)
	if e.bus.DISPSTATIRQEnabled(dispstatHBlankIRQEn) {
		e.bus.RequestInterrupt(addr.IRQHBlank)
	}

	// 7. H-blank CPU budget.
	e.cpu.Run(hBlankCycles)
	e.bus.Advance(hBlankCycles)
}
