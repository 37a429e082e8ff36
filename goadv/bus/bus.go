// Package bus implements the GBA's unified memory fabric: region dispatch
// for byte/halfword/word access, the I/O register file, waitstate-derived
// cycle costs, the four-channel DMA engine, the four timer channels, and
// cartridge backup state machines (§4.1, §4.3, §4.4 of the core design).
package bus

import (
	"github.com/kestrelcore/goadv/goadv/addr"
	"github.com/kestrelcore/goadv/goadv/bit"
)

// PCProvider is the narrow capability the bus needs from the CPU to
// implement the BIOS-bus latch rule (§4.1): only r15 matters, so the bus
// never needs to import the cpu package.
type PCProvider interface {
	GetPC() uint32
}

// Haltable is the narrow capability the bus needs to put the CPU to sleep
// on a HALTCNT write, again without importing cpu (§9 design note).
type Haltable interface {
	Halt()
	Stop()
}

// VBlankWaiter is implemented by hosts that want to block until a frame is
// published; optional, never required by the core.
type VBlankWaiter interface {
	NotifyVBlank()
}

// FIFOSampleSink is the narrow capability the bus needs from the APU: a
// pop once per overflow of whichever timer SOUNDCNT_H selects for each
// direct-sound channel, so sample consumption tracks the game's actual
// configured timer period instead of a fixed rate (§4.4, §4.6).
type FIFOSampleSink interface {
	PopSample(which int)
}

// Bus owns every byte of addressable state: work RAM, video RAM, OAM,
// palette RAM, the I/O register file, the cartridge ROM/backup, and the
// DMA/timer engines that live alongside the register file they mutate.
type Bus struct {
	bios      []byte
	biosLatch uint32

	ewram [addr.EWRAMSize]byte
	iwram [addr.IWRAMSize]byte
	vram  [addr.VRAMSize]byte
	oam   [addr.OAMSize]byte
	pal   [addr.PALSize]byte
	rom   []byte

	io [0x400]byte

	bgPalette  [256]uint32
	objPalette [256]uint32

	ie      uint16
	ifReg   uint16
	ime     bool
	waitcnt uint16
	keyinput uint16
	haltcnt uint8

	dispstat uint16
	vcount   uint16

	dma    [4]dmaChannel
	timer  [4]timerChannel

	fifoA []int8
	fifoB []int8

	backup Backup

	pc       PCProvider
	halt     Haltable
	vblank   VBlankWaiter
	fifoSink FIFOSampleSink

	waitTable waitstateTable
}

// New returns a Bus with BIOS/ROM images loaded and every register at its
// post-reset value. BIOS must be exactly 16 KiB; ROM up to 32 MiB.
func New(bios, rom []byte, backup Backup) *Bus {
	b := &Bus{
		bios:     bios,
		rom:      rom,
		backup:   backup,
		keyinput: 0x03FF,
	}
	b.waitTable = newWaitstateTable(0)
	for i := range b.dma {
		b.dma[i].index = i
	}
	for i := range b.timer {
		b.timer[i].index = i
	}
	return b
}

// SetPCProvider wires the BIOS-latch rule to the CPU's r15; called once by
// the top-level emulator after both exist.
func (b *Bus) SetPCProvider(p PCProvider) { b.pc = p }

// SetHaltTarget wires HALTCNT to the CPU's halt/stop states.
func (b *Bus) SetHaltTarget(h Haltable) { b.halt = h }

// SetVBlankWaiter wires an optional host notification for frame-ready.
func (b *Bus) SetVBlankWaiter(w VBlankWaiter) { b.vblank = w }

// SetFIFOSampleSink wires the APU's per-overflow FIFO pop; called once by
// the top-level emulator after both exist.
func (b *Bus) SetFIFOSampleSink(s FIFOSampleSink) { b.fifoSink = s }

// IE/IF/IME implement cpu.Bus's interrupt-sample contract (§4.2.6).
func (b *Bus) IE() uint16   { return b.ie }
func (b *Bus) IF() uint16   { return b.ifReg }
func (b *Bus) IME() bool    { return b.ime }

// RequestInterrupt sets the IF bit for the given source; the CPU samples
// IE & IF after every instruction (§4.2.6).
func (b *Bus) RequestInterrupt(irq addr.Interrupt) {
	b.ifReg |= uint16(irq)
}

// regionKind tags the coarse dispatch target for an address.
type regionKind uint8

const (
	regionBIOS regionKind = iota
	regionEWRAM
	regionIWRAM
	regionIO
	regionPAL
	regionVRAM
	regionOAM
	regionROM
	regionBackup
	regionOpen
)

// classify resolves the coarse dispatch target for address. 0x0D is ROM by
// default; it only becomes backup for cartridges that actually use EEPROM,
// and then only in the size-dependent sub-range the EEPROM overlay occupies
// (the full bank for small carts, just the last 256 bytes for large ones).
// 0x0E/0x0F is the separate, always-present SRAM/Flash window.
func (b *Bus) classify(address uint32) regionKind {
	switch address >> 24 {
	case 0x00:
		return regionBIOS
	case 0x02:
		return regionEWRAM
	case 0x03:
		return regionIWRAM
	case 0x04:
		return regionIO
	case 0x05:
		return regionPAL
	case 0x06:
		return regionVRAM
	case 0x07:
		return regionOAM
	case 0x08, 0x09, 0x0A, 0x0B, 0x0C:
		return regionROM
	case 0x0D:
		if eeprom, ok := b.backup.(*EEPROMBackup); ok && eeprom.overlays(address) {
			return regionBackup
		}
		return regionROM
	case 0x0E, 0x0F:
		return regionBackup
	default:
		return regionOpen
	}
}

// Read8 performs a byte load (§4.1).
func (b *Bus) Read8(address uint32) uint8 {
	switch b.classify(address) {
	case regionBIOS:
		return uint8(b.readBIOS(address) >> ((address & 3) * 8))
	case regionEWRAM:
		return b.ewram[address&(addr.EWRAMSize-1)]
	case regionIWRAM:
		return b.iwram[address&(addr.IWRAMSize-1)]
	case regionIO:
		return b.ioRead8(address & 0x3FF)
	case regionPAL:
		off := vramPalOffset(address, addr.PALSize)
		return b.pal[off]
	case regionVRAM:
		return b.vram[vramOffset(address)]
	case regionOAM:
		return b.oam[address&(addr.OAMSize-1)]
	case regionROM:
		return b.readROM8(address)
	case regionBackup:
		return b.backup.Read(address)
	default:
		return 0
	}
}

// Read16 performs a halfword load, forcing 2-byte alignment (§4.1, §3.2).
// It does not rotate; the CPU's halfword-load handlers apply the
// misaligned-load rotation themselves.
func (b *Bus) Read16(address uint32) uint16 {
	address &^= 1
	switch b.classify(address) {
	case regionBIOS:
		return uint16(b.readBIOS(address) >> ((address & 2) * 8))
	case regionEWRAM:
		off := address & (addr.EWRAMSize - 1)
		return uint16(b.ewram[off]) | uint16(b.ewram[off+1])<<8
	case regionIWRAM:
		off := address & (addr.IWRAMSize - 1)
		return uint16(b.iwram[off]) | uint16(b.iwram[off+1])<<8
	case regionIO:
		return b.ioRead16(address & 0x3FF)
	case regionPAL:
		off := vramPalOffset(address, addr.PALSize)
		return uint16(b.pal[off]) | uint16(b.pal[off+1])<<8
	case regionVRAM:
		off := vramOffset(address)
		return uint16(b.vram[off]) | uint16(b.vram[off+1])<<8
	case regionOAM:
		off := address & (addr.OAMSize - 1)
		return uint16(b.oam[off]) | uint16(b.oam[off+1])<<8
	case regionROM:
		return b.readROM16(address)
	case regionBackup:
		return uint16(b.backup.Read(address))
	default:
		return 0
	}
}

// Read32 performs a word load, forcing 4-byte alignment and applying the
// rotate-by-8*(addr&3) misaligned-load rule (§3.2, §4.1).
func (b *Bus) Read32(address uint32) uint32 {
	aligned := address &^ 3
	var word uint32
	switch b.classify(aligned) {
	case regionBIOS:
		word = b.readBIOS(aligned)
	case regionEWRAM:
		off := aligned & (addr.EWRAMSize - 1)
		word = le32(b.ewram[off:])
	case regionIWRAM:
		off := aligned & (addr.IWRAMSize - 1)
		word = le32(b.iwram[off:])
	case regionIO:
		word = uint32(b.ioRead16(aligned&0x3FF)) | uint32(b.ioRead16((aligned+2)&0x3FF))<<16
	case regionPAL:
		off := vramPalOffset(aligned, addr.PALSize)
		word = le32(b.pal[off:])
	case regionVRAM:
		off := vramOffset(aligned)
		word = le32(b.vram[off:])
	case regionOAM:
		off := aligned & (addr.OAMSize - 1)
		word = le32(b.oam[off:])
	case regionROM:
		word = b.readROM32(aligned)
	case regionBackup:
		word = uint32(b.backup.Read(aligned))
	}
	return bit.RotateRight32(word, uint(address&3)*8)
}

func (b *Bus) readBIOS(address uint32) uint32 {
	if b.pc != nil && b.pc.GetPC() < addr.BIOSSize {
		aligned := address &^ 3
		if int(aligned)+4 <= len(b.bios) {
			b.biosLatch = le32(b.bios[aligned:])
		}
	}
	return b.biosLatch
}

func (b *Bus) readROM8(address uint32) uint8 {
	off := romOffset(address)
	if int(off) >= len(b.rom) {
		return 0
	}
	return b.rom[off]
}

func (b *Bus) readROM16(address uint32) uint16 {
	off := romOffset(address &^ 1)
	if int(off)+2 > len(b.rom) {
		return uint16(off / 2)
	}
	return uint16(b.rom[off]) | uint16(b.rom[off+1])<<8
}

func (b *Bus) readROM32(address uint32) uint32 {
	off := romOffset(address &^ 3)
	if int(off)+4 > len(b.rom) {
		lo := uint32(off / 2)
		hi := lo + 1
		return lo | hi<<16
	}
	return le32(b.rom[off:])
}

func romOffset(address uint32) uint32 {
	return address & (addr.MaxROMSize - 1)
}

func vramOffset(address uint32) uint32 {
	off := address & 0x1FFFF
	if off&0x10000 != 0 {
		off &= 0x17FFF
	}
	return off
}

func vramPalOffset(address uint32, size uint32) uint32 {
	return address & (size - 1)
}

func le32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// Write8 performs a byte store. BIOS and ROM ignore writes; OAM byte writes
// are ignored; PAL and VRAM byte writes duplicate into a halfword (§4.1).
func (b *Bus) Write8(address uint32, value uint8) {
	switch b.classify(address) {
	case regionBIOS, regionROM:
		// read-only
	case regionEWRAM:
		b.ewram[address&(addr.EWRAMSize-1)] = value
	case regionIWRAM:
		b.iwram[address&(addr.IWRAMSize-1)] = value
	case regionIO:
		b.ioWrite8(address&0x3FF, value)
	case regionPAL:
		b.Write16(address&^1, uint16(value)|uint16(value)<<8)
	case regionVRAM:
		b.Write16(address&^1, uint16(value)|uint16(value)<<8)
	case regionOAM:
		// byte writes to OAM are ignored
	case regionBackup:
		b.backup.Write(address, value)
	}
}

// Write16 performs a halfword store, forcing 2-byte alignment.
func (b *Bus) Write16(address uint32, value uint16) {
	address &^= 1
	switch b.classify(address) {
	case regionBIOS, regionROM:
	case regionEWRAM:
		off := address & (addr.EWRAMSize - 1)
		b.ewram[off], b.ewram[off+1] = byte(value), byte(value>>8)
	case regionIWRAM:
		off := address & (addr.IWRAMSize - 1)
		b.iwram[off], b.iwram[off+1] = byte(value), byte(value>>8)
	case regionIO:
		b.ioWrite16(address&0x3FF, value)
	case regionPAL:
		off := vramPalOffset(address, addr.PALSize)
		b.pal[off], b.pal[off+1] = byte(value), byte(value>>8)
		b.derivePalette(off)
	case regionVRAM:
		off := vramOffset(address)
		b.vram[off], b.vram[off+1] = byte(value), byte(value>>8)
	case regionOAM:
		off := address & (addr.OAMSize - 1)
		b.oam[off], b.oam[off+1] = byte(value), byte(value>>8)
	case regionBackup:
		b.backup.Write(address, byte(value))
	}
}

// Write32 performs a word store, forcing 4-byte alignment.
func (b *Bus) Write32(address uint32, value uint32) {
	address &^= 3
	switch b.classify(address) {
	case regionBIOS, regionROM:
	case regionEWRAM:
		off := address & (addr.EWRAMSize - 1)
		putLE32(b.ewram[off:], value)
	case regionIWRAM:
		off := address & (addr.IWRAMSize - 1)
		putLE32(b.iwram[off:], value)
	case regionIO:
		b.ioWrite16(address&0x3FF, uint16(value))
		b.ioWrite16((address+2)&0x3FF, uint16(value>>16))
	case regionPAL:
		off := vramPalOffset(address, addr.PALSize)
		putLE32(b.pal[off:], value)
		b.derivePalette(off)
		b.derivePalette(off + 2)
	case regionVRAM:
		off := vramOffset(address)
		putLE32(b.vram[off:], value)
	case regionOAM:
		off := address & (addr.OAMSize - 1)
		putLE32(b.oam[off:], value)
	case regionBackup:
		b.backup.Write(address, byte(value))
	}
}

func putLE32(b []byte, v uint32) {
	b[0], b[1], b[2], b[3] = byte(v), byte(v>>8), byte(v>>16), byte(v>>24)
}

// NativeBGPalette and NativeOBJPalette expose the expanded 32-bit RGBA
// palette the PPU samples from (§3.4, §8 round-trip property).
func (b *Bus) NativeBGPalette(index int) uint32  { return b.bgPalette[index] }
func (b *Bus) NativeOBJPalette(index int) uint32 { return b.objPalette[index] }

// derivePalette re-expands the palette entry whose PAL RAM halfword starts
// at byteOffset (rounded down to the containing entry), per §3.4 and the
// palette round-trip property in §8.
func (b *Bus) derivePalette(byteOffset uint32) {
	entryOffset := byteOffset &^ 1
	entry := int(entryOffset/2) % 256
	raw := uint16(b.pal[entryOffset]) | uint16(b.pal[entryOffset+1])<<8
	color := expandBGR555(raw)
	if entryOffset < 0x200 {
		b.bgPalette[entry] = color
	} else {
		b.objPalette[entry] = color
	}
}

// expandBGR555 converts a 15-bit BGR color (5 bits per channel) into 32-bit
// RGBA via bit replication, per §8's round-trip property.
func expandBGR555(raw uint16) uint32 {
	r5 := uint32(raw) & 0x1F
	g5 := uint32(raw>>5) & 0x1F
	b5 := uint32(raw>>10) & 0x1F
	r8 := r5<<3 | r5>>2
	g8 := g5<<3 | g5>>2
	b8 := b5<<3 | b5>>2
	return r8 | g8<<8 | b8<<16 | 0xFF000000
}

// VRAM/OAM/PAL raw accessors for the PPU's rendering pass, which reads
// large spans at once rather than byte-by-byte.
func (b *Bus) VRAMByte(off uint32) uint8 { return b.vram[off&(addr.VRAMSize-1)] }
func (b *Bus) OAMByte(off uint32) uint8  { return b.oam[off&(addr.OAMSize-1)] }
func (b *Bus) OAMWord(off uint32) uint16 {
	o := off & (addr.OAMSize - 1)
	return uint16(b.oam[o]) | uint16(b.oam[o+1])<<8
}
