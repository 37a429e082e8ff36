// Package addr holds address-space and I/O register constants for the GBA
// memory map (§3.2-§3.3 of the core specification).
package addr

// Region base addresses, per the fixed GBA memory map.
const (
	BIOSStart    uint32 = 0x00000000
	BIOSEnd      uint32 = 0x00003FFF
	EWRAMStart   uint32 = 0x02000000
	EWRAMEnd     uint32 = 0x0203FFFF
	IWRAMStart   uint32 = 0x03000000
	IWRAMEnd     uint32 = 0x03007FFF
	IOStart      uint32 = 0x04000000
	IOEnd        uint32 = 0x040003FF
	PALStart     uint32 = 0x05000000
	PALEnd       uint32 = 0x050003FF
	VRAMStart    uint32 = 0x06000000
	VRAMEnd      uint32 = 0x06017FFF
	OAMStart     uint32 = 0x07000000
	OAMEnd       uint32 = 0x070003FF
	ROMStart     uint32 = 0x08000000
	ROMWait1     uint32 = 0x0A000000
	ROMWait2     uint32 = 0x0C000000
	ROMEnd       uint32 = 0x09FFFFFF
	BackupStart  uint32 = 0x0E000000
	BackupEnd    uint32 = 0x0E00FFFF
	EWRAMSize    uint32 = 0x40000
	IWRAMSize    uint32 = 0x8000
	VRAMSize     uint32 = 0x18000
	PALSize      uint32 = 0x400
	OAMSize      uint32 = 0x400
	MaxROMSize   uint32 = 0x2000000
	BIOSSize     uint32 = 0x4000
)

// LCD I/O registers, offsets relative to 0x04000000.
const (
	DISPCNT  uint32 = 0x000
	DISPSTAT uint32 = 0x004
	VCOUNT   uint32 = 0x006
	BG0CNT   uint32 = 0x008
	BG1CNT   uint32 = 0x00A
	BG2CNT   uint32 = 0x00C
	BG3CNT   uint32 = 0x00E
	BG0HOFS  uint32 = 0x010
	BG0VOFS  uint32 = 0x012
	BG1HOFS  uint32 = 0x014
	BG1VOFS  uint32 = 0x016
	BG2HOFS  uint32 = 0x018
	BG2VOFS  uint32 = 0x01A
	BG3HOFS  uint32 = 0x01C
	BG3VOFS  uint32 = 0x01E
	BG2PA    uint32 = 0x020
	BG2PB    uint32 = 0x022
	BG2PC    uint32 = 0x024
	BG2PD    uint32 = 0x026
	BG2X     uint32 = 0x028
	BG2Y     uint32 = 0x02C
	BG3PA    uint32 = 0x030
	BG3PB    uint32 = 0x032
	BG3PC    uint32 = 0x034
	BG3PD    uint32 = 0x036
	BG3X     uint32 = 0x038
	BG3Y     uint32 = 0x03C
	WIN0H    uint32 = 0x040
	WIN1H    uint32 = 0x042
	WIN0V    uint32 = 0x044
	WIN1V    uint32 = 0x046
	WININ    uint32 = 0x048
	WINOUT   uint32 = 0x04A
	MOSAIC   uint32 = 0x04C
	BLDCNT   uint32 = 0x050
	BLDALPHA uint32 = 0x052
	BLDY     uint32 = 0x054
)

// Sound I/O registers.
const (
	SOUND1CNT_L uint32 = 0x060
	SOUND1CNT_H uint32 = 0x062
	SOUND1CNT_X uint32 = 0x064
	SOUND2CNT_L uint32 = 0x068
	SOUND2CNT_H uint32 = 0x06C
	SOUND3CNT_L uint32 = 0x070
	SOUND3CNT_H uint32 = 0x072
	SOUND3CNT_X uint32 = 0x074
	SOUND4CNT_L uint32 = 0x078
	SOUND4CNT_H uint32 = 0x07C
	SOUNDCNT_L  uint32 = 0x080
	SOUNDCNT_H  uint32 = 0x082
	SOUNDCNT_X  uint32 = 0x084
	SOUNDBIAS   uint32 = 0x088
	WAVE_RAM    uint32 = 0x090
	FIFO_A      uint32 = 0x0A0
	FIFO_B      uint32 = 0x0A4
)

// DMA I/O registers, per channel (0-3); each channel's block is 0xC bytes apart.
const (
	DMA0SAD  uint32 = 0x0B0
	DMA0DAD  uint32 = 0x0B4
	DMA0CNT_L uint32 = 0x0B8
	DMA0CNT_H uint32 = 0x0BA
	DMA1SAD  uint32 = 0x0BC
	DMA1DAD  uint32 = 0x0C0
	DMA1CNT_L uint32 = 0x0C4
	DMA1CNT_H uint32 = 0x0C6
	DMA2SAD  uint32 = 0x0C8
	DMA2DAD  uint32 = 0x0CC
	DMA2CNT_L uint32 = 0x0D0
	DMA2CNT_H uint32 = 0x0D2
	DMA3SAD  uint32 = 0x0D4
	DMA3DAD  uint32 = 0x0D8
	DMA3CNT_L uint32 = 0x0DC
	DMA3CNT_H uint32 = 0x0DE
)

// Timer I/O registers, per channel (0-3).
const (
	TM0CNT_L uint32 = 0x100
	TM0CNT_H uint32 = 0x102
	TM1CNT_L uint32 = 0x104
	TM1CNT_H uint32 = 0x106
	TM2CNT_L uint32 = 0x108
	TM2CNT_H uint32 = 0x10A
	TM3CNT_L uint32 = 0x10C
	TM3CNT_H uint32 = 0x10E
)

// Serial, keypad and system control registers.
const (
	SIODATA32 uint32 = 0x120
	SIOCNT    uint32 = 0x128
	SIODATA8  uint32 = 0x12A
	KEYINPUT  uint32 = 0x130
	KEYCNT    uint32 = 0x132
	RCNT      uint32 = 0x134
	JOYCNT    uint32 = 0x140
	IE        uint32 = 0x200
	IF        uint32 = 0x202
	WAITCNT   uint32 = 0x204
	IME       uint32 = 0x208
	POSTFLG   uint32 = 0x300
	HALTCNT   uint32 = 0x301
)

// Interrupt is a bit mask into IE/IF (§4.2.6, vectors).
type Interrupt uint16

const (
	IRQVBlank Interrupt = 1 << 0
	IRQHBlank Interrupt = 1 << 1
	IRQVCount Interrupt = 1 << 2
	IRQTimer0 Interrupt = 1 << 3
	IRQTimer1 Interrupt = 1 << 4
	IRQTimer2 Interrupt = 1 << 5
	IRQTimer3 Interrupt = 1 << 6
	IRQSerial Interrupt = 1 << 7
	IRQDMA0   Interrupt = 1 << 8
	IRQDMA1   Interrupt = 1 << 9
	IRQDMA2   Interrupt = 1 << 10
	IRQDMA3   Interrupt = 1 << 11
	IRQKeypad Interrupt = 1 << 12
	IRQGamepak Interrupt = 1 << 13
)

// Exception vector addresses (§4.2.6).
const (
	VectorReset  uint32 = 0x00
	VectorUndef  uint32 = 0x04
	VectorSWI    uint32 = 0x08
	VectorPAbt   uint32 = 0x0C
	VectorDAbt   uint32 = 0x10
	VectorAddr26 uint32 = 0x14
	VectorIRQ    uint32 = 0x18
	VectorFIQ    uint32 = 0x1C
)
