package cartridge

import (
	"testing"

	"github.com/kestrelcore/goadv/goadv/bus"
	"github.com/stretchr/testify/assert"
)

func romWithMarker(marker string, size int) []byte {
	rom := make([]byte, size)
	copy(rom[0x200:], marker)
	return rom
}

func TestDetectBackup_Flash(t *testing.T) {
	rom := romWithMarker("FLASH1M_V103", 0x1000)
	backup := DetectBackup(rom)
	_, ok := backup.(*bus.FlashBackup)
	assert.True(t, ok)
}

func TestDetectBackup_EEPROM(t *testing.T) {
	rom := romWithMarker("EEPROM_V111", 0x1000)
	backup := DetectBackup(rom)
	_, ok := backup.(*bus.EEPROMBackup)
	assert.True(t, ok)
}

func TestDetectBackup_SRAM(t *testing.T) {
	rom := romWithMarker("SRAM_V113", 0x1000)
	backup := DetectBackup(rom)
	_, ok := backup.(*bus.SRAMBackup)
	assert.True(t, ok)
}

func TestDetectBackup_None(t *testing.T) {
	rom := make([]byte, 0x1000)
	backup := DetectBackup(rom)
	_, ok := backup.(bus.NoBackup)
	assert.True(t, ok)
}

func TestReadHeader(t *testing.T) {
	rom := make([]byte, 0xC0)
	copy(rom[0xA0:], "GOADV GAME\x00\x00")
	copy(rom[0xAC:], "AGOE")
	copy(rom[0xB0:], "01")
	rom[0xBC] = 0

	h := ReadHeader(rom)
	assert.Equal(t, "GOADV GAME", h.Title)
	assert.Equal(t, "AGOE", h.GameCode)
}

func TestReadHeader_ShortROM(t *testing.T) {
	h := ReadHeader(make([]byte, 4))
	assert.Equal(t, "", h.Title)
}
