// Package cartridge reads a ROM image's header and sniffs its backup save
// type from the ASCII id strings real GBA cartridges embed in their code
// section, constructing the matching bus.Backup (§4.1.2, §6 supplemental
// features).
package cartridge

import (
	"bytes"

	"github.com/kestrelcore/goadv/goadv/bus"
)

// Header describes the fixed fields of a GBA ROM header (offsets 0x00-0xBF).
type Header struct {
	Title     string
	GameCode  string
	MakerCode string
	Version   byte
	Checksum  byte
}

// ReadHeader parses the fixed-layout fields at the front of rom. It does not
// validate the Nintendo logo or header checksum; a malformed header still
// yields best-effort fields rather than an error, matching the core's
// tolerance for unofficial ROM dumps (§7).
func ReadHeader(rom []byte) Header {
	var h Header
	if len(rom) < 0xC0 {
		return h
	}
	h.Title = trimASCII(rom[0xA0:0xAC])
	h.GameCode = trimASCII(rom[0xAC:0xB0])
	h.MakerCode = trimASCII(rom[0xB0:0xB2])
	h.Version = rom[0xBC]
	h.Checksum = rom[0xBD]
	return h
}

func trimASCII(b []byte) string {
	end := len(b)
	for end > 0 && b[end-1] == 0 {
		end--
	}
	return string(b[:end])
}

// backupIDs are the ASCII markers real cartridges (and the linker scripts
// that build them) embed verbatim so a bootloader or emulator can identify
// the save type without a side-channel header field (§4.1.2).
var backupIDs = []struct {
	marker string
	build  func(romSize int) bus.Backup
}{
	{"EEPROM_", func(romSize int) bus.Backup {
		addrBits := 6
		if romSize > 16*1024*1024 {
			addrBits = 14
		}
		return bus.NewEEPROMBackup(addrBits)
	}},
	{"SRAM_", func(int) bus.Backup { return bus.NewSRAMBackup() }},
	{"FLASH1M_", func(int) bus.Backup { return bus.NewFlashBackup() }},
	{"FLASH512_", func(int) bus.Backup { return bus.NewFlashBackup() }},
	{"FLASH_", func(int) bus.Backup { return bus.NewFlashBackup() }},
}

// DetectBackup scans rom for a known backup-id string and constructs the
// matching state machine, defaulting to bus.NoBackup when none is found.
func DetectBackup(rom []byte) bus.Backup {
	for _, candidate := range backupIDs {
		if bytes.Contains(rom, []byte(candidate.marker)) {
			return candidate.build(len(rom))
		}
	}
	return bus.NoBackup{}
}
