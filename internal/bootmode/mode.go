package bootmode

import "periph.io/x/conn/v3/gpio"

// Mode is the boot mode requested for the ESP.
type Mode int

const (
	// ModeNone leaves the strap pins alone and only resets the ESP.
	ModeNone Mode = iota
	// ModeSerial boots the ESP into its application firmware with the UART passed through.
	ModeSerial
	// ModeFlash boots the ESP into its ROM bootloader, ready for a firmware upload.
	ModeFlash
)

func (m Mode) String() string {
	switch m {
	case ModeSerial:
		return "serial"
	case ModeFlash:
		return "flash"
	default:
		return "none"
	}
}

// ParseMode converts the mode word given on the command line.
// An empty word is ModeNone. Any word that isn't a known mode is also ModeNone
// but ok is false so the caller can warn about it.
func ParseMode(s string) (mode Mode, ok bool) {
	switch s {
	case "serial":
		return ModeSerial, true
	case "flash":
		return ModeFlash, true
	case "":
		return ModeNone, true
	default:
		return ModeNone, false
	}
}

// strapLevels returns the levels for the mode select (ESP GPIO0) and boot select
// (ESP GPIO2) pins. set is false when the mode doesn't write them.
func (m Mode) strapLevels() (modeSelect, bootSelect gpio.Level, set bool) {
	switch m {
	case ModeSerial:
		return gpio.Low, gpio.High, true
	case ModeFlash:
		return gpio.High, gpio.High, true
	case ModeNone:
		return gpio.Low, gpio.Low, false
	default:
		return gpio.Low, gpio.Low, false
	}
}
