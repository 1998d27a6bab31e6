package bootmode

import (
	"strconv"

	goconfig "github.com/TheCacophonyProject/go-config"
)

const espConfigKey = "esp"

// Pins names the hat GPIO pins wired to the ESP.
type Pins struct {
	Reset      string `mapstructure:"reset-pin"`
	ModeSelect string `mapstructure:"mode-pin"`
	BootSelect string `mapstructure:"boot-pin"`
}

func DefaultPins() Pins {
	return Pins{
		Reset:      "GPIO22",
		ModeSelect: "GPIO27",
		BootSelect: "GPIO17",
	}
}

// ParsePinsConfig reads the esp section of the config in configDir on top of the default pins.
func ParsePinsConfig(configDir string) (Pins, error) {
	conf, err := goconfig.New(configDir)
	if err != nil {
		return DefaultPins(), err
	}
	var fromFile Pins
	if err := conf.Unmarshal(espConfigKey, &fromFile); err != nil {
		return DefaultPins(), err
	}
	return DefaultPins().override(fromFile), nil
}

// override returns p with any non empty pin in o replacing it.
func (p Pins) override(o Pins) Pins {
	if o.Reset != "" {
		p.Reset = o.Reset
	}
	if o.ModeSelect != "" {
		p.ModeSelect = o.ModeSelect
	}
	if o.BootSelect != "" {
		p.BootSelect = o.BootSelect
	}
	return p.normalize()
}

func (p Pins) normalize() Pins {
	p.Reset = pinName(p.Reset)
	p.ModeSelect = pinName(p.ModeSelect)
	p.BootSelect = pinName(p.BootSelect)
	return p
}

// pinName turns a bare BCM number into the GPIO name periph registers it as.
func pinName(s string) string {
	if _, err := strconv.Atoi(s); err == nil {
		return "GPIO" + s
	}
	return s
}
