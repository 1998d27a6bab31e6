package bootmode

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// Board holds the pins wired to the ESP.
// Close should be deferred as soon as OpenBoard returns.
type Board struct {
	reset      gpio.PinIO
	modeSelect gpio.PinIO
	bootSelect gpio.PinIO
	closed     bool
}

// OpenBoard loads the host drivers and finds the pins by name.
func OpenBoard(pins Pins) (*Board, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to init host: %w", err)
	}
	return boardFromRegistry(pins)
}

func boardFromRegistry(pins Pins) (*Board, error) {
	reset, err := lookupPin(pins.Reset)
	if err != nil {
		return nil, err
	}
	modeSelect, err := lookupPin(pins.ModeSelect)
	if err != nil {
		return nil, err
	}
	bootSelect, err := lookupPin(pins.BootSelect)
	if err != nil {
		return nil, err
	}
	return &Board{
		reset:      reset,
		modeSelect: modeSelect,
		bootSelect: bootSelect,
	}, nil
}

func lookupPin(name string) (gpio.PinIO, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("failed to find GPIO pin '%s'", name)
	}
	return p, nil
}

func (b *Board) Sequencer() *Sequencer {
	return NewSequencer(b.reset, b.modeSelect, b.bootSelect)
}

// Close releases the pins. They are left as outputs at their current levels
// so the ESP stays in the mode it was booted in.
func (b *Board) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	var firstErr error
	for _, p := range []gpio.PinIO{b.reset, b.modeSelect, b.bootSelect} {
		if err := p.Halt(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to halt %s: %w", p, err)
		}
	}
	return firstErr
}
