/*
esp-boot-mode - Sets the boot mode of the ESP attached to the hat
Copyright (C) 2024, The Cacophony Project

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

package bootmode

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// resetPulse is how long the reset line is held low.
const resetPulse = 10 * time.Millisecond

var sleepFn = time.Sleep

// Sequencer drives the reset and strap pins of the ESP.
type Sequencer struct {
	reset      gpio.PinIO
	modeSelect gpio.PinIO
	bootSelect gpio.PinIO
}

func NewSequencer(reset, modeSelect, bootSelect gpio.PinIO) *Sequencer {
	return &Sequencer{
		reset:      reset,
		modeSelect: modeSelect,
		bootSelect: bootSelect,
	}
}

// Run sets the strap pins for the given mode then restarts the ESP so it
// samples them. The reset pulse is done for every mode, ModeNone included.
func (s *Sequencer) Run(mode Mode) error {
	for _, p := range []gpio.PinIO{s.reset, s.modeSelect, s.bootSelect} {
		if err := setOutput(p); err != nil {
			return err
		}
	}

	if modeLevel, bootLevel, ok := mode.strapLevels(); ok {
		log.Debugf("Setting %s to %s and %s to %s for %s mode", s.modeSelect, modeLevel, s.bootSelect, bootLevel, mode)
		if err := write(s.modeSelect, modeLevel); err != nil {
			return err
		}
		if err := write(s.bootSelect, bootLevel); err != nil {
			return err
		}
	}

	log.Debug("Restarting ESP")
	if err := write(s.reset, gpio.Low); err != nil {
		return err
	}
	sleepFn(resetPulse)
	return write(s.reset, gpio.High)
}

// setOutput makes the pin an output without changing the level it is at.
func setOutput(p gpio.PinIO) error {
	if err := p.Out(p.Read()); err != nil {
		return fmt.Errorf("failed to set %s as an output: %w", p, err)
	}
	return nil
}

func write(p gpio.PinIO, l gpio.Level) error {
	if err := p.Out(l); err != nil {
		return fmt.Errorf("failed to set %s %s: %w", p, l, err)
	}
	return nil
}
