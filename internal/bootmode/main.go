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
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/TheCacophonyProject/event-reporter/v3/eventclient"
	arg "github.com/alexflint/go-arg"
	"github.com/sirupsen/logrus"
)

var (
	version = "<not set>"
	log     = newLogger()
)

// Logger returns the logger used by the esp tool.
func Logger() *logrus.Logger {
	return log
}

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(new(customFormatter))
	return l
}

type Args struct {
	Mode      []string `arg:"positional" help:"Boot mode to put the ESP in: serial or flash. The ESP is only reset when not given."`
	ResetPin  string   `arg:"--reset-pin" help:"GPIO pin wired to the ESP reset line."`
	ModePin   string   `arg:"--mode-pin" help:"GPIO pin wired to the ESP GPIO0 strap."`
	BootPin   string   `arg:"--boot-pin" help:"GPIO pin wired to the ESP GPIO2 strap."`
	NoEvent   bool     `arg:"--no-event" help:"Don't report the boot mode change to the event reporter."`
	ConfigDir string   `arg:"--config-dir" default:"/etc/cacophony" help:"Path to the config directory."`
	LogLevel  string   `arg:"-l, --log-level" default:"info" help:"Set the logging level (debug, info, warn, error)"`
}

func (Args) Version() string {
	return version
}

func (a Args) pins() Pins {
	return Pins{
		Reset:      a.ResetPin,
		ModeSelect: a.ModePin,
		BootSelect: a.BootPin,
	}
}

// mode picks the boot mode from the positional arguments. Only a single
// argument selects a mode, anything else just resets the ESP.
func (a Args) mode() Mode {
	if len(a.Mode) > 1 {
		log.Warnf("Expected one mode but got %d %v, only resetting the ESP", len(a.Mode), a.Mode)
		return ModeNone
	}
	word := ""
	if len(a.Mode) == 1 {
		word = a.Mode[0]
	}
	mode, ok := ParseMode(word)
	if !ok {
		log.Warnf("Unknown mode '%s', only resetting the ESP", word)
	}
	return mode
}

var defaultArgs = Args{}

func procArgs(input []string) (Args, error) {
	args := defaultArgs

	parser, err := arg.NewParser(arg.Config{Program: "esp"}, &args)
	if err != nil {
		return Args{}, err
	}
	err = parser.Parse(input)
	if errors.Is(err, arg.ErrHelp) {
		parser.WriteHelp(os.Stdout)
		os.Exit(0)
	}
	if errors.Is(err, arg.ErrVersion) {
		fmt.Println(version)
		os.Exit(0)
	}
	return args, err
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		log.SetLevel(logrus.DebugLevel)
	case "info":
		log.SetLevel(logrus.InfoLevel)
	case "warn":
		log.SetLevel(logrus.WarnLevel)
	case "error":
		log.SetLevel(logrus.ErrorLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
		log.Warn("Unknown log level, defaulting to info")
	}
}

type customFormatter struct{}

func (f *customFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	return []byte(fmt.Sprintf("[%s] %s\n", strings.ToUpper(entry.Level.String()), entry.Message)), nil
}

// Run sets the ESP boot mode from the command line arguments in inputArgs.
func Run(inputArgs []string, ver string) error {
	version = ver
	args, err := procArgs(inputArgs)
	if err != nil {
		return fmt.Errorf("failed to parse args: %w", err)
	}
	setLogLevel(args.LogLevel)
	log.Debug("Running version: ", version)

	mode := args.mode()

	pins, err := ParsePinsConfig(args.ConfigDir)
	if err != nil {
		log.Warnf("Failed to read config from '%s', using default pins: %v", args.ConfigDir, err)
	}
	pins = pins.override(args.pins())
	log.Debugf("Using pins reset: %s, mode select: %s, boot select: %s", pins.Reset, pins.ModeSelect, pins.BootSelect)

	board, err := OpenBoard(pins)
	if err != nil {
		return err
	}
	defer releaseBoard(board)

	runErr := board.Sequencer().Run(mode)
	if runErr == nil {
		log.Infof("ESP reset in %s mode", mode)
	}
	if !args.NoEvent {
		if err := eventclient.AddEvent(bootModeEvent(mode, runErr, time.Now())); err != nil {
			log.Warn("Failed to report boot mode event: ", err)
		}
	}
	return runErr
}

func releaseBoard(board *Board) {
	if err := board.Close(); err != nil {
		log.Warn("Failed to release pins: ", err)
	}
}

func bootModeEvent(mode Mode, runErr error, now time.Time) eventclient.Event {
	details := map[string]interface{}{
		"mode":    mode.String(),
		"success": runErr == nil,
	}
	if runErr != nil {
		details["error"] = runErr.Error()
	}
	return eventclient.Event{
		Timestamp: now,
		Type:      "espBootMode",
		Details:   details,
	}
}
