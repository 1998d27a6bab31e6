package bootmode

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPins(t *testing.T) {
	assert.Equal(t, Pins{Reset: "GPIO22", ModeSelect: "GPIO27", BootSelect: "GPIO17"}, DefaultPins())
}

func TestPinOverride(t *testing.T) {
	// Nothing set keeps the defaults.
	assert.Equal(t, DefaultPins(), DefaultPins().override(Pins{}))

	fromFile := DefaultPins().override(Pins{Reset: "GPIO5"})
	assert.Equal(t, Pins{Reset: "GPIO5", ModeSelect: "GPIO27", BootSelect: "GPIO17"}, fromFile)

	// Flags are applied last so win over the config file.
	fromFlags := fromFile.override(Pins{Reset: "GPIO23", BootSelect: "GPIO16"})
	assert.Equal(t, Pins{Reset: "GPIO23", ModeSelect: "GPIO27", BootSelect: "GPIO16"}, fromFlags)
}

func TestPinNumbersAreNormalized(t *testing.T) {
	pins := DefaultPins().override(Pins{Reset: "4", ModeSelect: "GPIO6", BootSelect: "13"})
	assert.Equal(t, Pins{Reset: "GPIO4", ModeSelect: "GPIO6", BootSelect: "GPIO13"}, pins)

	assert.Equal(t, "GPIO22", pinName("22"))
	assert.Equal(t, "GPIO22", pinName("GPIO22"))
	assert.Equal(t, "P1_15", pinName("P1_15"))
}

func TestArgsPins(t *testing.T) {
	args, err := procArgs([]string{"flash", "--reset-pin", "23", "--boot-pin", "GPIO5"})
	require.NoError(t, err)
	assert.Equal(t, []string{"flash"}, args.Mode)
	assert.Equal(t, Pins{Reset: "23", BootSelect: "GPIO5"}, args.pins())
	assert.Equal(t, "info", args.LogLevel)
	assert.Equal(t, "/etc/cacophony", args.ConfigDir)

	args, err = procArgs([]string{"--config-dir", "/tmp/esp"})
	require.NoError(t, err)
	assert.Empty(t, args.Mode)
	assert.Equal(t, Pins{}, args.pins())
	assert.Equal(t, "/tmp/esp", args.ConfigDir)

	// Extra words are accepted so the ESP still gets reset.
	args, err = procArgs([]string{"serial", "extra"})
	require.NoError(t, err)
	assert.Equal(t, []string{"serial", "extra"}, args.Mode)
}

func writeConfig(t *testing.T, contents string) string {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(contents), 0644))
	return dir
}

func TestPinsFromConfigFile(t *testing.T) {
	dir := writeConfig(t, `
[esp]
reset-pin = "5"
boot-pin = "GPIO16"
`)
	pins, err := ParsePinsConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, Pins{Reset: "GPIO5", ModeSelect: "GPIO27", BootSelect: "GPIO16"}, pins)

	// Flags win over the config file.
	pins = pins.override(Pins{Reset: "GPIO23"})
	assert.Equal(t, Pins{Reset: "GPIO23", ModeSelect: "GPIO27", BootSelect: "GPIO16"}, pins)
}

func TestMissingConfigDirUsesDefaultPins(t *testing.T) {
	pins, err := ParsePinsConfig(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
	assert.Equal(t, DefaultPins(), pins)
}
