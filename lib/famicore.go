package lib

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"famicore/lib/console"
	"famicore/lib/ui"
)

// re-exported console options
var (
	Verbose      = console.Verbose
	FreeRun      = console.FreeRun
	AudioLibrary = console.AudioLibrary
	AudioLogging = console.AudioLogging
	AudioOff     = console.AudioOff
)

// FamiCore couples a console with a window. Battery saves and save
// states live next to the rom file.
type FamiCore struct {
	console *console.Console
	screen  ui.Screen
}

// Example usage:
//
//	core, err := lib.NewFamiCore("rom.nes",
//		lib.Verbose(false),
//		lib.AudioLibrary("portaudio"),
//	)
func NewFamiCore(romPath string, options ...console.Option) (*FamiCore, error) {
	rom, err := os.ReadFile(romPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read the rom file: %w", err)
	}

	base := strings.TrimSuffix(romPath, filepath.Ext(romPath))
	savePath := base + ".sav"
	statePath := base + ".state"

	// a missing battery save file just means a fresh start
	saveData, err := os.ReadFile(savePath)
	if err != nil {
		saveData = nil
	}

	cons, err := console.New(rom, saveData, options...)
	if err != nil {
		return nil, err
	}

	core := &FamiCore{console: cons}
	core.screen.Init(cons, statePath, savePath)
	return core, nil
}

// SetPalette loads a .pal colour file for the screen.
func (f *FamiCore) SetPalette(path string) error {
	return f.screen.SetPalette(path)
}

func (f *FamiCore) Console() *console.Console {
	return f.console
}

// Run blocks until the window is closed.
func (f *FamiCore) Run() {
	f.screen.Run()
}
