package main

import (
	"flag"
	"fmt"
	"os"

	"famicore/lib"
)

func validRomPath(romPath string) error {
	stat, err := os.Stat(romPath)
	if err != nil {
		return fmt.Errorf("iNES rom file path %q does not exist or is not valid", romPath)
	} else if stat.IsDir() {
		return fmt.Errorf("iNES rom file path %q points to a directory", romPath)
	}
	return nil
}

func main() {
	romPath := flag.String("rom", "", "path to the iNES rom file to run")
	verbose := flag.Bool("verbose", false, "log instruction and device traces")
	freeRun := flag.Bool("free-run", false, "run unthrottled, no vsync")
	audioLib := flag.String("audio", "beep", "audio backend: nil, beep, portaudio or oto")
	audioLog := flag.Bool("audio-log", false, "log effective audio sampling rates")
	palette := flag.String("palette", "", "optional 64 colour .pal file")
	flag.Parse()

	if err := validRomPath(*romPath); err != nil {
		fmt.Printf("failed to start: %v\n", err)
		os.Exit(1)
	}

	core, err := lib.NewFamiCore(*romPath,
		lib.Verbose(*verbose),
		lib.FreeRun(*freeRun),
		lib.AudioLibrary(*audioLib),
		lib.AudioLogging(*audioLog),
	)
	if err != nil {
		fmt.Printf("failed to start: %v\n", err)
		os.Exit(1)
	}

	if *palette != "" {
		if err := core.SetPalette(*palette); err != nil {
			fmt.Printf("failed to load the palette file: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Printf("starting with iNES rom file: %s\n", *romPath)
	core.Run()
}
