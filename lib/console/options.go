package console

import (
	"famicore/lib/speakers"
)

type Option func(*Console) error

// Verbose turns on instruction and device tracing.
func Verbose(verbose bool) Option {
	return func(c *Console) error {
		c.verbose = verbose
		return nil
	}
}

// FreeRun unthrottles the emulation clock.
func FreeRun(freeRun bool) Option {
	return func(c *Console) error {
		c.freeRun = freeRun
		return nil
	}
}

// AudioLibrary selects the audio backend: nil, beep, portaudio or oto.
func AudioLibrary(name string) Option {
	return func(c *Console) error {
		c.audioLib = speakers.AudioLib(name)
		return nil
	}
}

// AudioLogging reports effective sampling rates while running.
func AudioLogging(log bool) Option {
	return func(c *Console) error {
		c.audioLog = log
		return nil
	}
}

// AudioOff disables the apu entirely.
func AudioOff(off bool) Option {
	return func(c *Console) error {
		c.audioOff = off
		return nil
	}
}
