package ui

import (
	"fmt"
	"image/color"
	"log"
	"os"
	"time"

	"github.com/faiface/pixel"
	"github.com/faiface/pixel/pixelgl"

	"famicore/lib/common"
	"famicore/lib/console"
)

const (
	screenFrameRatio = 3
	screenXWidth     = common.FrameXWidth * screenFrameRatio
	screenYHeight    = common.FrameYHeight * screenFrameRatio
)

// Screen owns the window and drives the console one frame per vsync.
type Screen struct {
	console *console.Console

	statePath string
	savePath  string

	window  *pixelgl.Window
	picture *pixel.PictureData
	sprite  *pixel.Sprite
	palette nesPalette

	// FPS stats
	fpsChannel   <-chan time.Time
	fpsLastFrame uint64
}

func (s *Screen) Init(console *console.Console, statePath string, savePath string) {
	s.console = console
	s.statePath = statePath
	s.savePath = savePath

	s.palette.init()
	s.picture = &pixel.PictureData{
		Pix:    make([]color.RGBA, common.FrameXWidth*common.FrameYHeight),
		Stride: common.FrameXWidth,
		Rect:   pixel.R(0, 0, common.FrameXWidth, common.FrameYHeight),
	}
	s.sprite = pixel.NewSprite(s.picture, s.picture.Rect)
}

// SetPalette loads a 64 colour .pal file in place of the default.
func (s *Screen) SetPalette(path string) error {
	return s.palette.load(path)
}

// Run blocks until the window closes. Must be called from the main
// goroutine, pixelgl owns the thread.
func (s *Screen) Run() {
	pixelgl.Run(s.runThread)
}

func (s *Screen) runThread() {
	cfg := pixelgl.WindowConfig{
		Title:  "FamiCore",
		Bounds: pixel.R(0, 0, screenXWidth, screenYHeight),
		VSync:  !s.console.FreeRun(),
	}
	window, err := pixelgl.NewWindow(cfg)
	if err != nil {
		panic(err)
	}

	s.window = window
	s.fpsChannel = time.Tick(time.Second)
	s.fpsLastFrame = 0

	// pre-fill the sample buffer so the speaker does not start dry
	for !s.console.AudioBufferReady() {
		s.console.Clock()
	}
	s.console.PlayAudio()

	s.runner()

	s.saveBattery()
	s.console.Stop()
}

func (s *Screen) runner() {
	for !s.window.Closed() {
		frame := s.console.Clock()
		s.blit(frame)

		s.sprite.Draw(s.window, pixel.IM.
			Moved(s.window.Bounds().Center()).
			ScaledXY(s.window.Bounds().Center(), pixel.V(screenFrameRatio, screenFrameRatio)))
		s.window.Update()

		s.updateFpsTitle()
		s.updateControllers()
	}
}

// palette indexes to RGBA, flipped since PictureData is bottom up
func (s *Screen) blit(frame *common.Frame) {
	for y := 0; y < common.FrameYHeight; y++ {
		row := (common.FrameYHeight - 1 - y) * common.FrameXWidth
		for x := 0; x < common.FrameXWidth; x++ {
			s.picture.Pix[row+x] = s.palette.colour(frame.At(x, y), frame.Mask)
		}
	}
	s.sprite.Set(s.picture, s.picture.Rect)
}

var buttons = [8]struct {
	id  uint8
	key pixelgl.Button
}{
	{common.BitA, pixelgl.KeyS},
	{common.BitB, pixelgl.KeyA},
	{common.BitSelect, pixelgl.KeyLeftShift},
	{common.BitStart, pixelgl.KeyEnter},
	{common.BitUp, pixelgl.KeyUp},
	{common.BitDown, pixelgl.KeyDown},
	{common.BitLeft, pixelgl.KeyLeft},
	{common.BitRight, pixelgl.KeyRight},
}

func (s *Screen) updateControllers() {
	for _, button := range buttons {
		s.console.Poke(0, button.id, s.window.Pressed(button.key))
	}

	if s.window.Pressed(pixelgl.KeyLeftControl) && s.window.JustPressed(pixelgl.KeyR) {
		s.console.Reset()
	}
	if s.window.Pressed(pixelgl.KeyLeftControl) && s.window.JustPressed(pixelgl.KeyF5) {
		s.saveState()
	}
	if s.window.Pressed(pixelgl.KeyLeftControl) && s.window.JustPressed(pixelgl.KeyF9) {
		s.loadState()
	}
}

func (s *Screen) updateFpsTitle() {
	select {
	case <-s.fpsChannel:
		frames := s.console.PPU().Frames() - s.fpsLastFrame
		s.fpsLastFrame = s.console.PPU().Frames()

		s.window.SetTitle(fmt.Sprintf("FamiCore | FPS: %d", frames))
	default:
	}
}

func (s *Screen) saveState() {
	file, err := os.Create(s.statePath)
	if err != nil {
		log.Printf("failed to create the state file: %v", err)
		return
	}
	defer file.Close()
	if err := s.console.SaveState(file); err != nil {
		log.Printf("failed to save state: %v", err)
	}
}

func (s *Screen) loadState() {
	file, err := os.Open(s.statePath)
	if err != nil {
		log.Printf("failed to open the state file: %v", err)
		return
	}
	defer file.Close()
	if err := s.console.LoadState(file); err != nil {
		log.Printf("failed to load state: %v", err)
	}
}

func (s *Screen) saveBattery() {
	if !s.console.Battery() || s.savePath == "" {
		return
	}
	if err := os.WriteFile(s.savePath, s.console.SaveData(), 0644); err != nil {
		log.Printf("failed to write the battery save: %v", err)
	}
}
