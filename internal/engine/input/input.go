// Package input polls SDL2 events for the benchmark loop.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// Action is what the benchmark loop should do after polling.
type Action int

const (
	// ActionNone continues the current benchmark.
	ActionNone Action = iota
	// ActionSkip ends the current benchmark and moves to the next one.
	ActionSkip
	// ActionQuit aborts the whole run.
	ActionQuit
)

// Resize is a drawable size change.
type Resize struct {
	Width  int
	Height int
}

// Input collects the events of one frame.
type Input struct {
	resize *Resize
}

// New creates a new input handler.
func New() *Input {
	return &Input{}
}

// Poll drains the SDL event queue. Escape or closing the window quits,
// Space skips to the next benchmark.
func (i *Input) Poll() Action {
	i.resize = nil
	action := ActionNone

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			return ActionQuit

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				i.resize = &Resize{Width: int(e.Data1), Height: int(e.Data2)}
			}

		case *sdl.KeyboardEvent:
			if e.Type != sdl.KEYDOWN || e.Repeat != 0 {
				continue
			}
			action = max(action, keyAction(e.Keysym.Scancode))
		}
	}

	return action
}

// Resized returns the last size change seen by Poll, or nil.
func (i *Input) Resized() *Resize {
	return i.resize
}

func keyAction(code sdl.Scancode) Action {
	switch code {
	case sdl.SCANCODE_ESCAPE, sdl.SCANCODE_Q:
		return ActionQuit
	case sdl.SCANCODE_SPACE:
		return ActionSkip
	default:
		return ActionNone
	}
}
