package main

// Controls are the on-screen buttons of the level HUD, in screen pixels
type Controls struct {
	Pause Rect `json:"pause"`
	Fire  Rect `json:"fire"`
}

// NewControls lays out the pause button in the top-left corner and the fire
// button in the bottom-right, inset by a padding of 2.6% of the width and
// 2% of the height. At 1920x1080 the buttons are 150 and 200 pixels.
func NewControls(screenW, screenH int) Controls {
	w, h := float64(screenW), float64(screenH)
	padX := int(w * 0.026)
	padY := int(h * 0.02)
	return Controls{
		Pause: Rect{
			Left:   padX,
			Top:    padY,
			Right:  int(w * 0.078),
			Bottom: int(h * 0.138),
		},
		Fire: Rect{
			Left:   screenW - int(w*0.104),
			Top:    screenH - int(h*0.185),
			Right:  screenW - padX,
			Bottom: screenH - padY,
		},
	}
}

// Action is what a pointer event on the HUD asks the level to do
type Action int

const (
	ActionNone Action = iota
	ActionPause
	ActionFire
)

func (a Action) String() string {
	switch a {
	case ActionPause:
		return "pause"
	case ActionFire:
		return "fire"
	}
	return "none"
}

// HitTest maps a screen point to the button under it
func (c Controls) HitTest(x, y float64) Action {
	switch {
	case c.Pause.Contains(x, y):
		return ActionPause
	case c.Fire.Contains(x, y):
		return ActionFire
	}
	return ActionNone
}
