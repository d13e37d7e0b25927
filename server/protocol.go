package main

import (
	"encoding/json"

	"github.com/vmihailenco/msgpack/v5"
)

// Client -> Server message types
const (
	MsgStart   = "start"   // start a new level
	MsgResume  = "resume"  // resume a paused level from a token
	MsgInput   = "input"   // pointer events and touch sample
	MsgControl = "control" // phone controller attach
	MsgLeave   = "leave"
)

// Server -> Client message types
const (
	MsgWelcome   = "welcome"
	MsgEvent     = "event"
	MsgPaused    = "paused"
	MsgEnded     = "ended"
	MsgError     = "error"
	MsgControlOK = "control_ok" // controller attach confirmed
	MsgCtrlOn    = "ctrl_on"    // notify player: controller attached
	MsgCtrlOff   = "ctrl_off"   // notify player: controller detached
)

// Envelope wraps all outgoing JSON messages with a type field
type Envelope struct {
	T    string      `json:"t"`
	Data interface{} `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages; json.RawMessage avoids double-unmarshal
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// InputMsg carries pointer events and, optionally, a new touch sample.
// Without a touch the game keeps the one it has.
type InputMsg struct {
	Events []PointerEvent `json:"events"`
	Touch  *TouchSample   `json:"touch,omitempty"`
}

// ScreenMsg describes the client's screen
type ScreenMsg struct {
	Width     int  `json:"w"`
	Height    int  `json:"h"`
	Letterbox bool `json:"letterbox,omitempty"`
}

// StartMsg asks for a new level
type StartMsg struct {
	ScreenMsg
	Difficulty int   `json:"difficulty"`
	Seed       int64 `json:"seed,omitempty"`
}

// ResumeMsg asks to continue a paused level
type ResumeMsg struct {
	ScreenMsg
	Token string `json:"token"`
}

// ControlMsg is sent by a phone controller to attach to a session
type ControlMsg struct {
	SID string `json:"sid"`
}

// WelcomeMsg is sent when a level starts or resumes
type WelcomeMsg struct {
	SID        string         `json:"sid"`
	PlayerID   string         `json:"pid"`
	Difficulty string         `json:"difficulty"`
	Lives      int            `json:"lives"`
	Arena      Arena          `json:"arena"`
	Screen     ScreenViewport `json:"screen"`
	Controls   Controls       `json:"controls"`
	Resumed    bool           `json:"resumed,omitempty"`
}

// PausedMsg carries the token needed to resume
type PausedMsg struct {
	Token string `json:"token"`
	Tick  uint64 `json:"tick"`
}

// EndedMsg reports the outcome of a level
type EndedMsg struct {
	Outcome   string `json:"outcome"`
	Ticks     uint64 `json:"ticks"`
	LivesLost int    `json:"lives_lost"`
	Destroyed int    `json:"destroyed"`
}

// ErrorMsg sends error to client
type ErrorMsg struct {
	Msg string `json:"msg"`
}

// ShipState is the HUD view of a ship
type ShipState struct {
	ID    string  `msgpack:"id" json:"id"`
	Kind  string  `msgpack:"k" json:"k"`
	X     float64 `msgpack:"x" json:"x"`
	Y     float64 `msgpack:"y" json:"y"`
	R     float64 `msgpack:"r" json:"r"` // degrees
	HP    int     `msgpack:"hp" json:"hp"`
	MaxHP int     `msgpack:"mhp" json:"mhp"`
	Lives int     `msgpack:"l" json:"l"`
	Ready bool    `msgpack:"rd" json:"rd"`
}

// SpriteFrame is one visible sprite: which bitmap, which part of it, and
// where on screen it goes.
type SpriteFrame struct {
	ID     string  `msgpack:"id"`
	Sprite string  `msgpack:"s"`
	R      float64 `msgpack:"r"`
	Src    Rect    `msgpack:"src"`
	Dst    Rect    `msgpack:"dst"`
}

// Frame is the binary state broadcast
type Frame struct {
	Tick     uint64        `msgpack:"tick"`
	Outcome  string        `msgpack:"o"`
	Player   ShipState     `msgpack:"p"`
	AI       int           `msgpack:"ai"`
	Viewport LayerViewport `msgpack:"vp"`
	Sprites  []SpriteFrame `msgpack:"sp"`
}

// BuildFrame projects every visible entity of the level onto its screen
func BuildFrame(l *Level) Frame {
	f := Frame{
		Tick:     l.Tick,
		Outcome:  l.Outcome.String(),
		Player:   l.Player.ToState(),
		AI:       len(l.AI),
		Viewport: l.Layer,
		Sprites:  make([]SpriteFrame, 0, len(l.Asteroids)+len(l.AI)+1),
	}
	add := func(id, sprite string, b *Body) {
		size := l.tuning.SpriteSize(sprite)
		p, ok := MapWorldRectToScreen(b.Bound(), l.Layer, l.Screen, size.BitmapWidth, size.BitmapHeight)
		if !ok {
			return
		}
		f.Sprites = append(f.Sprites, SpriteFrame{
			ID:     id,
			Sprite: sprite,
			R:      round1(WrapDegrees(b.Orientation)),
			Src:    p.ClippedSource,
			Dst:    p.ClippedScreen,
		})
	}
	for _, a := range l.Asteroids {
		add(a.ID, AsteroidSprite, &a.Body)
	}
	for _, m := range l.AI {
		add(m.ID, m.Sprite, &m.Body)
		for _, las := range m.Lasers {
			add(las.ID, LaserSprite, &las.Body)
		}
	}
	for _, las := range l.Player.Lasers {
		add(las.ID, LaserSprite, &las.Body)
	}
	add(l.Player.ID, l.Player.Sprite, &l.Player.Body)
	return f
}

// EncodeFrame serialises a frame with msgpack
func EncodeFrame(f Frame) ([]byte, error) {
	return msgpack.Marshal(&f)
}
