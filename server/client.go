package main

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = (pongWait * 9) / 10
	maxMessageSize    = 4096
	sendBufSize       = 256
	maxMessagesPerSec = 50
	maxScreenSide     = 8192
)

// Client represents a WebSocket connection
type Client struct {
	hub          *Hub
	conn         *websocket.Conn
	send         chan []byte
	sessionID    string
	remoteAddr   string
	isController bool
	msgCount     int
	msgResetAt   time.Time
}

// NewClient creates a new Client
func NewClient(hub *Hub, conn *websocket.Conn, remoteAddr string) *Client {
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, sendBufSize),
		remoteAddr: remoteAddr,
	}
}

// ReadPump reads messages from the WebSocket connection
func (c *Client) ReadPump() {
	defer func() {
		c.hub.TrackDisconnect(c.remoteAddr)
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		msgType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.log.Debug().Err(err).Str("ip", c.remoteAddr).Msg("ws error")
			}
			break
		}

		// Rate limiting
		now := time.Now()
		if now.After(c.msgResetAt) {
			c.msgCount = 0
			c.msgResetAt = now.Add(time.Second)
		}
		c.msgCount++
		if c.msgCount > maxMessagesPerSec {
			c.hub.log.Warn().Str("ip", c.remoteAddr).Msg("rate limit exceeded, disconnecting")
			break
		}

		// Binary touch samples: 6 bytes [0x01, x_hi, x_lo, y_hi, y_lo, flags]
		if msgType == websocket.BinaryMessage && len(message) == 6 && message[0] == 0x01 {
			c.handleBinaryTouch(message)
		} else {
			c.handleMessage(message)
		}
	}
}

// WritePump writes messages to the WebSocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			// Check for binary marker (0xFF prefix from SendBinary)
			var err error
			if len(message) > 0 && message[0] == 0xFF {
				err = c.conn.WriteMessage(websocket.BinaryMessage, message[1:])
			} else {
				err = c.conn.WriteMessage(websocket.TextMessage, message)
			}
			if err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendJSON sends a JSON message to the client
func (c *Client) SendJSON(msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.hub.log.Error().Err(err).Msg("marshal error")
		return
	}
	c.SendRaw(data)
}

// SendRaw sends pre-marshaled bytes as a text message to the client
func (c *Client) SendRaw(data []byte) {
	defer func() { recover() }()
	select {
	case c.send <- data:
	default:
		// Client too slow, drop message
	}
}

// SendBinary sends pre-marshaled bytes as a binary WebSocket message
// Prefixes with 0xFF marker byte so WritePump can distinguish from text
func (c *Client) SendBinary(data []byte) {
	defer func() { recover() }()
	msg := make([]byte, len(data)+1)
	msg[0] = 0xFF // binary marker
	copy(msg[1:], data)
	select {
	case c.send <- msg:
	default:
	}
}

func (c *Client) sendError(msg string) {
	c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: msg}})
}

// handleMessage routes incoming messages (single-pass decode via InEnvelope)
func (c *Client) handleMessage(raw []byte) {
	var env InEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.hub.log.Debug().Err(err).Msg("unmarshal error")
		return
	}

	switch env.T {
	case MsgStart:
		c.handleStart(env.D)
	case MsgResume:
		c.handleResume(env.D)
	case MsgInput:
		c.handleInput(env.D)
	case MsgControl:
		c.handleControl(env.D)
	case MsgLeave:
		c.handleLeave()
	}
}

// inLevel reports whether the client's session is still running. Sessions
// end on their own when the level pauses or finishes.
func (c *Client) inLevel() bool {
	if c.sessionID == "" {
		return false
	}
	if c.hub.sessions.GetSession(c.sessionID) != nil {
		return true
	}
	c.sessionID = ""
	c.isController = false
	return false
}

func validScreen(s ScreenMsg) bool {
	return s.Width > 0 && s.Height > 0 && s.Width <= maxScreenSide && s.Height <= maxScreenSide
}

func (c *Client) levelConfig(s ScreenMsg) LevelConfig {
	return LevelConfig{
		Tuning:       c.hub.tuning.Current(),
		ScreenWidth:  s.Width,
		ScreenHeight: s.Height,
		Letterbox:    s.Letterbox,
	}
}

func (c *Client) handleStart(data json.RawMessage) {
	if c.inLevel() {
		c.sendError("already in a level")
		return
	}
	var msg StartMsg
	if err := json.Unmarshal(data, &msg); err != nil || !validScreen(msg.ScreenMsg) {
		c.sendError("bad start request")
		return
	}

	cfg := c.levelConfig(msg.ScreenMsg)
	cfg.Difficulty = Difficulty(msg.Difficulty)
	if !cfg.Difficulty.Valid() {
		cfg.Difficulty = DifficultyNormal
	}
	cfg.Seed = msg.Seed
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	sess, err := c.hub.sessions.CreateSession(c, false, func(g *Game) (*Level, error) {
		return NewLevel(cfg, g, g.log)
	})
	if err != nil {
		c.startFailed(err)
		return
	}
	c.sessionID = sess.ID
}

func (c *Client) handleResume(data json.RawMessage) {
	if c.inLevel() {
		c.sendError("already in a level")
		return
	}
	var msg ResumeMsg
	if err := json.Unmarshal(data, &msg); err != nil || !validScreen(msg.ScreenMsg) {
		c.sendError("bad resume request")
		return
	}
	claims, err := c.hub.tokens.Validate(msg.Token)
	if err != nil {
		c.sendError("invalid resume token")
		return
	}
	// A token resumes once
	snap, err := c.hub.db.TakeSnapshot(claims.SnapshotID)
	if err != nil {
		if errors.Is(err, ErrSnapshotNotFound) {
			c.sendError("saved level not found")
		} else {
			c.hub.log.Error().Err(err).Str("snapshot", claims.SnapshotID).Msg("load snapshot")
			c.sendError("could not load level")
		}
		return
	}

	cfg := c.levelConfig(msg.ScreenMsg)
	sess, err := c.hub.sessions.CreateSession(c, true, func(g *Game) (*Level, error) {
		return RestoreLevel(cfg, snap, g, g.log)
	})
	if err != nil {
		// put it back so the token can be retried
		if serr := c.hub.db.SaveSnapshot(claims.SnapshotID, claims.SessionID, snap); serr != nil {
			c.hub.log.Error().Err(serr).Str("snapshot", claims.SnapshotID).Msg("restore snapshot")
		}
		c.startFailed(err)
		return
	}
	c.sessionID = sess.ID
}

func (c *Client) startFailed(err error) {
	if errors.Is(err, ErrSessionFull) {
		c.sendError(err.Error())
		return
	}
	c.hub.log.Error().Err(err).Msg("create level")
	c.sendError("could not create level")
}

// handleBinaryTouch decodes a compact touch sample
func (c *Client) handleBinaryTouch(msg []byte) {
	if c.sessionID == "" {
		return
	}
	x := float64(uint16(msg[1])<<8 | uint16(msg[2]))
	y := float64(uint16(msg[3])<<8 | uint16(msg[4]))
	sess := c.hub.sessions.GetSession(c.sessionID)
	if sess == nil {
		return
	}
	sess.Game.HandleInput(InputMsg{Touch: &TouchSample{Active: msg[5]&0x01 != 0, X: x, Y: y}})
}

func (c *Client) handleInput(data json.RawMessage) {
	if c.sessionID == "" {
		return
	}
	var in InputMsg
	if err := json.Unmarshal(data, &in); err != nil {
		return
	}
	sess := c.hub.sessions.GetSession(c.sessionID)
	if sess == nil {
		return
	}
	sess.Game.HandleInput(in)
}

func (c *Client) handleLeave() {
	c.hub.detach(c)
}

func (c *Client) handleControl(data json.RawMessage) {
	if c.inLevel() {
		c.sendError("already in a level")
		return
	}
	var msg ControlMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	sess := c.hub.sessions.GetSession(msg.SID)
	if sess == nil {
		c.sendError("session not found")
		return
	}

	c.sessionID = msg.SID
	c.isController = true

	sess.Game.SetController(c)
	c.SendJSON(Envelope{T: MsgControlOK, Data: map[string]string{"sid": msg.SID}})
}
