package main

import (
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// snapshotVersion is bumped whenever the encoded layout changes
const snapshotVersion = 1

var ErrSnapshotVersion = errors.New("snapshot: unsupported version")

// Snapshot carries a live level between a pause and a resume.
// It has no behaviour of its own.
type Snapshot struct {
	Version    int           `msgpack:"v"`
	Difficulty Difficulty    `msgpack:"diff"`
	Tick       uint64        `msgpack:"tick"`
	Viewport   LayerViewport `msgpack:"vp"`
	Player     *Ship         `msgpack:"player"`
	Asteroids  []*Asteroid   `msgpack:"asteroids"`
	AI         []*Ship       `msgpack:"ai"`
}

// Encode serialises the snapshot with msgpack
func (s *Snapshot) Encode() ([]byte, error) {
	s.Version = snapshotVersion
	data, err := msgpack.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("snapshot: encode: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses a snapshot produced by Encode
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := msgpack.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("snapshot: decode: %w", err)
	}
	if s.Version != snapshotVersion {
		return nil, fmt.Errorf("%w: %d", ErrSnapshotVersion, s.Version)
	}
	if s.Player == nil {
		return nil, errors.New("snapshot: missing player")
	}
	return &s, nil
}

// Clone returns a deep copy of the ship and its lasers
func (s *Ship) Clone() *Ship {
	c := *s
	c.Lasers = make([]*Laser, len(s.Lasers))
	for i, l := range s.Lasers {
		lc := *l
		c.Lasers[i] = &lc
	}
	return &c
}
