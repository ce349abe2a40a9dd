package core

import "time"

// kv is a small heterogeneous key/value store for the primitive kinds
// modes actually use in practice (spec §9 "Dynamic per-player state").
type kv struct {
	ints    map[string]int64
	floats  map[string]float64
	strings map[string]string
	bools   map[string]bool
}

func newKV() *kv {
	return &kv{
		ints:    make(map[string]int64),
		floats:  make(map[string]float64),
		strings: make(map[string]string),
		bools:   make(map[string]bool),
	}
}

func (s *kv) clear() {
	for k := range s.ints {
		delete(s.ints, k)
	}
	for k := range s.floats {
		delete(s.floats, k)
	}
	for k := range s.strings {
		delete(s.strings, k)
	}
	for k := range s.bools {
		delete(s.bools, k)
	}
}

func (s *kv) SetInt(key string, v int64)      { s.ints[key] = v }
func (s *kv) SetFloat(key string, v float64)  { s.floats[key] = v }
func (s *kv) SetString(key string, v string)  { s.strings[key] = v }
func (s *kv) SetBool(key string, v bool)      { s.bools[key] = v }

func (s *kv) Int(key string, def int64) int64 {
	if v, ok := s.ints[key]; ok {
		return v
	}
	return def
}

func (s *kv) Float(key string, def float64) float64 {
	if v, ok := s.floats[key]; ok {
		return v
	}
	return def
}

func (s *kv) String(key string, def string) string {
	if v, ok := s.strings[key]; ok {
		return v
	}
	return def
}

func (s *kv) Bool(key string, def bool) bool {
	if v, ok := s.bools[key]; ok {
		return v
	}
	return def
}

// Increment adds delta to the stored integer at key (default 0) and
// returns the new value. Used by ball-state counters such as target hits.
func (s *kv) Increment(key string, delta int64) int64 {
	v := s.Int(key, 0) + delta
	s.ints[key] = v
	return v
}

// Player is one participant in a game: a score, extra-ball count,
// accumulated playing time, and two scoped key/value stores.
type Player struct {
	Name       string
	Score      int64
	ExtraBalls int
	GameTime   time.Duration

	// GameState lives for the whole game; BallState is cleared at the
	// start of every new ball (spec §3, invariant 7).
	GameState *kv
	BallState *kv
}

// NewPlayer constructs a fresh player with empty state maps.
func NewPlayer(name string) *Player {
	return &Player{
		Name:      name,
		GameState: newKV(),
		BallState: newKV(),
	}
}

// ResetBallState clears the ball-scoped key/value store. Called by the
// controller before the first handler runs on a new ball.
func (p *Player) ResetBallState() {
	p.BallState.clear()
}

// AddScore adds delta (which may be negative, though pinball rules rarely
// use that) to the player's score.
func (p *Player) AddScore(delta int64) {
	p.Score += delta
}
