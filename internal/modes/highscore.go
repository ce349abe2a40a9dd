package modes

import (
	"sort"

	"github.com/vovakirdan/pinhall/internal/mode"
)

// HighScoreEntry is one persisted record: a qualifying player name, score,
// and an opaque date the repository attaches (formatted for the wire by
// Repository, not by this mode).
type HighScoreEntry struct {
	Name  string
	Score int64
	Date  string
}

// HighScoreRepository is the narrow persistence seam named in spec §6: a
// board ordered highest score first, loaded once at startup and saved
// whenever it changes.
type HighScoreRepository interface {
	Load() ([]HighScoreEntry, error)
	Save(entries []HighScoreEntry) error
}

// HighScore subscribes to GameEnded and appends every qualifying player
// score to the persisted board, re-sorting and truncating to MaxEntries
// (spec §4.8 "High-score").
type HighScore struct {
	mode.Base

	repo       HighScoreRepository
	maxEntries int
	dateFn     func() string

	entries []HighScoreEntry
}

// NewHighScore constructs a HighScore mode backed by repo. maxEntries
// defaults to 10. dateFn stamps a new entry's date; nil uses a fixed
// empty string (callers wanting real dates pass time.Now().Format(...)).
func NewHighScore(repo HighScoreRepository, maxEntries int, dateFn func() string) *HighScore {
	if maxEntries <= 0 {
		maxEntries = 10
	}
	if dateFn == nil {
		dateFn = func() string { return "" }
	}
	return &HighScore{
		Base:       mode.NewBase("highscore"),
		repo:       repo,
		maxEntries: maxEntries,
		dateFn:     dateFn,
	}
}

func (m *HighScore) Priority() int                   { return 5 }
func (m *HighScore) DefaultLifecycle() mode.Lifecycle { return mode.LifecycleSystem }

func (m *HighScore) ModeStarted() {
	if m.repo != nil {
		if loaded, err := m.repo.Load(); err == nil {
			m.entries = loaded
		}
	}
	m.Game().OnGameEnded(m.onGameEnded)
}

// Entries returns the current board, highest score first.
func (m *HighScore) Entries() []HighScoreEntry {
	out := make([]HighScoreEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

func (m *HighScore) onGameEnded() {
	changed := false
	for _, p := range m.Game().Players() {
		if m.qualifies(p.Score) {
			m.entries = append(m.entries, HighScoreEntry{Name: p.Name, Score: p.Score, Date: m.dateFn()})
			changed = true
		}
	}
	if !changed {
		return
	}

	sort.SliceStable(m.entries, func(i, j int) bool { return m.entries[i].Score > m.entries[j].Score })
	if len(m.entries) > m.maxEntries {
		m.entries = m.entries[:m.maxEntries]
	}

	if m.repo != nil {
		m.repo.Save(m.entries)
	}

	wire := make([]map[string]any, len(m.entries))
	for i, e := range m.entries {
		wire[i] = map[string]any{"name": e.Name, "score": e.Score, "date": e.Date}
	}
	m.Game().Post("high_score_updated", map[string]any{"entries": wire})
}

// qualifies reports whether score earns a spot on the board: there's room,
// or it strictly beats the current lowest kept entry (spec §4.8, §8
// scenario 6).
func (m *HighScore) qualifies(score int64) bool {
	if len(m.entries) < m.maxEntries {
		return true
	}
	lowest := m.entries[len(m.entries)-1].Score
	for _, e := range m.entries {
		if e.Score < lowest {
			lowest = e.Score
		}
	}
	return score > lowest
}

var _ mode.Mode = (*HighScore)(nil)
