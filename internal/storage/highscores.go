package storage

import (
	"time"

	"github.com/vovakirdan/pinhall/internal/modes"
)

// HighScoreAdapter satisfies modes.HighScoreRepository over a Store,
// bridging the mode package's wire-friendly string dates (spec §6 payloads
// travel as JSON-shaped maps) with the table's native time.Time column.
type HighScoreAdapter struct {
	store *Store
	limit int
}

// NewHighScoreAdapter wraps store for use as a modes.HighScoreRepository.
// limit bounds how many rows Load returns; 0 uses the store's default.
func NewHighScoreAdapter(store *Store, limit int) *HighScoreAdapter {
	return &HighScoreAdapter{store: store, limit: limit}
}

func (a *HighScoreAdapter) Load() ([]modes.HighScoreEntry, error) {
	rows, err := a.store.LoadHighScores(a.limit)
	if err != nil {
		return nil, err
	}
	out := make([]modes.HighScoreEntry, len(rows))
	for i, r := range rows {
		out[i] = modes.HighScoreEntry{Name: r.Name, Score: r.Score, Date: r.Date.Format(time.RFC3339)}
	}
	return out, nil
}

func (a *HighScoreAdapter) Save(entries []modes.HighScoreEntry) error {
	rows := make([]HighScoreEntry, len(entries))
	for i, e := range entries {
		when, err := time.Parse(time.RFC3339, e.Date)
		if err != nil {
			when = time.Now()
		}
		rows[i] = HighScoreEntry{Name: e.Name, Score: e.Score, Date: when}
	}
	return a.store.SaveHighScores(rows)
}

var _ modes.HighScoreRepository = (*HighScoreAdapter)(nil)
