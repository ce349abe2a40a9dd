package modes

import (
	"fmt"
	"testing"

	"github.com/vovakirdan/pinhall/internal/core"
)

func fakePlayers(scores ...int64) []*core.Player {
	out := make([]*core.Player, len(scores))
	for i, s := range scores {
		p := core.NewPlayer(fmt.Sprintf("Player %d", i+1))
		p.AddScore(s)
		out[i] = p
	}
	return out
}

type fakeHighScoreRepo struct {
	loaded []HighScoreEntry
	saved  []HighScoreEntry
}

func (r *fakeHighScoreRepo) Load() ([]HighScoreEntry, error) { return r.loaded, nil }
func (r *fakeHighScoreRepo) Save(entries []HighScoreEntry) error {
	r.saved = append([]HighScoreEntry(nil), entries...)
	return nil
}

func newHighScoreFixture(repo HighScoreRepository) (*fakeGameAPI, *HighScore) {
	api := newFakeGameAPI(nil)
	hs := NewHighScore(repo, 10, nil)
	must(api.Queue().Add(hs, api))
	return api, hs
}

func TestHighScoreLoadsExistingBoardOnStart(t *testing.T) {
	repo := &fakeHighScoreRepo{loaded: []HighScoreEntry{{Name: "AAA", Score: 500}}}
	_, hs := newHighScoreFixture(repo)

	if len(hs.Entries()) != 1 || hs.Entries()[0].Score != 500 {
		t.Fatalf("expected loaded board, got %v", hs.Entries())
	}
}

func TestHighScoreNonQualifyingScoreIsDropped(t *testing.T) {
	var loaded []HighScoreEntry
	for i := 0; i < 10; i++ {
		loaded = append(loaded, HighScoreEntry{Name: "AAA", Score: 1000})
	}
	repo := &fakeHighScoreRepo{loaded: loaded}
	api, _ := newHighScoreFixture(repo)

	api.players = fakePlayers(1)
	api.fireGameEnded()

	if len(repo.saved) != 0 {
		t.Fatalf("non-qualifying score should not trigger a save, got %v", repo.saved)
	}
}

func TestHighScoreQualifyingScoreIsAppendedSortedAndTruncated(t *testing.T) {
	repo := &fakeHighScoreRepo{}
	api, hs := newHighScoreFixture(repo)

	api.players = fakePlayers(300, 900, 100)
	api.fireGameEnded()

	entries := hs.Entries()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Score != 900 || entries[1].Score != 300 || entries[2].Score != 100 {
		t.Errorf("expected descending order, got %v", entries)
	}
	if !api.hasEvent("high_score_updated") {
		t.Error("expected high_score_updated event")
	}
	if len(repo.saved) != 3 {
		t.Errorf("expected board persisted, got %v", repo.saved)
	}
}

func TestHighScoreEmptyBoardAcceptsAnyScore(t *testing.T) {
	repo := &fakeHighScoreRepo{}
	api, hs := newHighScoreFixture(repo)

	api.players = fakePlayers(0)
	api.fireGameEnded()

	if len(hs.Entries()) != 1 {
		t.Fatalf("expected score 0 to qualify on an empty board, got %v", hs.Entries())
	}
}
