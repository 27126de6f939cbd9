package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/blockduel/internal/multiplayer"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenCreatesNestedPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "deep", "test.db")
	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestStoreTopScores(t *testing.T) {
	store := openTestStore(t)

	for _, e := range []ScoreEntry{
		{Mode: "marathon", Player: "ana", Score: 100, Lines: 1, Level: 1},
		{Mode: "marathon", Player: "bo", Score: 800, Lines: 4, Level: 1},
		{Mode: "marathon", Player: "ana", Score: 300, Lines: 2, Level: 1},
		{Mode: "versus", Player: "cy", Score: 5000, Lines: 40, Level: 5},
	} {
		if _, err := store.SaveScore(e); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}

	scores, err := store.TopScores("marathon", 2)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 2 {
		t.Fatalf("expected 2 scores with limit, got %d", len(scores))
	}
	if scores[0].Score != 800 || scores[0].Player != "bo" || scores[0].Lines != 4 {
		t.Errorf("unexpected best entry: %+v", scores[0])
	}
	if scores[1].Score != 300 {
		t.Errorf("expected second score 300, got %d", scores[1].Score)
	}
	if scores[0].CreatedAt.IsZero() {
		t.Error("created_at not parsed")
	}

	versus, _ := store.TopScores("versus", 10)
	if len(versus) != 1 {
		t.Errorf("modes must not mix: got %d versus scores", len(versus))
	}
}

func TestStoreHighScoreAndClear(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore("marathon")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("expected 0 for an empty mode, got %d", high)
	}

	store.SaveScore(ScoreEntry{Mode: "marathon", Score: 500})
	store.SaveScore(ScoreEntry{Mode: "marathon", Score: 1200})
	store.SaveScore(ScoreEntry{Mode: "versus", Score: 90})

	if high, _ = store.HighScore("marathon"); high != 1200 {
		t.Errorf("expected 1200, got %d", high)
	}

	if err := store.ClearScores("marathon"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}
	if left, _ := store.TopScores("marathon", 10); len(left) != 0 {
		t.Errorf("expected no marathon scores after clear, got %d", len(left))
	}
	if left, _ := store.TopScores("versus", 10); len(left) != 1 {
		t.Error("clearing one mode must not touch another")
	}
}

func TestStoreStats(t *testing.T) {
	store := openTestStore(t)

	empty, err := store.Stats("marathon")
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if empty.Games != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("unexpected stats for empty mode: %+v", empty)
	}

	store.SaveScore(ScoreEntry{Mode: "marathon", Score: 100, Lines: 3, Level: 1})
	store.SaveScore(ScoreEntry{Mode: "marathon", Score: 300, Lines: 12, Level: 2})

	stats, err := store.Stats("marathon")
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.Games != 2 || stats.HighScore != 300 || stats.TotalLines != 15 || stats.BestLevel != 2 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if stats.AvgScore != 200 {
		t.Errorf("expected average 200, got %v", stats.AvgScore)
	}
}

func TestStoreMatchResults(t *testing.T) {
	store := openTestStore(t)

	var saver multiplayer.MatchResultSaver = store
	err := saver.SaveMatchResult(multiplayer.MatchResultData{
		MatchID:        "m-1",
		Code:           "ABC234",
		Player1Session: "host",
		Player2Session: "joiner",
		Score1:         800,
		Score2:         100,
		WinnerSession:  "host",
		LoserSide:      2,
		EndReason:      "topped_out",
		DurationSecs:   95,
	})
	if err != nil {
		t.Fatalf("SaveMatchResult() failed: %v", err)
	}
	err = saver.SaveMatchResult(multiplayer.MatchResultData{
		MatchID:        "m-2",
		Player1Session: "other",
		Player2Session: "joiner",
		EndReason:      "abandoned",
	})
	if err != nil {
		t.Fatalf("SaveMatchResult() failed: %v", err)
	}

	m, err := store.MatchByID("m-1")
	if err != nil {
		t.Fatalf("MatchByID() failed: %v", err)
	}
	if m == nil {
		t.Fatal("match not found")
	}
	if m.Code != "ABC234" || m.WinnerSession != "host" || m.LoserSide != 2 || m.Duration != 95 {
		t.Errorf("unexpected record: %+v", m)
	}

	missing, err := store.MatchByID("nope")
	if err != nil || missing != nil {
		t.Errorf("expected nil, nil for a missing match, got %v, %v", missing, err)
	}

	recent, err := store.RecentMatches(10)
	if err != nil {
		t.Fatalf("RecentMatches() failed: %v", err)
	}
	if len(recent) != 2 || recent[0].MatchID != "m-2" {
		t.Errorf("expected newest first, got %+v", recent)
	}
	if recent[0].WinnerSession != "" {
		t.Errorf("expected no winner, got %q", recent[0].WinnerSession)
	}

	mine, _ := store.PlayerMatches("host", 10)
	if len(mine) != 1 {
		t.Errorf("expected 1 match for host, got %d", len(mine))
	}
	theirs, _ := store.PlayerMatches("joiner", 10)
	if len(theirs) != 2 {
		t.Errorf("expected 2 matches for joiner, got %d", len(theirs))
	}

	if err := saver.SaveMatchResult(multiplayer.MatchResultData{MatchID: "m-1", EndReason: "x"}); err == nil {
		t.Error("duplicate match IDs must be rejected")
	}
}
