package repositories

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/desertthunder/sbx/internal/models"
	"github.com/desertthunder/sbx/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

var (
	boo = models.SoundEntry{DisplayName: "Boo", FullPath: "Boo.wav"}
	pop = models.SoundEntry{DisplayName: "Pop", FullPath: "SFX/Pop.wav"}
)

func mustCreate(t *testing.T, repo *PlayHistoryRepository, entry models.SoundEntry, pref models.PlaybackPreference) *models.PlayRecord {
	t.Helper()
	rec := models.NewPlayRecord(0, entry, pref)
	if err := repo.Create(rec); err != nil {
		t.Fatalf("failed to create play record: %v", err)
	}
	return rec
}

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)

	for want := 1; want <= 3; want++ {
		got, err := NextSequence(db, "play_history")
		if err != nil {
			t.Fatalf("NextSequence() error = %v", err)
		}
		if got != want {
			t.Errorf("NextSequence() = %d, want %d", got, want)
		}
	}

	if _, err := NextSequence(db, "play_history; DROP TABLE play_history"); err == nil {
		t.Error("expected invalid table name to be rejected")
	}
	if _, err := NextSequence(db, "missing"); err == nil {
		t.Error("expected error for a table without a sequence")
	}
}

func TestPlayHistoryRepository(t *testing.T) {
	remote := models.PlaybackPreference{Remote: true}

	t.Run("Create", func(t *testing.T) {
		repo := NewPlayHistoryRepository(setupTestDB(t))
		first := mustCreate(t, repo, boo, remote)
		second := mustCreate(t, repo, pop, models.PlaybackPreference{Remote: true, Local: true})

		if first.ID() == "" || first.ID() == second.ID() {
			t.Errorf("expected distinct generated IDs, got %q and %q", first.ID(), second.ID())
		}
		if first.Sequence() != 1 || second.Sequence() != 2 {
			t.Errorf("expected sequences 1 and 2, got %d and %d", first.Sequence(), second.Sequence())
		}
	})

	t.Run("Create Validates", func(t *testing.T) {
		repo := NewPlayHistoryRepository(setupTestDB(t))
		err := repo.Create(models.NewPlayRecord(0, models.SoundEntry{}, remote))
		if !errors.Is(err, shared.ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("Get", func(t *testing.T) {
		repo := NewPlayHistoryRepository(setupTestDB(t))
		rec := mustCreate(t, repo, pop, models.PlaybackPreference{Local: true})

		got, err := repo.Get(rec.ID())
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got.Entry() != pop {
			t.Errorf("Entry() = %+v, want %+v", got.Entry(), pop)
		}
		if got.Preference() != (models.PlaybackPreference{Local: true}) {
			t.Errorf("Preference() = %+v", got.Preference())
		}
		if got.CreatedAt().Sub(rec.CreatedAt()).Abs() > time.Second {
			t.Errorf("created_at round trip drifted: %v vs %v", got.CreatedAt(), rec.CreatedAt())
		}

		if _, err := repo.Get("nope"); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Update", func(t *testing.T) {
		repo := NewPlayHistoryRepository(setupTestDB(t))
		rec := mustCreate(t, repo, boo, remote)

		rec.SetDisplayName("Boo!")
		if err := repo.Update(rec); err != nil {
			t.Fatalf("Update() error = %v", err)
		}

		got, _ := repo.Get(rec.ID())
		if got.DisplayName() != "Boo!" {
			t.Errorf("expected updated display name, got %s", got.DisplayName())
		}
	})

	t.Run("Delete", func(t *testing.T) {
		repo := NewPlayHistoryRepository(setupTestDB(t))
		rec := mustCreate(t, repo, boo, remote)

		if err := repo.Delete(rec.ID()); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if _, err := repo.Get(rec.ID()); err == nil {
			t.Error("deleted record should not be returned")
		}
		if err := repo.Delete(rec.ID()); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("second delete should fail with ErrNotFound, got %v", err)
		}
	})

	t.Run("List", func(t *testing.T) {
		repo := NewPlayHistoryRepository(setupTestDB(t))
		mustCreate(t, repo, boo, remote)
		mustCreate(t, repo, pop, remote)
		mustCreate(t, repo, boo, remote)

		all, err := repo.List(nil)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(all) != 3 || all[0].Sequence() != 1 || all[2].Sequence() != 3 {
			t.Errorf("expected three records in sequence order, got %d", len(all))
		}

		byPath, _ := repo.List(map[string]any{"full_path": "Boo.wav"})
		if len(byPath) != 2 {
			t.Errorf("expected 2 Boo plays, got %d", len(byPath))
		}

		future, _ := repo.List(map[string]any{"since": time.Now().Add(time.Hour)})
		if len(future) != 0 {
			t.Errorf("expected no plays in the future, got %d", len(future))
		}
	})

	t.Run("Recent", func(t *testing.T) {
		repo := NewPlayHistoryRepository(setupTestDB(t))
		for range 5 {
			mustCreate(t, repo, boo, remote)
		}

		recent, err := repo.Recent(2)
		if err != nil {
			t.Fatalf("Recent() error = %v", err)
		}
		if len(recent) != 2 || recent[0].Sequence() != 4 || recent[1].Sequence() != 5 {
			t.Errorf("expected the last two plays oldest first, got %v", recent)
		}
	})

	t.Run("TopPlayed", func(t *testing.T) {
		repo := NewPlayHistoryRepository(setupTestDB(t))
		mustCreate(t, repo, pop, remote)
		mustCreate(t, repo, boo, remote)
		mustCreate(t, repo, boo, remote)

		top, err := repo.TopPlayed(10)
		if err != nil {
			t.Fatalf("TopPlayed() error = %v", err)
		}
		if len(top) != 2 {
			t.Fatalf("expected 2 sounds, got %d", len(top))
		}
		if top[0].FullPath != "Boo.wav" || top[0].Plays != 2 {
			t.Errorf("unexpected top entry %+v", top[0])
		}
		if top[0].LastPlayed.IsZero() {
			t.Error("expected last played time")
		}
	})

	t.Run("Clear", func(t *testing.T) {
		repo := NewPlayHistoryRepository(setupTestDB(t))
		mustCreate(t, repo, boo, remote)
		mustCreate(t, repo, pop, remote)

		n, err := repo.Clear()
		if err != nil || n != 2 {
			t.Fatalf("Clear() = %d, %v", n, err)
		}
		if all, _ := repo.List(nil); len(all) != 0 {
			t.Errorf("expected empty history, got %d", len(all))
		}
	})
}
