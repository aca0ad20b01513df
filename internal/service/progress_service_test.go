package service

import (
	"testing"
	"time"

	"kidlanes/internal/models"
)

// fakeWatchStore keeps records in memory keyed by item id (tests use a
// single profile)
type fakeWatchStore struct {
	records map[int64]*models.WatchRecord
	nextID  int64
	creates int
	updates int
}

func newFakeWatchStore() *fakeWatchStore {
	return &fakeWatchStore{records: make(map[int64]*models.WatchRecord)}
}

func (f *fakeWatchStore) GetRecord(profileID, itemID int64) (*models.WatchRecord, error) {
	rec, ok := f.records[itemID]
	if !ok {
		return nil, nil
	}
	copied := *rec
	return &copied, nil
}

func (f *fakeWatchStore) CreateRecord(record *models.WatchRecord) (int64, error) {
	f.nextID++
	f.creates++
	copied := *record
	copied.ID = f.nextID
	f.records[record.ItemID] = &copied
	return f.nextID, nil
}

func (f *fakeWatchStore) UpdateRecord(record *models.WatchRecord) error {
	f.updates++
	copied := *record
	f.records[record.ItemID] = &copied
	return nil
}

func TestRecordProgressZeroDurationIsNoOp(t *testing.T) {
	store := newFakeWatchStore()
	svc := NewProgressService(store)

	record, newlyCompleted, err := svc.RecordProgress(1, 10, 100, 42, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record != nil {
		t.Errorf("expected no record, got %+v", record)
	}
	if newlyCompleted {
		t.Error("expected newlyCompleted=false")
	}
	if store.creates != 0 || store.updates != 0 {
		t.Errorf("expected no writes, got %d creates, %d updates", store.creates, store.updates)
	}
}

func TestRecordProgressPercent(t *testing.T) {
	tests := []struct {
		name          string
		position      float64
		duration      float64
		wantPercent   int
		wantCompleted bool
	}{
		{"start", 0, 100, 0, false},
		{"half", 50, 100, 50, false},
		{"rounds up", 89.5, 100, 90, true},
		{"rounds down", 89.4, 100, 89, false},
		{"at threshold", 90, 100, 90, true},
		{"full", 100, 100, 100, true},
		{"past the end clamps", 130, 100, 100, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewProgressService(newFakeWatchStore())
			record, newlyCompleted, err := svc.RecordProgress(1, 10, 100, tt.position, tt.duration)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if record.ProgressPercent != tt.wantPercent {
				t.Errorf("percent = %d, want %d", record.ProgressPercent, tt.wantPercent)
			}
			if record.Completed != tt.wantCompleted {
				t.Errorf("completed = %v, want %v", record.Completed, tt.wantCompleted)
			}
			if newlyCompleted != tt.wantCompleted {
				t.Errorf("newlyCompleted = %v, want %v on first sample", newlyCompleted, tt.wantCompleted)
			}
		})
	}
}

func TestRecordProgressFirstSampleCompleted(t *testing.T) {
	svc := NewProgressService(newFakeWatchStore())

	record, newlyCompleted, err := svc.RecordProgress(1, 10, 100, 95, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !newlyCompleted {
		t.Error("expected newlyCompleted=true on first completed sample")
	}
	if record.CompletedAt == nil {
		t.Error("expected completedAt to be set")
	}
	if record.StartedAt.IsZero() {
		t.Error("expected startedAt to be set")
	}
}

func TestRecordProgressIdempotent(t *testing.T) {
	svc := NewProgressService(newFakeWatchStore())

	first, newly1, err := svc.RecordProgress(1, 10, 100, 95, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, newly2, err := svc.RecordProgress(1, 10, 100, 95, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !newly1 {
		t.Error("first call should report newlyCompleted=true")
	}
	if newly2 {
		t.Error("second identical call should report newlyCompleted=false")
	}
	if second.ProgressPercent != first.ProgressPercent || second.Completed != first.Completed {
		t.Errorf("second record %+v differs from first %+v", second, first)
	}
}

func TestRecordProgressCompletedAtIsMonotonic(t *testing.T) {
	store := newFakeWatchStore()
	svc := NewProgressService(store)

	completed, _, err := svc.RecordProgress(1, 10, 100, 95, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	completedAt := *completed.CompletedAt

	time.Sleep(5 * time.Millisecond)

	// A later sample below the threshold must not undo completion.
	later, newlyCompleted, err := svc.RecordProgress(1, 10, 100, 30, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if newlyCompleted {
		t.Error("re-watching should not report a new completion")
	}
	if !later.Completed {
		t.Error("completed must never revert to false")
	}
	if later.ProgressPercent != 30 {
		t.Errorf("percent = %d, want 30", later.ProgressPercent)
	}
	if later.CompletedAt == nil || !later.CompletedAt.Equal(completedAt) {
		t.Errorf("completedAt changed: got %v, want %v", later.CompletedAt, completedAt)
	}

	// Crossing the threshold again must not move completedAt either.
	again, newlyCompleted, err := svc.RecordProgress(1, 10, 100, 99, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if newlyCompleted {
		t.Error("second threshold crossing should not report a new completion")
	}
	if again.CompletedAt == nil || !again.CompletedAt.Equal(completedAt) {
		t.Errorf("completedAt changed on re-completion: got %v, want %v", again.CompletedAt, completedAt)
	}
}

func TestRecordProgressPreservesStartedAt(t *testing.T) {
	svc := NewProgressService(newFakeWatchStore())

	first, _, err := svc.RecordProgress(1, 10, 100, 10, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	startedAt := first.StartedAt

	time.Sleep(5 * time.Millisecond)

	second, _, err := svc.RecordProgress(1, 10, 100, 20, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !second.StartedAt.Equal(startedAt) {
		t.Errorf("startedAt changed: got %v, want %v", second.StartedAt, startedAt)
	}
	if !second.UpdatedAt.After(startedAt) {
		t.Error("updatedAt should advance on later samples")
	}
}
