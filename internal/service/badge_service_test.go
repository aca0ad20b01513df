package service

import (
	"testing"
	"time"

	"kidlanes/internal/models"
)

type fakeBadgeStore struct {
	awarded map[models.BadgeKind]*models.EarnedBadge
	nextID  int64
}

func newFakeBadgeStore() *fakeBadgeStore {
	return &fakeBadgeStore{awarded: make(map[models.BadgeKind]*models.EarnedBadge)}
}

func (f *fakeBadgeStore) Award(profileID int64, kind models.BadgeKind, laneID *int64) (*models.EarnedBadge, error) {
	if _, exists := f.awarded[kind]; exists {
		return nil, nil
	}
	f.nextID++
	badge := &models.EarnedBadge{
		ID:        f.nextID,
		ProfileID: profileID,
		Kind:      kind,
		LaneID:    laneID,
		EarnedAt:  time.Now(),
	}
	f.awarded[kind] = badge
	return badge, nil
}

func (f *fakeBadgeStore) GetProfileBadges(profileID int64) ([]models.EarnedBadge, error) {
	var badges []models.EarnedBadge
	for _, badge := range f.awarded {
		badges = append(badges, *badge)
	}
	return badges, nil
}

type fakeWatchHistory struct {
	completed []models.WatchRecord
}

func (f *fakeWatchHistory) GetCompletedRecords(profileID int64) ([]models.WatchRecord, error) {
	return f.completed, nil
}

type fakeLaneCatalogue struct {
	lanes []models.Lane
	items map[int64][]models.LaneItem
}

func (f *fakeLaneCatalogue) GetProfileLanes(profileID int64) ([]models.Lane, error) {
	return f.lanes, nil
}

func (f *fakeLaneCatalogue) GetLaneItems(laneID int64) ([]models.LaneItem, error) {
	return f.items[laneID], nil
}

func completedRecords(n int, laneID int64) []models.WatchRecord {
	records := make([]models.WatchRecord, n)
	for i := range records {
		records[i] = models.WatchRecord{
			ProfileID: 1,
			LaneID:    laneID,
			ItemID:    int64(1000 + i),
			Completed: true,
		}
	}
	return records
}

func badgeKinds(badges []models.EarnedBadge) map[models.BadgeKind]bool {
	kinds := make(map[models.BadgeKind]bool)
	for _, badge := range badges {
		kinds[badge.Kind] = true
	}
	return kinds
}

func TestEvaluateCountThresholds(t *testing.T) {
	tests := []struct {
		name      string
		completed int
		want      []models.BadgeKind
	}{
		{"none", 0, nil},
		{"one", 1, []models.BadgeKind{models.BadgeFirstWatch}},
		{"four", 4, []models.BadgeKind{models.BadgeFirstWatch}},
		{"five", 5, []models.BadgeKind{models.BadgeFirstWatch, models.BadgeFiveVideos}},
		{"ten", 10, []models.BadgeKind{models.BadgeFirstWatch, models.BadgeFiveVideos, models.BadgeTenVideos}},
		{"twenty-five", 25, []models.BadgeKind{models.BadgeFirstWatch, models.BadgeFiveVideos, models.BadgeTenVideos, models.BadgeTwentyFiveVideos}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewBadgeService(
				newFakeBadgeStore(),
				&fakeWatchHistory{completed: completedRecords(tt.completed, 99)},
				&fakeLaneCatalogue{items: map[int64][]models.LaneItem{}},
			)

			badges, err := svc.Evaluate(1)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(badges) != len(tt.want) {
				t.Fatalf("got %d badges, want %d: %+v", len(badges), len(tt.want), badges)
			}
			kinds := badgeKinds(badges)
			for _, kind := range tt.want {
				if !kinds[kind] {
					t.Errorf("missing badge %s", kind)
				}
			}
		})
	}
}

func TestEvaluateReturnsOnlyNewBadges(t *testing.T) {
	store := newFakeBadgeStore()
	history := &fakeWatchHistory{completed: completedRecords(1, 99)}
	svc := NewBadgeService(store, history, &fakeLaneCatalogue{items: map[int64][]models.LaneItem{}})

	first, err := svc.Evaluate(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first) != 1 || first[0].Kind != models.BadgeFirstWatch {
		t.Fatalf("expected first_watch, got %+v", first)
	}

	// Same history again: nothing new.
	second, err := svc.Evaluate(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(second) != 0 {
		t.Errorf("expected no new badges on re-evaluation, got %+v", second)
	}

	// Crossing the next threshold only reports the new badge.
	history.completed = completedRecords(5, 99)
	third, err := svc.Evaluate(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(third) != 1 || third[0].Kind != models.BadgeFiveVideos {
		t.Errorf("expected only five_videos, got %+v", third)
	}
}

func TestEvaluateLaneMaster(t *testing.T) {
	lanes := &fakeLaneCatalogue{
		lanes: []models.Lane{
			{ID: 1, Category: "science"},
			{ID: 2, Category: "music"},
		},
		items: map[int64][]models.LaneItem{
			1: {{ID: 11, LaneID: 1}, {ID: 12, LaneID: 1}},
			2: {{ID: 21, LaneID: 2}},
		},
	}
	history := &fakeWatchHistory{completed: []models.WatchRecord{
		{ProfileID: 1, LaneID: 1, ItemID: 11, Completed: true},
	}}
	store := newFakeBadgeStore()
	svc := NewBadgeService(store, history, lanes)

	// One of two items done: no lane_master yet.
	badges, err := svc.Evaluate(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if badgeKinds(badges)[models.BadgeLaneMaster] {
		t.Fatal("lane_master awarded before the lane was finished")
	}

	// Second item completes the lane.
	history.completed = append(history.completed, models.WatchRecord{ProfileID: 1, LaneID: 1, ItemID: 12, Completed: true})
	badges, err = svc.Evaluate(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !badgeKinds(badges)[models.BadgeLaneMaster] {
		t.Fatal("expected lane_master after finishing the lane")
	}
	if got := store.awarded[models.BadgeLaneMaster].LaneID; got == nil || *got != 1 {
		t.Errorf("lane_master lane id = %v, want 1", got)
	}

	// Adding a never-watched item to the mastered lane does not revoke it,
	// and finishing a second lane does not award it again.
	lanes.items[1] = append(lanes.items[1], models.LaneItem{ID: 13, LaneID: 1})
	history.completed = append(history.completed, models.WatchRecord{ProfileID: 1, LaneID: 2, ItemID: 21, Completed: true})
	badges, err = svc.Evaluate(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if badgeKinds(badges)[models.BadgeLaneMaster] {
		t.Error("lane_master awarded a second time")
	}
	if _, exists := store.awarded[models.BadgeLaneMaster]; !exists {
		t.Error("lane_master was revoked")
	}
}

func TestEvaluateLaneMasterIgnoresEmptyLanes(t *testing.T) {
	lanes := &fakeLaneCatalogue{
		lanes: []models.Lane{{ID: 1, Category: "science"}},
		items: map[int64][]models.LaneItem{1: {}},
	}
	history := &fakeWatchHistory{completed: completedRecords(1, 1)}
	svc := NewBadgeService(newFakeBadgeStore(), history, lanes)

	badges, err := svc.Evaluate(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if badgeKinds(badges)[models.BadgeLaneMaster] {
		t.Error("empty lane must not count as mastered")
	}
}

func TestEvaluateExplorer(t *testing.T) {
	lanes := &fakeLaneCatalogue{
		lanes: []models.Lane{
			{ID: 1, Category: "science"},
			{ID: 2, Category: "music"},
			{ID: 3, Category: "stories"},
			{ID: 4, Category: "art"},
		},
		items: map[int64][]models.LaneItem{},
	}
	history := &fakeWatchHistory{completed: []models.WatchRecord{
		{ProfileID: 1, LaneID: 1, ItemID: 11, Completed: true},
		{ProfileID: 1, LaneID: 2, ItemID: 21, Completed: true},
		{ProfileID: 1, LaneID: 3, ItemID: 31, Completed: true},
	}}
	store := newFakeBadgeStore()
	svc := NewBadgeService(store, history, lanes)

	// Three categories: not yet.
	badges, err := svc.Evaluate(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if badgeKinds(badges)[models.BadgeExplorer] {
		t.Fatal("explorer awarded at three categories")
	}

	// The fourth category unlocks it.
	history.completed = append(history.completed, models.WatchRecord{ProfileID: 1, LaneID: 4, ItemID: 41, Completed: true})
	badges, err = svc.Evaluate(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !badgeKinds(badges)[models.BadgeExplorer] {
		t.Error("expected explorer at four categories")
	}
}

func TestEvaluateExplorerSkipsDeletedLanes(t *testing.T) {
	lanes := &fakeLaneCatalogue{
		lanes: []models.Lane{
			{ID: 1, Category: "science"},
			{ID: 2, Category: "music"},
			{ID: 3, Category: "stories"},
		},
		items: map[int64][]models.LaneItem{},
	}
	// The fourth record points at a lane that no longer exists.
	history := &fakeWatchHistory{completed: []models.WatchRecord{
		{ProfileID: 1, LaneID: 1, ItemID: 11, Completed: true},
		{ProfileID: 1, LaneID: 2, ItemID: 21, Completed: true},
		{ProfileID: 1, LaneID: 3, ItemID: 31, Completed: true},
		{ProfileID: 1, LaneID: 999, ItemID: 41, Completed: true},
	}}
	svc := NewBadgeService(newFakeBadgeStore(), history, lanes)

	badges, err := svc.Evaluate(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if badgeKinds(badges)[models.BadgeExplorer] {
		t.Error("record for a deleted lane must not count toward explorer")
	}
}
