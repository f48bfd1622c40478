package availability_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tennismeet/tennismeet/internal/availability"
	"github.com/tennismeet/tennismeet/internal/database"
	"github.com/tennismeet/tennismeet/internal/metrics"
)

// Fixture dates are far in the future so past-date validation never trips.
// 2030-06-03 is a Monday.
const (
	monday  = "2030-06-03"
	tuesday = "2030-06-04"
)

func setupManager(t *testing.T) (*availability.Manager, availability.Store, *metrics.Mock, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	store := availability.New(db)
	m := metrics.NewMock()
	manager := availability.NewManager(store, m)
	teardown := func() {
		dbTeardown()
		db.Close()
	}

	return manager, store, m, teardown
}

func block(playerID, date, start, end string) *availability.TimeBlock {
	return &availability.TimeBlock{
		PlayerID:  playerID,
		Date:      date,
		StartTime: start,
		EndTime:   end,
	}
}

func TestValidateBlock(t *testing.T) {
	manager, _, _, teardown := setupManager(t)
	defer teardown()

	tests := []struct {
		name    string
		block   *availability.TimeBlock
		valid   bool
		errPart string
	}{
		{"valid block", block("p1", monday, "09:00", "11:00"), true, ""},
		{"missing times", &availability.TimeBlock{PlayerID: "p1", Date: monday}, false, "required"},
		{"start after end", block("p1", monday, "11:00", "09:00"), false, "after start time"},
		{"start equals end", block("p1", monday, "09:00", "09:00"), false, "after start time"},
		{"unparseable time", block("p1", monday, "9am", "11:00"), false, "Invalid start time"},
		{"unparseable date", block("p1", "06/03/2030", "09:00", "11:00"), false, "Invalid date"},
		{"past date", block("p1", "2020-01-01", "09:00", "11:00"), false, "in the past"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, msg := manager.ValidateBlock(tt.block)
			assert.Equal(t, tt.valid, ok)
			if !tt.valid {
				assert.Contains(t, msg, tt.errPart)
			}
		})
	}
}

func TestDetectConflicts(t *testing.T) {
	t.Run("overlapping blocks on the same day", func(t *testing.T) {
		manager, _, mockMetrics, teardown := setupManager(t)
		defer teardown()

		res := manager.CreateBlock(block("p1", monday, "09:00", "11:00"))
		require.True(t, res.Success)

		conflicts := manager.DetectConflicts(block("p1", monday, "10:00", "12:00"), "p1")
		require.Len(t, conflicts, 1)
		assert.Equal(t, availability.ConflictOverlap, conflicts[0].Type)
		assert.Contains(t, conflicts[0].Message, "09:00 to 11:00")
		require.NotNil(t, conflicts[0].Existing)
		assert.Equal(t, res.Block.ID, conflicts[0].Existing.ID)
		assert.Equal(t, 1, mockMetrics.ConflictsDetected())
	})

	t.Run("touching endpoints do not conflict", func(t *testing.T) {
		manager, _, _, teardown := setupManager(t)
		defer teardown()

		require.True(t, manager.CreateBlock(block("p1", monday, "09:00", "11:00")).Success)
		assert.Empty(t, manager.DetectConflicts(block("p1", monday, "11:00", "13:00"), "p1"))
	})

	t.Run("different day does not conflict", func(t *testing.T) {
		manager, _, _, teardown := setupManager(t)
		defer teardown()

		require.True(t, manager.CreateBlock(block("p1", monday, "09:00", "11:00")).Success)
		assert.Empty(t, manager.DetectConflicts(block("p1", tuesday, "09:00", "11:00"), "p1"))
	})

	t.Run("other player does not conflict", func(t *testing.T) {
		manager, _, _, teardown := setupManager(t)
		defer teardown()

		require.True(t, manager.CreateBlock(block("p1", monday, "09:00", "11:00")).Success)
		assert.Empty(t, manager.DetectConflicts(block("p2", monday, "09:00", "11:00"), "p2"))
	})

	t.Run("invalid block short-circuits", func(t *testing.T) {
		manager, _, _, teardown := setupManager(t)
		defer teardown()

		conflicts := manager.DetectConflicts(block("p1", monday, "11:00", "09:00"), "p1")
		require.Len(t, conflicts, 1)
		assert.Equal(t, availability.ConflictInvalidTime, conflicts[0].Type)
	})
}

func TestCreateUpdateDeleteBlock(t *testing.T) {
	manager, _, _, teardown := setupManager(t)
	defer teardown()

	res := manager.CreateBlock(block("p1", monday, "09:00", "11:00"))
	require.True(t, res.Success)
	require.NotNil(t, res.Block)
	assert.NotEmpty(t, res.Block.ID)

	t.Run("create rejects overlap", func(t *testing.T) {
		rejected := manager.CreateBlock(block("p1", monday, "10:00", "12:00"))
		assert.False(t, rejected.Success)
		require.Len(t, rejected.Conflicts, 1)
		assert.Equal(t, availability.ConflictOverlap, rejected.Conflicts[0].Type)
	})

	t.Run("update does not conflict with itself", func(t *testing.T) {
		updated := manager.UpdateBlock(res.Block.ID, availability.BlockPatch{StartTime: "09:30"})
		require.True(t, updated.Success)
		assert.Equal(t, "09:30", updated.Block.StartTime)
		assert.Equal(t, "11:00", updated.Block.EndTime)
		assert.Equal(t, "p1", updated.Block.PlayerID)
	})

	t.Run("update rejects overlap with another block", func(t *testing.T) {
		other := manager.CreateBlock(block("p1", monday, "13:00", "14:00"))
		require.True(t, other.Success)

		rejected := manager.UpdateBlock(other.Block.ID, availability.BlockPatch{StartTime: "10:00", EndTime: "12:00"})
		assert.False(t, rejected.Success)
	})

	t.Run("update of unknown id fails", func(t *testing.T) {
		missing := manager.UpdateBlock("missing", availability.BlockPatch{StartTime: "08:00"})
		assert.False(t, missing.Success)
		require.Len(t, missing.Conflicts, 1)
		assert.Contains(t, missing.Conflicts[0].Message, "not found")
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, manager.DeleteBlock(res.Block.ID))
		assert.Error(t, manager.DeleteBlock(res.Block.ID))
	})
}

func TestFindCommonAvailability(t *testing.T) {
	manager, _, _, teardown := setupManager(t)
	defer teardown()

	require.True(t, manager.CreateBlock(block("p1", monday, "09:00", "11:00")).Success)
	require.True(t, manager.CreateBlock(block("p2", monday, "10:00", "12:00")).Success)

	t.Run("sixty minute overlap qualifies", func(t *testing.T) {
		common, err := manager.FindCommonAvailability("p1", "p2", monday, tuesday, 60)
		require.NoError(t, err)

		require.Len(t, common.MatchingSlots, 1)
		slot := common.MatchingSlots[0]
		assert.Equal(t, monday, slot.Date)
		assert.Equal(t, "10:00", slot.StartTime)
		assert.Equal(t, "11:00", slot.EndTime)
		assert.Equal(t, 60, slot.Duration)
	})

	t.Run("minimum duration filters short overlaps", func(t *testing.T) {
		common, err := manager.FindCommonAvailability("p1", "p2", monday, tuesday, 90)
		require.NoError(t, err)
		assert.Empty(t, common.MatchingSlots)
	})

	t.Run("default minimum duration is sixty", func(t *testing.T) {
		common, err := manager.FindCommonAvailability("p1", "p2", monday, tuesday, 0)
		require.NoError(t, err)
		assert.Len(t, common.MatchingSlots, 1)
	})

	t.Run("slots sort by date then start", func(t *testing.T) {
		require.True(t, manager.CreateBlock(block("p1", tuesday, "08:00", "10:00")).Success)
		require.True(t, manager.CreateBlock(block("p2", tuesday, "08:00", "10:00")).Success)
		require.True(t, manager.CreateBlock(block("p1", monday, "14:00", "16:00")).Success)
		require.True(t, manager.CreateBlock(block("p2", monday, "14:00", "16:00")).Success)

		common, err := manager.FindCommonAvailability("p1", "p2", monday, tuesday, 60)
		require.NoError(t, err)

		require.Len(t, common.MatchingSlots, 3)
		assert.Equal(t, monday, common.MatchingSlots[0].Date)
		assert.Equal(t, "10:00", common.MatchingSlots[0].StartTime)
		assert.Equal(t, monday, common.MatchingSlots[1].Date)
		assert.Equal(t, "14:00", common.MatchingSlots[1].StartTime)
		assert.Equal(t, tuesday, common.MatchingSlots[2].Date)
	})
}

func TestBuildMonthSchedule(t *testing.T) {
	manager, _, _, teardown := setupManager(t)
	defer teardown()

	require.True(t, manager.CreateBlock(block("p1", "2030-06-15", "09:00", "11:00")).Success)

	schedule, err := manager.BuildMonthSchedule("p1", 2030, time.June)
	require.NoError(t, err)

	assert.Equal(t, 2030, schedule.Year)
	assert.Equal(t, time.June, schedule.Month)
	require.NotEmpty(t, schedule.Weeks)
	for _, week := range schedule.Weeks {
		assert.Len(t, week, 7)
	}

	// June 2030 starts on a Saturday, so the first week leads with May days.
	firstCell := schedule.Weeks[0][0]
	assert.Equal(t, time.May, firstCell.Date.Month())
	assert.False(t, firstCell.IsCurrentMonth)
	assert.Equal(t, time.Sunday, firstCell.Date.Weekday())

	var found bool
	for _, week := range schedule.Weeks {
		for _, cell := range week {
			if cell.Date.Format(availability.DateLayout) == "2030-06-15" {
				found = true
				assert.True(t, cell.HasAvailability)
				assert.True(t, cell.IsWeekend)
				assert.True(t, cell.IsCurrentMonth)
				assert.Len(t, cell.TimeBlocks, 1)
			}
		}
	}
	assert.True(t, found)
}

func TestBuildWeekSchedule(t *testing.T) {
	manager, _, _, teardown := setupManager(t)
	defer teardown()

	require.True(t, manager.CreateBlock(block("p1", tuesday, "18:00", "20:00")).Success)

	schedule, err := manager.BuildWeekSchedule("p1", monday)
	require.NoError(t, err)

	require.Len(t, schedule.Days, 7)
	assert.Equal(t, monday, schedule.WeekStart.Format(availability.DateLayout))
	assert.Equal(t, "2030-06-09", schedule.WeekEnd.Format(availability.DateLayout))

	assert.False(t, schedule.Days[0].HasAvailability)
	assert.True(t, schedule.Days[1].HasAvailability)
	assert.Len(t, schedule.Days[1].TimeBlocks, 1)
	assert.True(t, schedule.Days[5].IsWeekend)
	assert.True(t, schedule.Days[6].IsWeekend)

	_, err = manager.BuildWeekSchedule("p1", "bad-date")
	assert.Error(t, err)
}

func TestGenerateRecurringBlocks(t *testing.T) {
	manager, _, _, teardown := setupManager(t)
	defer teardown()

	base := &availability.TimeBlock{
		ID:          "base",
		PlayerID:    "p1",
		Date:        monday,
		StartTime:   "18:00",
		EndTime:     "20:00",
		IsRecurring: true,
		Recurring:   &availability.RecurringPattern{Frequency: availability.FrequencyWeekly},
	}

	t.Run("weekly", func(t *testing.T) {
		blocks := manager.GenerateRecurringBlocks(base, "2030-06-24")
		require.Len(t, blocks, 4)
		assert.Equal(t, monday, blocks[0].Date)
		assert.Equal(t, "2030-06-10", blocks[1].Date)
		assert.Equal(t, "2030-06-24", blocks[3].Date)
		assert.Equal(t, "base_2030-06-10", blocks[1].ID)
	})

	t.Run("biweekly", func(t *testing.T) {
		b := *base
		b.Recurring = &availability.RecurringPattern{Frequency: availability.FrequencyBiweekly}
		blocks := manager.GenerateRecurringBlocks(&b, "2030-07-01")
		require.Len(t, blocks, 3)
		assert.Equal(t, "2030-06-17", blocks[1].Date)
		assert.Equal(t, "2030-07-01", blocks[2].Date)
	})

	t.Run("monthly", func(t *testing.T) {
		b := *base
		b.Recurring = &availability.RecurringPattern{Frequency: availability.FrequencyMonthly}
		blocks := manager.GenerateRecurringBlocks(&b, "2030-08-31")
		require.Len(t, blocks, 3)
		assert.Equal(t, "2030-07-03", blocks[1].Date)
		assert.Equal(t, "2030-08-03", blocks[2].Date)
	})

	t.Run("pattern end date caps expansion", func(t *testing.T) {
		b := *base
		b.Recurring = &availability.RecurringPattern{Frequency: availability.FrequencyWeekly, EndDate: "2030-06-10"}
		blocks := manager.GenerateRecurringBlocks(&b, "2030-12-31")
		assert.Len(t, blocks, 2)
	})

	t.Run("non-recurring expands to itself", func(t *testing.T) {
		b := block("p1", monday, "09:00", "11:00")
		blocks := manager.GenerateRecurringBlocks(b, "2030-12-31")
		require.Len(t, blocks, 1)
		assert.Equal(t, b, blocks[0])
	})
}

func TestSuggestedTimeSlots(t *testing.T) {
	manager, store, _, teardown := setupManager(t)
	defer teardown()

	// Three Mondays at 18:00-20:00, one Monday morning, one Tuesday slot.
	seed := []*availability.TimeBlock{
		{ID: "b1", PlayerID: "p1", Date: "2030-06-03", StartTime: "18:00", EndTime: "20:00"},
		{ID: "b2", PlayerID: "p1", Date: "2030-06-10", StartTime: "18:00", EndTime: "20:00"},
		{ID: "b3", PlayerID: "p1", Date: "2030-06-17", StartTime: "18:00", EndTime: "20:00"},
		{ID: "b4", PlayerID: "p1", Date: "2030-06-10", StartTime: "07:00", EndTime: "08:00"},
		{ID: "b5", PlayerID: "p1", Date: "2030-06-04", StartTime: "12:00", EndTime: "13:00"},
	}
	require.NoError(t, store.SeedBlocks(seed))

	slots, err := manager.SuggestedTimeSlots("p1", "2030-06-24")
	require.NoError(t, err)

	require.Len(t, slots, 2)
	assert.Equal(t, "18:00-20:00", slots[0])
	assert.Equal(t, "07:00-08:00", slots[1])

	_, err = manager.SuggestedTimeSlots("p1", "junk")
	assert.Error(t, err)
}

func TestFilterBlocks(t *testing.T) {
	manager, store, _, teardown := setupManager(t)
	defer teardown()

	seed := []*availability.TimeBlock{
		{ID: "b1", PlayerID: "p1", Date: monday, StartTime: "09:00", EndTime: "11:00"},
		{ID: "b2", PlayerID: "p1", Date: tuesday, StartTime: "09:00", EndTime: "09:30"},
		{ID: "b3", PlayerID: "p2", Date: monday, StartTime: "09:00", EndTime: "11:00"},
	}
	require.NoError(t, store.SeedBlocks(seed))

	t.Run("by player", func(t *testing.T) {
		got, err := manager.FilterBlocks(availability.Filters{PlayerID: "p1"})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("by date range", func(t *testing.T) {
		got, err := manager.FilterBlocks(availability.Filters{DateFrom: tuesday})
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("by weekday", func(t *testing.T) {
		mon := time.Monday
		got, err := manager.FilterBlocks(availability.Filters{DayOfWeek: &mon})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("by minimum duration", func(t *testing.T) {
		got, err := manager.FilterBlocks(availability.Filters{PlayerID: "p1", MinDuration: 60})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "b1", got[0].ID)
	})
}

func TestDetectConflictsStoreFailure(t *testing.T) {
	store := &availability.MockStore{
		GetPlayerBlocksFunc: func(playerID string) ([]*availability.TimeBlock, error) {
			return nil, errors.New("database locked")
		},
	}
	manager := availability.NewManager(store, metrics.NewMock())

	conflicts := manager.DetectConflicts(block("p1", monday, "09:00", "11:00"), "p1")
	require.Len(t, conflicts, 1)
	assert.Equal(t, availability.ConflictInvalidTime, conflicts[0].Type)
	assert.Equal(t, "Could not load existing availability", conflicts[0].Message)
}

func TestCreateBlockStoreFailure(t *testing.T) {
	store := &availability.MockStore{
		PutBlockFunc: func(b *availability.TimeBlock) error {
			return errors.New("disk full")
		},
	}
	manager := availability.NewManager(store, metrics.NewMock())

	result := manager.CreateBlock(block("p1", monday, "09:00", "11:00"))
	assert.False(t, result.Success)
	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, availability.ConflictInvalidTime, result.Conflicts[0].Type)
	assert.Equal(t, "Could not store time block", result.Conflicts[0].Message)
	require.Len(t, store.PutBlockCalls, 1)
	assert.NotEmpty(t, store.PutBlockCalls[0].ID)
}

func TestUpdateBlockMissing(t *testing.T) {
	store := &availability.MockStore{
		GetBlockFunc: func(blockID string) (*availability.TimeBlock, error) {
			return nil, errors.New("no such block")
		},
	}
	manager := availability.NewManager(store, metrics.NewMock())

	result := manager.UpdateBlock("nope", availability.BlockPatch{EndTime: "12:00"})
	assert.False(t, result.Success)
	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, "Time block not found", result.Conflicts[0].Message)
}
