package availability

import (
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/tennismeet/tennismeet/internal/metrics"
)

// DefaultMinDuration is the minimum shared window considered worth playing,
// in minutes.
const DefaultMinDuration = 60

// Manager owns the schedule logic: validation, conflict detection, common
// availability, calendar grids, and recurrence expansion. All persistence
// goes through the injected Store.
type Manager struct {
	store   Store
	metrics metrics.Metrics
	now     func() time.Time
}

// NewManager creates a Manager on top of the given store.
func NewManager(store Store, metrics metrics.Metrics) *Manager {
	return &Manager{
		store:   store,
		metrics: metrics,
		now:     time.Now,
	}
}

func timeToMinutes(t string) int {
	parsed, err := time.Parse(TimeLayout, t)
	if err != nil {
		return 0
	}
	return parsed.Hour()*60 + parsed.Minute()
}

func minutesToTime(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// timesOverlap checks two half-open [start,end) minute intervals for strict
// overlap. Touching endpoints do not conflict.
func timesOverlap(start1, end1, start2, end2 string) bool {
	return timeToMinutes(start1) < timeToMinutes(end2) &&
		timeToMinutes(end1) > timeToMinutes(start2)
}

func parseDate(date string) (time.Time, error) {
	return time.Parse(DateLayout, date)
}

func isWeekend(t time.Time) bool {
	return t.Weekday() == time.Saturday || t.Weekday() == time.Sunday
}

// ValidateBlock checks a block for logical consistency: parseable times and
// date, start before end, and a date no earlier than today.
func (m *Manager) ValidateBlock(b *TimeBlock) (bool, string) {
	if b.StartTime == "" || b.EndTime == "" {
		return false, "Start time and end time are required"
	}
	if _, err := time.Parse(TimeLayout, b.StartTime); err != nil {
		return false, fmt.Sprintf("Invalid start time %q", b.StartTime)
	}
	if _, err := time.Parse(TimeLayout, b.EndTime); err != nil {
		return false, fmt.Sprintf("Invalid end time %q", b.EndTime)
	}
	if timeToMinutes(b.StartTime) >= timeToMinutes(b.EndTime) {
		return false, "End time must be after start time"
	}
	if b.Date != "" {
		date, err := parseDate(b.Date)
		if err != nil {
			return false, fmt.Sprintf("Invalid date %q", b.Date)
		}
		today := m.now()
		todayDate := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
		if date.Before(todayDate) {
			return false, "Cannot create availability in the past"
		}
	}
	return true, ""
}

// DetectConflicts returns every reason the candidate block cannot coexist
// with the player's stored blocks. A failed validation short-circuits as a
// single invalid_time conflict. When the candidate carries an id, the stored
// block with that id is skipped so updates do not conflict with themselves.
func (m *Manager) DetectConflicts(candidate *TimeBlock, playerID string) []Conflict {
	if ok, msg := m.ValidateBlock(candidate); !ok {
		return []Conflict{{Type: ConflictInvalidTime, Message: msg}}
	}

	existing, err := m.store.GetPlayerBlocks(playerID)
	if err != nil {
		log.Error("Failed to load blocks for conflict check", "error", err, "playerID", playerID)
		return []Conflict{{Type: ConflictInvalidTime, Message: "Could not load existing availability"}}
	}

	var conflicts []Conflict
	for _, block := range existing {
		if candidate.ID != "" && block.ID == candidate.ID {
			continue
		}
		if block.Date != candidate.Date {
			continue
		}
		if timesOverlap(block.StartTime, block.EndTime, candidate.StartTime, candidate.EndTime) {
			conflicts = append(conflicts, Conflict{
				Existing: block,
				Type:     ConflictOverlap,
				Message:  fmt.Sprintf("Overlaps with existing availability from %s to %s", block.StartTime, block.EndTime),
			})
		}
	}
	if len(conflicts) > 0 {
		m.metrics.IncConflictsDetected()
	}
	return conflicts
}

// CreateBlock stores a new block after conflict checking.
func (m *Manager) CreateBlock(b *TimeBlock) Result {
	candidate := *b
	candidate.ID = ""
	if conflicts := m.DetectConflicts(&candidate, b.PlayerID); len(conflicts) > 0 {
		return Result{Conflicts: conflicts}
	}

	stored := *b
	stored.ID = uuid.New().String()
	if err := m.store.PutBlock(&stored); err != nil {
		log.Error("Failed to store time block", "error", err, "playerID", b.PlayerID)
		return Result{Conflicts: []Conflict{{Type: ConflictInvalidTime, Message: "Could not store time block"}}}
	}
	return Result{Success: true, Block: &stored}
}

// UpdateBlock applies the set fields of the patch to an existing block and
// stores it after conflict checking. Empty fields keep their current values.
func (m *Manager) UpdateBlock(blockID string, patch BlockPatch) Result {
	existing, err := m.store.GetBlock(blockID)
	if err != nil {
		return Result{Conflicts: []Conflict{{Type: ConflictInvalidTime, Message: "Time block not found"}}}
	}

	updated := *existing
	if patch.Date != "" {
		updated.Date = patch.Date
	}
	if patch.StartTime != "" {
		updated.StartTime = patch.StartTime
	}
	if patch.EndTime != "" {
		updated.EndTime = patch.EndTime
	}
	if patch.Recurring != nil {
		updated.Recurring = patch.Recurring
		updated.IsRecurring = true
	}

	if conflicts := m.DetectConflicts(&updated, existing.PlayerID); len(conflicts) > 0 {
		return Result{Conflicts: conflicts}
	}

	if err := m.store.PutBlock(&updated); err != nil {
		log.Error("Failed to update time block", "error", err, "blockID", blockID)
		return Result{Conflicts: []Conflict{{Type: ConflictInvalidTime, Message: "Could not store time block"}}}
	}
	return Result{Success: true, Block: &updated}
}

// DeleteBlock removes a block; an unknown id is an error.
func (m *Manager) DeleteBlock(blockID string) error {
	return m.store.DeleteBlock(blockID)
}

// PlayerBlocks returns every block of one player.
func (m *Manager) PlayerBlocks(playerID string) ([]*TimeBlock, error) {
	return m.store.GetPlayerBlocks(playerID)
}

// FilterBlocks returns all stored blocks passing every set filter field.
func (m *Manager) FilterBlocks(filters Filters) ([]*TimeBlock, error) {
	var blocks []*TimeBlock
	var err error
	if filters.PlayerID != "" {
		blocks, err = m.store.GetPlayerBlocks(filters.PlayerID)
	} else {
		blocks, err = m.store.GetAllBlocks()
	}
	if err != nil {
		return nil, err
	}

	result := make([]*TimeBlock, 0, len(blocks))
	for _, b := range blocks {
		if filters.DateFrom != "" && b.Date < filters.DateFrom {
			continue
		}
		if filters.DateTo != "" && b.Date > filters.DateTo {
			continue
		}
		if filters.DayOfWeek != nil {
			date, err := parseDate(b.Date)
			if err != nil || date.Weekday() != *filters.DayOfWeek {
				continue
			}
		}
		if filters.MinDuration > 0 && b.DurationMinutes() < filters.MinDuration {
			continue
		}
		result = append(result, b)
	}
	return result, nil
}

// FindCommonAvailability intersects two players' blocks pairwise per calendar
// day within the date range and keeps every shared window of at least
// minDuration minutes. Slots come back sorted by date then start time, and
// each is a sub-interval of both source blocks. A minDuration of zero or
// less means DefaultMinDuration.
func (m *Manager) FindCommonAvailability(player1ID, player2ID, startDate, endDate string, minDuration int) (*CommonAvailability, error) {
	if minDuration <= 0 {
		minDuration = DefaultMinDuration
	}

	player1Blocks, err := m.store.GetBlocksInRange(player1ID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	player2Blocks, err := m.store.GetBlocksInRange(player2ID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	var slots []Slot
	for _, b1 := range player1Blocks {
		for _, b2 := range player2Blocks {
			if b1.Date != b2.Date {
				continue
			}

			overlapStart := max(timeToMinutes(b1.StartTime), timeToMinutes(b2.StartTime))
			overlapEnd := min(timeToMinutes(b1.EndTime), timeToMinutes(b2.EndTime))
			if overlapEnd-overlapStart < minDuration {
				continue
			}

			slots = append(slots, Slot{
				Date:      b1.Date,
				StartTime: minutesToTime(overlapStart),
				EndTime:   minutesToTime(overlapEnd),
				Duration:  overlapEnd - overlapStart,
			})
		}
	}

	sort.SliceStable(slots, func(i, j int) bool {
		if slots[i].Date != slots[j].Date {
			return slots[i].Date < slots[j].Date
		}
		return timeToMinutes(slots[i].StartTime) < timeToMinutes(slots[j].StartTime)
	})

	return &CommonAvailability{
		Player1ID:     player1ID,
		Player2ID:     player2ID,
		MatchingSlots: slots,
	}, nil
}

// BuildMonthSchedule renders a month as full weeks of CalendarDate cells.
// Leading and trailing days from the adjacent months fill the first and last
// weeks, the way a calendar grid renders.
func (m *Manager) BuildMonthSchedule(playerID string, year int, month time.Month) (*MonthSchedule, error) {
	firstDay := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	lastDay := firstDay.AddDate(0, 1, -1)

	blocks, err := m.store.GetBlocksInRange(playerID, firstDay.Format(DateLayout), lastDay.Format(DateLayout))
	if err != nil {
		return nil, err
	}
	byDate := blocksByDate(blocks)

	gridStart := firstDay.AddDate(0, 0, -int(firstDay.Weekday()))
	gridEnd := lastDay.AddDate(0, 0, 6-int(lastDay.Weekday()))

	schedule := &MonthSchedule{Year: year, Month: month}
	var week []CalendarDate
	for current := gridStart; !current.After(gridEnd); current = current.AddDate(0, 0, 1) {
		week = append(week, m.calendarDate(current, byDate, current.Month() == month))
		if len(week) == 7 {
			schedule.Weeks = append(schedule.Weeks, week)
			week = nil
		}
	}
	return schedule, nil
}

// BuildWeekSchedule renders the seven days starting at weekStart.
func (m *Manager) BuildWeekSchedule(playerID, weekStart string) (*WeekSchedule, error) {
	start, err := parseDate(weekStart)
	if err != nil {
		return nil, fmt.Errorf("invalid week start %q: %w", weekStart, err)
	}
	end := start.AddDate(0, 0, 6)

	blocks, err := m.store.GetBlocksInRange(playerID, start.Format(DateLayout), end.Format(DateLayout))
	if err != nil {
		return nil, err
	}
	byDate := blocksByDate(blocks)

	schedule := &WeekSchedule{WeekStart: start, WeekEnd: end}
	for current := start; !current.After(end); current = current.AddDate(0, 0, 1) {
		schedule.Days = append(schedule.Days, m.calendarDate(current, byDate, true))
	}
	return schedule, nil
}

func blocksByDate(blocks []*TimeBlock) map[string][]*TimeBlock {
	byDate := make(map[string][]*TimeBlock)
	for _, b := range blocks {
		byDate[b.Date] = append(byDate[b.Date], b)
	}
	return byDate
}

func (m *Manager) calendarDate(day time.Time, byDate map[string][]*TimeBlock, isCurrentMonth bool) CalendarDate {
	now := m.now()
	dayBlocks := byDate[day.Format(DateLayout)]
	return CalendarDate{
		Date:            day,
		IsCurrentMonth:  isCurrentMonth,
		IsToday:         day.Year() == now.Year() && day.YearDay() == now.YearDay(),
		IsWeekend:       isWeekend(day),
		HasAvailability: len(dayBlocks) > 0,
		TimeBlocks:      dayBlocks,
	}
}

// GenerateRecurringBlocks expands a recurring base block into one concrete
// block per occurrence, from the base date up to the pattern's end date or
// untilDate, whichever comes first. A non-recurring block expands to itself.
// The expansion is advisory only; nothing is stored or conflict-checked.
func (m *Manager) GenerateRecurringBlocks(base *TimeBlock, untilDate string) []*TimeBlock {
	if !base.IsRecurring || base.Recurring == nil {
		return []*TimeBlock{base}
	}

	end, err := parseDate(untilDate)
	if err != nil {
		return []*TimeBlock{base}
	}
	if base.Recurring.EndDate != "" {
		if patternEnd, err := parseDate(base.Recurring.EndDate); err == nil && patternEnd.Before(end) {
			end = patternEnd
		}
	}

	start, err := parseDate(base.Date)
	if err != nil {
		return []*TimeBlock{base}
	}

	var generated []*TimeBlock
	for current := start; !current.After(end); {
		block := *base
		block.ID = fmt.Sprintf("%s_%s", base.ID, current.Format(DateLayout))
		block.Date = current.Format(DateLayout)
		generated = append(generated, &block)

		switch base.Recurring.Frequency {
		case FrequencyWeekly:
			current = current.AddDate(0, 0, 7)
		case FrequencyBiweekly:
			current = current.AddDate(0, 0, 14)
		case FrequencyMonthly:
			current = current.AddDate(0, 1, 0)
		default:
			return generated
		}
	}
	return generated
}

// SuggestedTimeSlots ranks the player's stored blocks sharing the target
// date's weekday by frequency of identical start-end window and returns the
// top five as "HH:MM-HH:MM" strings.
func (m *Manager) SuggestedTimeSlots(playerID, targetDate string) ([]string, error) {
	target, err := parseDate(targetDate)
	if err != nil {
		return nil, fmt.Errorf("invalid target date %q: %w", targetDate, err)
	}

	blocks, err := m.store.GetPlayerBlocks(playerID)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, b := range blocks {
		date, err := parseDate(b.Date)
		if err != nil || date.Weekday() != target.Weekday() {
			continue
		}
		counts[b.StartTime+"-"+b.EndTime]++
	}

	slots := make([]string, 0, len(counts))
	for slot := range counts {
		slots = append(slots, slot)
	}
	sort.SliceStable(slots, func(i, j int) bool {
		if counts[slots[i]] != counts[slots[j]] {
			return counts[slots[i]] > counts[slots[j]]
		}
		return slots[i] < slots[j]
	})

	if len(slots) > 5 {
		slots = slots[:5]
	}
	return slots, nil
}
