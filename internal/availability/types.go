package availability

import (
	"database/sql"
	"sync"
	"time"
)

// Date and time strings use the calendar conventions "YYYY-MM-DD" and "HH:MM"
// throughout; the manager parses them at the edge.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Frequency is how often a recurring block repeats.
type Frequency string

const (
	FrequencyWeekly   Frequency = "weekly"
	FrequencyBiweekly Frequency = "biweekly"
	FrequencyMonthly  Frequency = "monthly"
)

// RecurringPattern describes how a block repeats. EndDate is optional; an
// empty string means the pattern has no end of its own. DaysOfWeek is
// advisory metadata for calendar UIs; expansion follows the frequency alone.
type RecurringPattern struct {
	Frequency  Frequency      `json:"frequency"`
	DaysOfWeek []time.Weekday `json:"days_of_week,omitempty"`
	EndDate    string         `json:"end_date,omitempty"`
}

// BlockPatch lists the mutable fields of a TimeBlock for updates. Zero-value
// fields keep the block's current values.
type BlockPatch struct {
	Date      string
	StartTime string
	EndTime   string
	Recurring *RecurringPattern
}

// TimeBlock is one contiguous window of a player's availability on a single
// calendar date.
type TimeBlock struct {
	ID          string            `json:"id"`
	PlayerID    string            `json:"player_id"`
	Date        string            `json:"date"`
	StartTime   string            `json:"start_time"`
	EndTime     string            `json:"end_time"`
	IsRecurring bool              `json:"is_recurring,omitempty"`
	Recurring   *RecurringPattern `json:"recurring,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// DurationMinutes is the block's length in minutes.
func (b *TimeBlock) DurationMinutes() int {
	return timeToMinutes(b.EndTime) - timeToMinutes(b.StartTime)
}

// ConflictType classifies why a candidate block was rejected.
type ConflictType string

const (
	ConflictInvalidTime ConflictType = "invalid_time"
	ConflictOverlap     ConflictType = "overlap"
)

// Conflict is one reason a candidate block cannot be stored. Existing is nil
// for invalid_time conflicts.
type Conflict struct {
	Existing *TimeBlock   `json:"existing,omitempty"`
	Type     ConflictType `json:"type"`
	Message  string       `json:"message"`
}

// Result is the outcome of a create or update. On failure Conflicts explains
// every reason; on success Block is the stored block.
type Result struct {
	Success   bool       `json:"success"`
	Block     *TimeBlock `json:"block,omitempty"`
	Conflicts []Conflict `json:"conflicts,omitempty"`
}

// Slot is a concrete shared window found between two players.
type Slot struct {
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Duration  int    `json:"duration"`
}

// CommonAvailability is the full result of an overlap scan for two players.
type CommonAvailability struct {
	Player1ID     string `json:"player1_id"`
	Player2ID     string `json:"player2_id"`
	MatchingSlots []Slot `json:"matching_slots"`
}

// CalendarDate is one cell of a calendar grid.
type CalendarDate struct {
	Date            time.Time    `json:"date"`
	IsCurrentMonth  bool         `json:"is_current_month"`
	IsToday         bool         `json:"is_today"`
	IsWeekend       bool         `json:"is_weekend"`
	HasAvailability bool         `json:"has_availability"`
	TimeBlocks      []*TimeBlock `json:"time_blocks"`
}

// WeekSchedule is a seven-day calendar strip starting at WeekStart.
type WeekSchedule struct {
	WeekStart time.Time      `json:"week_start"`
	WeekEnd   time.Time      `json:"week_end"`
	Days      []CalendarDate `json:"days"`
}

// MonthSchedule is a month rendered as full weeks, so leading and trailing
// days from adjacent months are included.
type MonthSchedule struct {
	Year  int              `json:"year"`
	Month time.Month       `json:"month"`
	Weeks [][]CalendarDate `json:"weeks"`
}

// Filters narrows a block query; zero-valued fields are ignored.
type Filters struct {
	PlayerID    string
	DateFrom    string
	DateTo      string
	DayOfWeek   *time.Weekday
	MinDuration int
}

// store handles all database operations for time blocks.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}
