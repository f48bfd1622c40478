package court

import (
	"database/sql"
	"sync"
	"time"

	"github.com/tennismeet/tennismeet/internal/players"
)

// Amenity is a facility feature tag.
type Amenity string

const (
	AmenityLights      Amenity = "lights"
	AmenityParking     Amenity = "parking"
	AmenityRestrooms   Amenity = "restrooms"
	AmenityProShop     Amenity = "pro_shop"
	AmenityWater       Amenity = "water"
	AmenitySeating     Amenity = "seating"
	AmenityBallMachine Amenity = "ball_machine"
)

// AvailabilityPolicy is how a court can be accessed.
type AvailabilityPolicy string

const (
	AvailabilityPublic      AvailabilityPolicy = "public"
	AvailabilityMembersOnly AvailabilityPolicy = "members_only"
	AvailabilityReservation AvailabilityPolicy = "reservation_required"
)

// Location is the court's address and coordinates.
type Location struct {
	Address   string  `json:"address"`
	City      string  `json:"city"`
	State     string  `json:"state"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// DayHours is the opening window for one weekday. Times are "HH:MM".
type DayHours struct {
	Weekday   time.Weekday `json:"weekday"`
	OpenTime  string       `json:"open_time"`
	CloseTime string       `json:"close_time"`
	Closed    bool         `json:"closed,omitempty"`
}

// Pricing is the court's hourly rate; a nil Pricing means free or unknown.
type Pricing struct {
	HourlyRate float64 `json:"hourly_rate"`
	Currency   string  `json:"currency"`
}

// Rating aggregates user ratings of a court.
type Rating struct {
	AverageRating float64 `json:"average_rating"`
	RatingCount   int     `json:"rating_count"`
}

// Court is a playable facility. Bookings and favorites reference it by id.
type Court struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	Description    string             `json:"description,omitempty"`
	Location       Location           `json:"location"`
	Surface        players.Surface    `json:"surface"`
	IsIndoor       bool               `json:"is_indoor"`
	Amenities      []Amenity          `json:"amenities"`
	Availability   AvailabilityPolicy `json:"availability"`
	OperatingHours []DayHours         `json:"operating_hours,omitempty"`
	Pricing        *Pricing           `json:"pricing,omitempty"`
	Rating         Rating             `json:"rating"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// CourtPatch lists the mutable fields of a Court for updates. Zero-value
// fields keep the court's current values; the id never changes.
type CourtPatch struct {
	Name           string
	Description    string
	Surface        players.Surface
	Availability   AvailabilityPolicy
	Location       *Location
	IsIndoor       *bool
	Amenities      []Amenity
	OperatingHours []DayHours
	Pricing        *Pricing
	Rating         *Rating
}

// SearchResult pairs a court with its computed distance and text relevance.
// Distance is nil unless the search carried a user location.
type SearchResult struct {
	Court      *Court   `json:"court"`
	Distance   *float64 `json:"distance,omitempty"`
	MatchScore int      `json:"match_score"`
}

// LatLon is a bare coordinate pair for distance filters.
type LatLon struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// PriceRange bounds the hourly rate; nil ends are open.
type PriceRange struct {
	Min *float64
	Max *float64
}

// Filters narrows a court search. All set fields must pass (conjunctive).
type Filters struct {
	Surfaces     []players.Surface
	Amenities    []Amenity
	Availability []AvailabilityPolicy
	IsIndoor     *bool
	MinRating    *float64
	PriceRange   *PriceRange
	UserLocation *LatLon
	MaxDistance  float64
	SearchTerm   string
}

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// Booking reserves a court for a time window on one date ("YYYY-MM-DD",
// "HH:MM"). MatchID links the booking to a recorded match when one exists.
type Booking struct {
	ID        string        `json:"id"`
	CourtID   string        `json:"court_id"`
	UserID    string        `json:"user_id"`
	MatchID   string        `json:"match_id,omitempty"`
	Date      string        `json:"date"`
	StartTime string        `json:"start_time"`
	EndTime   string        `json:"end_time"`
	Status    BookingStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Favorite marks a court saved by a user.
type Favorite struct {
	ID      string    `json:"id"`
	UserID  string    `json:"user_id"`
	CourtID string    `json:"court_id"`
	Notes   string    `json:"notes,omitempty"`
	AddedAt time.Time `json:"added_at"`
}

// PopularTimeSlot is one weekday-hour window ranked by booking count.
type PopularTimeSlot struct {
	Weekday      time.Weekday `json:"weekday"`
	TimeRange    string       `json:"time_range"`
	BookingCount int          `json:"booking_count"`
}

// PeakMonth is one calendar month ranked by booking count.
type PeakMonth struct {
	Year         int        `json:"year"`
	Month        time.Month `json:"month"`
	BookingCount int        `json:"booking_count"`
}

// Statistics summarizes a court's booking history.
type Statistics struct {
	CourtID                string            `json:"court_id"`
	TotalBookings          int               `json:"total_bookings"`
	TotalMatches           int               `json:"total_matches"`
	AverageBookingDuration float64           `json:"average_booking_duration"`
	PopularTimeSlots       []PopularTimeSlot `json:"popular_time_slots"`
	PeakMonths             []PeakMonth       `json:"peak_months"`
}

// store handles all database operations for courts, favorites, and bookings.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}
