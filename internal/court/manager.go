package court

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/tennismeet/tennismeet/internal/metrics"
)

// DefaultNearbyRadiusKm bounds CourtsNearLocation when no radius is given.
const DefaultNearbyRadiusKm = 10

const earthRadiusKm = 6371

// DistanceKm is the haversine great-circle distance between two coordinates
// in kilometers.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

func toRadians(degrees float64) float64 {
	return degrees * (math.Pi / 180)
}

// Manager owns the court logic: search and ranking, favorites, booking
// conflicts, and statistics. All persistence goes through the injected Store.
type Manager struct {
	store   Store
	metrics metrics.Metrics
}

// NewManager creates a Manager on top of the given store.
func NewManager(store Store, metrics metrics.Metrics) *Manager {
	return &Manager{
		store:   store,
		metrics: metrics,
	}
}

// CreateCourt stores a new court under a fresh id.
func (m *Manager) CreateCourt(c *Court) (*Court, error) {
	stored := *c
	stored.ID = uuid.New().String()
	if err := m.store.UpsertCourt(&stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

// GetCourt retrieves a court by id.
func (m *Manager) GetCourt(courtID string) (*Court, error) {
	return m.store.GetCourt(courtID)
}

// AllCourts retrieves every court.
func (m *Manager) AllCourts() ([]*Court, error) {
	return m.store.GetAllCourts()
}

// UpdateCourt applies the set fields of the patch to an existing court. The id
// never changes.
func (m *Manager) UpdateCourt(courtID string, patch CourtPatch) (*Court, error) {
	existing, err := m.store.GetCourt(courtID)
	if err != nil {
		return nil, err
	}

	updated := *existing
	if patch.Name != "" {
		updated.Name = patch.Name
	}
	if patch.Description != "" {
		updated.Description = patch.Description
	}
	if patch.Surface != "" {
		updated.Surface = patch.Surface
	}
	if patch.Availability != "" {
		updated.Availability = patch.Availability
	}
	if patch.Location != nil {
		updated.Location = *patch.Location
	}
	if patch.IsIndoor != nil {
		updated.IsIndoor = *patch.IsIndoor
	}
	if patch.Amenities != nil {
		updated.Amenities = patch.Amenities
	}
	if patch.OperatingHours != nil {
		updated.OperatingHours = patch.OperatingHours
	}
	if patch.Pricing != nil {
		updated.Pricing = patch.Pricing
	}
	if patch.Rating != nil {
		updated.Rating = *patch.Rating
	}

	if err := m.store.UpsertCourt(&updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteCourt removes a court along with its favorites and bookings.
func (m *Manager) DeleteCourt(courtID string) error {
	return m.store.DeleteCourt(courtID)
}

// SearchCourts applies every set filter conjunctively, then ranks. With a
// user location, results carry distances in kilometers and sort nearest
// first; a search term scores text relevance and sorts by score only when no
// location sort applies. Distance sorting always wins when both are present.
func (m *Manager) SearchCourts(filters Filters) ([]SearchResult, error) {
	start := time.Now()
	courts, err := m.store.GetAllCourts()
	if err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(courts))
	for _, c := range courts {
		if len(filters.Surfaces) > 0 && !containsTag(filters.Surfaces, c.Surface) {
			continue
		}
		if len(filters.Amenities) > 0 && !hasAllAmenities(c.Amenities, filters.Amenities) {
			continue
		}
		if len(filters.Availability) > 0 && !containsTag(filters.Availability, c.Availability) {
			continue
		}
		if filters.IsIndoor != nil && c.IsIndoor != *filters.IsIndoor {
			continue
		}
		if filters.MinRating != nil && c.Rating.AverageRating < *filters.MinRating {
			continue
		}
		if filters.PriceRange != nil && !passesPriceRange(c.Pricing, filters.PriceRange) {
			continue
		}
		results = append(results, SearchResult{Court: c})
	}

	if filters.UserLocation != nil {
		filtered := results[:0]
		for i := range results {
			d := DistanceKm(
				filters.UserLocation.Latitude, filters.UserLocation.Longitude,
				results[i].Court.Location.Latitude, results[i].Court.Location.Longitude,
			)
			if filters.MaxDistance > 0 && d > filters.MaxDistance {
				continue
			}
			results[i].Distance = &d
			filtered = append(filtered, results[i])
		}
		results = filtered

		sort.SliceStable(results, func(i, j int) bool {
			return *results[i].Distance < *results[j].Distance
		})
	}

	if filters.SearchTerm != "" {
		term := strings.ToLower(filters.SearchTerm)
		filtered := results[:0]
		for i := range results {
			c := results[i].Court
			if !matchesTerm(c, term) {
				continue
			}
			results[i].MatchScore = relevanceScore(c, term)
			filtered = append(filtered, results[i])
		}
		results = filtered

		if filters.UserLocation == nil {
			sort.SliceStable(results, func(i, j int) bool {
				return results[i].MatchScore > results[j].MatchScore
			})
		}
	}

	m.metrics.IncCourtSearches()
	m.metrics.ObserveSearchDuration(time.Since(start).Seconds())
	return results, nil
}

func containsTag[T ~string](haystack []T, needle T) bool {
	for _, v := range haystack {
		if v == needle {
			return true
		}
	}
	return false
}

func hasAllAmenities(have, want []Amenity) bool {
	for _, w := range want {
		if !containsTag(have, w) {
			return false
		}
	}
	return true
}

// passesPriceRange lets unpriced courts through only when no minimum was
// requested.
func passesPriceRange(p *Pricing, r *PriceRange) bool {
	if p == nil || p.HourlyRate == 0 {
		return r.Min == nil
	}
	if r.Min != nil && p.HourlyRate < *r.Min {
		return false
	}
	if r.Max != nil && p.HourlyRate > *r.Max {
		return false
	}
	return true
}

func matchesTerm(c *Court, term string) bool {
	return strings.Contains(strings.ToLower(c.Name), term) ||
		strings.Contains(strings.ToLower(c.Location.City), term) ||
		strings.Contains(strings.ToLower(c.Location.Address), term) ||
		strings.Contains(strings.ToLower(c.Description), term)
}

func relevanceScore(c *Court, term string) int {
	score := 0
	name := strings.ToLower(c.Name)
	if strings.Contains(name, term) {
		score += 10
	}
	if strings.Contains(strings.ToLower(c.Location.City), term) {
		score += 5
	}
	if strings.Contains(strings.ToLower(c.Location.Address), term) {
		score += 3
	}
	if strings.Contains(strings.ToLower(c.Description), term) {
		score += 2
	}
	if name == term {
		score += 20
	}
	return score
}

// CourtsNearLocation finds courts within maxDistanceKm of a point, nearest
// first. A radius of zero or less means DefaultNearbyRadiusKm.
func (m *Manager) CourtsNearLocation(latitude, longitude, maxDistanceKm float64) ([]SearchResult, error) {
	if maxDistanceKm <= 0 {
		maxDistanceKm = DefaultNearbyRadiusKm
	}
	return m.SearchCourts(Filters{
		UserLocation: &LatLon{Latitude: latitude, Longitude: longitude},
		MaxDistance:  maxDistanceKm,
	})
}

// AddFavorite saves a court for a user. Favoriting an already-saved court
// returns the existing favorite.
func (m *Manager) AddFavorite(userID, courtID, notes string) (*Favorite, error) {
	if _, err := m.store.GetCourt(courtID); err != nil {
		return nil, err
	}
	if existing, err := m.store.GetFavorite(userID, courtID); err == nil {
		return existing, nil
	}

	f := &Favorite{
		ID:      uuid.New().String(),
		UserID:  userID,
		CourtID: courtID,
		Notes:   notes,
		AddedAt: time.Now(),
	}
	if err := m.store.AddFavorite(f); err != nil {
		return nil, err
	}
	return f, nil
}

// RemoveFavorite forgets a user's saved court.
func (m *Manager) RemoveFavorite(userID, courtID string) error {
	return m.store.RemoveFavorite(userID, courtID)
}

// UserFavorites lists the courts a user has saved.
func (m *Manager) UserFavorites(userID string) ([]*Court, error) {
	return m.store.GetUserFavoriteCourts(userID)
}

// IsFavorite reports whether a user has saved a court.
func (m *Manager) IsFavorite(userID, courtID string) bool {
	_, err := m.store.GetFavorite(userID, courtID)
	return err == nil
}

// CreateBooking reserves a court window after checking for conflicts. The
// conflict rule mirrors availability overlap: same court, same date, any
// non-cancelled non-completed booking whose time interval strictly overlaps.
func (m *Manager) CreateBooking(b *Booking) (*Booking, error) {
	if _, err := m.store.GetCourt(b.CourtID); err != nil {
		return nil, err
	}

	conflict, err := m.CheckBookingConflict(b.CourtID, b.Date, b.StartTime, b.EndTime)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, fmt.Errorf("court %s is already booked on %s between %s and %s", b.CourtID, b.Date, b.StartTime, b.EndTime)
	}

	stored := *b
	stored.ID = uuid.New().String()
	if stored.Status == "" {
		stored.Status = BookingPending
	}
	if err := m.store.PutBooking(&stored); err != nil {
		return nil, err
	}

	m.metrics.IncBookingsCreated()
	log.Info("Created booking", "bookingID", stored.ID, "courtID", stored.CourtID, "date", stored.Date)
	return &stored, nil
}

// CheckBookingConflict reports whether an active booking already covers any
// part of the window.
func (m *Manager) CheckBookingConflict(courtID, date, startTime, endTime string) (bool, error) {
	bookings, err := m.store.GetCourtBookings(courtID, date, date)
	if err != nil {
		return false, err
	}
	for _, b := range bookings {
		if b.Status == BookingCancelled || b.Status == BookingCompleted {
			continue
		}
		if timeRangesOverlap(startTime, endTime, b.StartTime, b.EndTime) {
			return true, nil
		}
	}
	return false, nil
}

// timeRangesOverlap checks two half-open [start,end) minute intervals for
// strict overlap.
func timeRangesOverlap(start1, end1, start2, end2 string) bool {
	return clockMinutes(start1) < clockMinutes(end2) && clockMinutes(end1) > clockMinutes(start2)
}

func clockMinutes(t string) int {
	parsed, err := time.Parse("15:04", t)
	if err != nil {
		return 0
	}
	return parsed.Hour()*60 + parsed.Minute()
}

// CancelBooking marks a booking cancelled, freeing its window.
func (m *Manager) CancelBooking(bookingID string) error {
	b, err := m.store.GetBooking(bookingID)
	if err != nil {
		return err
	}
	b.Status = BookingCancelled
	return m.store.PutBooking(b)
}

// CourtBookings lists a court's bookings within an optional inclusive date
// range.
func (m *Manager) CourtBookings(courtID, dateFrom, dateTo string) ([]*Booking, error) {
	return m.store.GetCourtBookings(courtID, dateFrom, dateTo)
}

// UserBookings lists a user's bookings.
func (m *Manager) UserBookings(userID string) ([]*Booking, error) {
	return m.store.GetUserBookings(userID)
}

// CourtStatistics summarizes a court's booking history: totals, average
// duration in minutes, the five most-booked weekday-hour slots, and the six
// busiest calendar months.
func (m *Manager) CourtStatistics(courtID string) (*Statistics, error) {
	if _, err := m.store.GetCourt(courtID); err != nil {
		return nil, err
	}
	bookings, err := m.store.GetCourtBookings(courtID, "", "")
	if err != nil {
		return nil, err
	}

	stats := &Statistics{CourtID: courtID, TotalBookings: len(bookings)}

	type slotKey struct {
		weekday time.Weekday
		hour    int
	}
	type monthKey struct {
		year  int
		month time.Month
	}

	totalDuration := 0
	slotCounts := make(map[slotKey]int)
	monthCounts := make(map[monthKey]int)
	for _, b := range bookings {
		totalDuration += clockMinutes(b.EndTime) - clockMinutes(b.StartTime)
		if b.MatchID != "" {
			stats.TotalMatches++
		}

		date, err := time.Parse("2006-01-02", b.Date)
		if err != nil {
			continue
		}
		slotCounts[slotKey{date.Weekday(), clockMinutes(b.StartTime) / 60}]++
		monthCounts[monthKey{date.Year(), date.Month()}]++
	}

	if len(bookings) > 0 {
		stats.AverageBookingDuration = float64(totalDuration) / float64(len(bookings))
	}

	for key, count := range slotCounts {
		stats.PopularTimeSlots = append(stats.PopularTimeSlots, PopularTimeSlot{
			Weekday:      key.weekday,
			TimeRange:    fmt.Sprintf("%d:00-%d:00", key.hour, key.hour+1),
			BookingCount: count,
		})
	}
	sort.SliceStable(stats.PopularTimeSlots, func(i, j int) bool {
		if stats.PopularTimeSlots[i].BookingCount != stats.PopularTimeSlots[j].BookingCount {
			return stats.PopularTimeSlots[i].BookingCount > stats.PopularTimeSlots[j].BookingCount
		}
		return stats.PopularTimeSlots[i].TimeRange < stats.PopularTimeSlots[j].TimeRange
	})
	if len(stats.PopularTimeSlots) > 5 {
		stats.PopularTimeSlots = stats.PopularTimeSlots[:5]
	}

	for key, count := range monthCounts {
		stats.PeakMonths = append(stats.PeakMonths, PeakMonth{
			Year:         key.year,
			Month:        key.month,
			BookingCount: count,
		})
	}
	sort.SliceStable(stats.PeakMonths, func(i, j int) bool {
		if stats.PeakMonths[i].BookingCount != stats.PeakMonths[j].BookingCount {
			return stats.PeakMonths[i].BookingCount > stats.PeakMonths[j].BookingCount
		}
		if stats.PeakMonths[i].Year != stats.PeakMonths[j].Year {
			return stats.PeakMonths[i].Year < stats.PeakMonths[j].Year
		}
		return stats.PeakMonths[i].Month < stats.PeakMonths[j].Month
	})
	if len(stats.PeakMonths) > 6 {
		stats.PeakMonths = stats.PeakMonths[:6]
	}

	return stats, nil
}

// IsCourtOpen checks a court's operating hours for the given date and "HH:MM"
// time. Closing time is inclusive.
func (m *Manager) IsCourtOpen(courtID, date, clockTime string) bool {
	c, err := m.store.GetCourt(courtID)
	if err != nil {
		return false
	}

	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return false
	}

	for _, h := range c.OperatingHours {
		if h.Weekday != parsed.Weekday() {
			continue
		}
		if h.Closed {
			return false
		}
		return clockTime >= h.OpenTime && clockTime <= h.CloseTime
	}
	return false
}
