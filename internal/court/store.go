package court

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// New creates a new court Store backed by the given database.
func New(db *sql.DB) Store {
	return &store{
		db: db,
	}
}

const courtColumns = `id, name, description, address, city, state, latitude, longitude,
	surface, is_indoor, amenities_json, availability, operating_hours_json,
	hourly_rate, currency, average_rating, rating_count, created_at, updated_at`

// UpsertCourt inserts a court or updates an existing one by id.
func (s *store) UpsertCourt(c *Court) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	amenitiesJSON, err := json.Marshal(c.Amenities)
	if err != nil {
		return fmt.Errorf("failed to marshal amenities: %w", err)
	}
	var hoursJSON []byte
	if len(c.OperatingHours) > 0 {
		hoursJSON, err = json.Marshal(c.OperatingHours)
		if err != nil {
			return fmt.Errorf("failed to marshal operating hours: %w", err)
		}
	}

	var hourlyRate, currency any
	if c.Pricing != nil {
		hourlyRate = c.Pricing.HourlyRate
		currency = c.Pricing.Currency
	}

	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now

	_, err = s.db.Exec(`
		INSERT INTO courts (`+courtColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			address = excluded.address,
			city = excluded.city,
			state = excluded.state,
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			surface = excluded.surface,
			is_indoor = excluded.is_indoor,
			amenities_json = excluded.amenities_json,
			availability = excluded.availability,
			operating_hours_json = excluded.operating_hours_json,
			hourly_rate = excluded.hourly_rate,
			currency = excluded.currency,
			average_rating = excluded.average_rating,
			rating_count = excluded.rating_count,
			updated_at = excluded.updated_at;
	`,
		c.ID, c.Name, c.Description, c.Location.Address, c.Location.City, c.Location.State,
		c.Location.Latitude, c.Location.Longitude,
		string(c.Surface), c.IsIndoor, string(amenitiesJSON), string(c.Availability), nullableBytes(hoursJSON),
		hourlyRate, currency, c.Rating.AverageRating, c.Rating.RatingCount,
		c.CreatedAt.Unix(), c.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert court %s: %w", c.ID, err)
	}
	return nil
}

// GetCourt retrieves a single court by id.
func (s *store) GetCourt(courtID string) (*Court, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`SELECT `+courtColumns+` FROM courts WHERE id = ?`, courtID)
	c, err := scanCourt(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("court %q not found", courtID)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return c, nil
}

// GetAllCourts retrieves every court, sorted by name.
func (s *store) GetAllCourts() ([]*Court, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT ` + courtColumns + ` FROM courts ORDER BY name`)
	if err != nil {
		log.Error("Failed to query all courts", "error", err)
		return nil, err
	}
	defer rows.Close()

	return collectCourts(rows), nil
}

// DeleteCourt removes a court. Favorites and bookings cascade via the schema.
func (s *store) DeleteCourt(courtID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`DELETE FROM courts WHERE id = ?`, courtID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("court %q not found", courtID)
	}
	return nil
}

// AddFavorite inserts a favorite; the unique user+court index rejects
// duplicates.
func (s *store) AddFavorite(f *Favorite) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if f.AddedAt.IsZero() {
		f.AddedAt = time.Now()
	}
	_, err := s.db.Exec(`
		INSERT INTO court_favorites (id, user_id, court_id, notes, added_at)
		VALUES (?, ?, ?, ?, ?)`,
		f.ID, f.UserID, f.CourtID, f.Notes, f.AddedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

// RemoveFavorite deletes a user's favorite for one court.
func (s *store) RemoveFavorite(userID, courtID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`DELETE FROM court_favorites WHERE user_id = ? AND court_id = ?`, userID, courtID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("favorite not found for user %q and court %q", userID, courtID)
	}
	return nil
}

// GetFavorite retrieves one user's favorite for one court.
func (s *store) GetFavorite(userID, courtID string) (*Favorite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var f Favorite
	var notes sql.NullString
	var addedAt int64
	err := s.db.QueryRow(`
		SELECT id, user_id, court_id, notes, added_at
		FROM court_favorites WHERE user_id = ? AND court_id = ?`, userID, courtID).
		Scan(&f.ID, &f.UserID, &f.CourtID, &notes, &addedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("favorite not found for user %q and court %q", userID, courtID)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	f.Notes = notes.String
	f.AddedAt = time.Unix(addedAt, 0)
	return &f, nil
}

// GetUserFavoriteCourts retrieves the courts a user has favorited.
func (s *store) GetUserFavoriteCourts(userID string) ([]*Court, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT `+courtColumns+` FROM courts
		WHERE id IN (SELECT court_id FROM court_favorites WHERE user_id = ?)
		ORDER BY name`, userID)
	if err != nil {
		log.Error("Failed to query favorite courts", "error", err, "userID", userID)
		return nil, err
	}
	defer rows.Close()

	return collectCourts(rows), nil
}

const bookingColumns = `id, court_id, user_id, match_id, date, start_time, end_time, status, created_at, updated_at`

// PutBooking inserts a booking or replaces an existing one by id.
func (s *store) PutBooking(b *Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now

	_, err := s.db.Exec(`
		INSERT INTO court_bookings (`+bookingColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			date = excluded.date,
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			status = excluded.status,
			match_id = excluded.match_id,
			updated_at = excluded.updated_at;
	`,
		b.ID, b.CourtID, b.UserID, b.MatchID, b.Date, b.StartTime, b.EndTime, string(b.Status),
		b.CreatedAt.Unix(), b.UpdatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to put booking %s: %w", b.ID, err)
	}
	return nil
}

// GetBooking retrieves a single booking by id.
func (s *store) GetBooking(bookingID string) (*Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`SELECT `+bookingColumns+` FROM court_bookings WHERE id = ?`, bookingID)
	b, err := scanBooking(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("booking %q not found", bookingID)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return b, nil
}

// GetCourtBookings retrieves a court's bookings, optionally bounded by an
// inclusive date range, sorted by date then start time. Empty bounds are open.
func (s *store) GetCourtBookings(courtID, dateFrom, dateTo string) ([]*Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT ` + bookingColumns + ` FROM court_bookings WHERE court_id = ?`
	args := []any{courtID}
	if dateFrom != "" {
		query += ` AND date >= ?`
		args = append(args, dateFrom)
	}
	if dateTo != "" {
		query += ` AND date <= ?`
		args = append(args, dateTo)
	}
	query += ` ORDER BY date, start_time`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		log.Error("Failed to query court bookings", "error", err, "courtID", courtID)
		return nil, err
	}
	defer rows.Close()

	return collectBookings(rows), nil
}

// GetUserBookings retrieves a user's bookings sorted by date then start time.
func (s *store) GetUserBookings(userID string) ([]*Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT `+bookingColumns+` FROM court_bookings
		WHERE user_id = ?
		ORDER BY date, start_time`, userID)
	if err != nil {
		log.Error("Failed to query user bookings", "error", err, "userID", userID)
		return nil, err
	}
	defer rows.Close()

	return collectBookings(rows), nil
}

func (s *store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"court_bookings", "court_favorites", "courts"} {
		if _, err := s.db.Exec("DELETE FROM " + table); err != nil {
			log.Error("Failed to clear table", "error", err, "table", table)
		}
	}
}

func collectCourts(rows *sql.Rows) []*Court {
	var result []*Court
	for rows.Next() {
		c, err := scanCourt(rows)
		if err != nil {
			log.Error("Failed to scan court row", "error", err)
			continue
		}
		result = append(result, c)
	}
	return result
}

func scanCourt(scanner interface{ Scan(...any) error }) (*Court, error) {
	var c Court
	var description, address, city, state, amenitiesJSON, availability, hoursJSON, currency sql.NullString
	var hourlyRate sql.NullFloat64
	var createdAt, updatedAt int64

	err := scanner.Scan(
		&c.ID, &c.Name, &description, &address, &city, &state,
		&c.Location.Latitude, &c.Location.Longitude,
		(*string)(&c.Surface), &c.IsIndoor, &amenitiesJSON, &availability, &hoursJSON,
		&hourlyRate, &currency, &c.Rating.AverageRating, &c.Rating.RatingCount,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.Description = description.String
	c.Location.Address = address.String
	c.Location.City = city.String
	c.Location.State = state.String
	c.Availability = AvailabilityPolicy(availability.String)
	if hourlyRate.Valid {
		c.Pricing = &Pricing{HourlyRate: hourlyRate.Float64, Currency: currency.String}
	}
	c.CreatedAt = time.Unix(createdAt, 0)
	c.UpdatedAt = time.Unix(updatedAt, 0)

	if amenitiesJSON.Valid && amenitiesJSON.String != "" {
		if err := json.Unmarshal([]byte(amenitiesJSON.String), &c.Amenities); err != nil {
			log.Error("Failed to unmarshal amenities_json", "error", err, "courtID", c.ID)
		}
	}
	if hoursJSON.Valid && hoursJSON.String != "" {
		if err := json.Unmarshal([]byte(hoursJSON.String), &c.OperatingHours); err != nil {
			log.Error("Failed to unmarshal operating_hours_json", "error", err, "courtID", c.ID)
		}
	}

	return &c, nil
}

func collectBookings(rows *sql.Rows) []*Booking {
	var result []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			log.Error("Failed to scan booking row", "error", err)
			continue
		}
		result = append(result, b)
	}
	return result
}

func scanBooking(scanner interface{ Scan(...any) error }) (*Booking, error) {
	var b Booking
	var matchID sql.NullString
	var createdAt, updatedAt int64

	err := scanner.Scan(
		&b.ID, &b.CourtID, &b.UserID, &matchID, &b.Date, &b.StartTime, &b.EndTime,
		(*string)(&b.Status), &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.MatchID = matchID.String
	b.CreatedAt = time.Unix(createdAt, 0)
	b.UpdatedAt = time.Unix(updatedAt, 0)
	return &b, nil
}

func nullableBytes(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
