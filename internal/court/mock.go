package court

import "sync"

// MockStore is a mock implementation of the Store interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	UpsertCourtFunc           func(c *Court) error
	GetCourtFunc              func(courtID string) (*Court, error)
	GetAllCourtsFunc          func() ([]*Court, error)
	DeleteCourtFunc           func(courtID string) error
	AddFavoriteFunc           func(f *Favorite) error
	RemoveFavoriteFunc        func(userID, courtID string) error
	GetFavoriteFunc           func(userID, courtID string) (*Favorite, error)
	GetUserFavoriteCourtsFunc func(userID string) ([]*Court, error)
	PutBookingFunc            func(b *Booking) error
	GetBookingFunc            func(bookingID string) (*Booking, error)
	GetCourtBookingsFunc      func(courtID, dateFrom, dateTo string) ([]*Booking, error)
	GetUserBookingsFunc       func(userID string) ([]*Booking, error)
	ClearFunc                 func()

	// Call records
	UpsertCourtCalls []*Court
	DeleteCourtCalls []string
	PutBookingCalls  []*Booking
	ClearCalls       int
}

var _ Store = (*MockStore)(nil)

func (m *MockStore) UpsertCourt(c *Court) error {
	m.mu.Lock()
	m.UpsertCourtCalls = append(m.UpsertCourtCalls, c)
	m.mu.Unlock()
	if m.UpsertCourtFunc != nil {
		return m.UpsertCourtFunc(c)
	}
	return nil
}

func (m *MockStore) GetCourt(courtID string) (*Court, error) {
	if m.GetCourtFunc != nil {
		return m.GetCourtFunc(courtID)
	}
	return nil, nil
}

func (m *MockStore) GetAllCourts() ([]*Court, error) {
	if m.GetAllCourtsFunc != nil {
		return m.GetAllCourtsFunc()
	}
	return nil, nil
}

func (m *MockStore) DeleteCourt(courtID string) error {
	m.mu.Lock()
	m.DeleteCourtCalls = append(m.DeleteCourtCalls, courtID)
	m.mu.Unlock()
	if m.DeleteCourtFunc != nil {
		return m.DeleteCourtFunc(courtID)
	}
	return nil
}

func (m *MockStore) AddFavorite(f *Favorite) error {
	if m.AddFavoriteFunc != nil {
		return m.AddFavoriteFunc(f)
	}
	return nil
}

func (m *MockStore) RemoveFavorite(userID, courtID string) error {
	if m.RemoveFavoriteFunc != nil {
		return m.RemoveFavoriteFunc(userID, courtID)
	}
	return nil
}

func (m *MockStore) GetFavorite(userID, courtID string) (*Favorite, error) {
	if m.GetFavoriteFunc != nil {
		return m.GetFavoriteFunc(userID, courtID)
	}
	return nil, nil
}

func (m *MockStore) GetUserFavoriteCourts(userID string) ([]*Court, error) {
	if m.GetUserFavoriteCourtsFunc != nil {
		return m.GetUserFavoriteCourtsFunc(userID)
	}
	return nil, nil
}

func (m *MockStore) PutBooking(b *Booking) error {
	m.mu.Lock()
	m.PutBookingCalls = append(m.PutBookingCalls, b)
	m.mu.Unlock()
	if m.PutBookingFunc != nil {
		return m.PutBookingFunc(b)
	}
	return nil
}

func (m *MockStore) GetBooking(bookingID string) (*Booking, error) {
	if m.GetBookingFunc != nil {
		return m.GetBookingFunc(bookingID)
	}
	return nil, nil
}

func (m *MockStore) GetCourtBookings(courtID, dateFrom, dateTo string) ([]*Booking, error) {
	if m.GetCourtBookingsFunc != nil {
		return m.GetCourtBookingsFunc(courtID, dateFrom, dateTo)
	}
	return nil, nil
}

func (m *MockStore) GetUserBookings(userID string) ([]*Booking, error) {
	if m.GetUserBookingsFunc != nil {
		return m.GetUserBookingsFunc(userID)
	}
	return nil, nil
}

func (m *MockStore) Clear() {
	m.mu.Lock()
	m.ClearCalls++
	m.mu.Unlock()
	if m.ClearFunc != nil {
		m.ClearFunc()
	}
}
