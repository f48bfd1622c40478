package court

// Store defines the persistence interface for courts, favorites, and
// bookings. Search, conflict, and statistics logic live in the Manager.
type Store interface {
	UpsertCourt(c *Court) error
	GetCourt(courtID string) (*Court, error)
	GetAllCourts() ([]*Court, error)
	DeleteCourt(courtID string) error

	AddFavorite(f *Favorite) error
	RemoveFavorite(userID, courtID string) error
	GetFavorite(userID, courtID string) (*Favorite, error)
	GetUserFavoriteCourts(userID string) ([]*Court, error)

	PutBooking(b *Booking) error
	GetBooking(bookingID string) (*Booking, error)
	GetCourtBookings(courtID, dateFrom, dateTo string) ([]*Booking, error)
	GetUserBookings(userID string) ([]*Booking, error)

	Clear()
}
