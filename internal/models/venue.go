package models

// VenueInfo is the catalog view of a venue. A nil coordinate means the feed
// did not provide a usable value.
type VenueInfo struct {
	Name      string
	Latitude  *float64
	Longitude *float64
}

// Venue is a selected venue as stored in the database.
type Venue struct {
	VenueID    string  // VenueID is the feed identifier of the venue.
	Name       string  // Name is the display name.
	Latitude   float64 // Latitude of the venue.
	Longitude  float64 // Longitude of the venue.
	EventCount int     // EventCount is the number of feed events that referenced the venue.
}

// Event is an event linked to a selected venue, ready to be stored.
type Event struct {
	SourceID    string // SourceID is the feed identifier of the event.
	VenueID     string // VenueID is the feed identifier of the owning venue.
	Title       string
	DateTime    string
	Description string
	Presenter   string
	Price       string
}

// ImportBatch holds everything a single import run writes to the database.
type ImportBatch struct {
	Venues  []Venue
	Events  []Event
	Skipped int // Skipped counts feed events whose venue was not selected.
}
