package models

// RawEvent is a single event record as projected from the events feed.
// Every field is passed through unmodified; an empty VenueID means the feed
// did not reference a venue.
type RawEvent struct {
	ID          string // ID is the event identifier assigned by the feed.
	VenueID     string // VenueID references a RawVenue.ID, may be empty.
	Title       string // Title is the English event title.
	Description string // Description is the English event description.
	DateTime    string // DateTime is the free-form English date text.
	Presenter   string // Presenter is the English presenter/organizer name.
	Price       string // Price is the free-form English price text.
}

// RawVenue is a single venue entry as projected from the venues feed.
// Coordinates are kept as the strings the feed delivered.
type RawVenue struct {
	ID        string // ID is the venue identifier, required.
	Name      string // Name is the English display name.
	Latitude  string // Latitude as delivered by the feed.
	Longitude string // Longitude as delivered by the feed.
}
