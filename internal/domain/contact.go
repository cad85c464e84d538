package domain

// Contact holds the complainant's identifying details. A contact is
// owned 1:1 by its complaint and is created atomically with it.
type Contact struct {
	ComplaintID string
	FirstName   string
	LastName    string
	Email       string
	Phone       *string
	ZipCode     string
}
