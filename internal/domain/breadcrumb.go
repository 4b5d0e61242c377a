package domain

// Breadcrumb is a single navigation trail entry. Active marks the current
// page; at most one entry in a trail is active.
type Breadcrumb struct {
	Label  string
	Href   string
	Active bool
}
