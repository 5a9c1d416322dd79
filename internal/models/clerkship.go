package models

import "time"

// ClerkshipType classifies rotations; it doubles as the requirement type.
type ClerkshipType string

const (
	ClerkshipTypeInpatient  ClerkshipType = "inpatient"
	ClerkshipTypeOutpatient ClerkshipType = "outpatient"
	ClerkshipTypeElective   ClerkshipType = "elective"
)

// Clerkship is a required rotation with a fixed number of days.
type Clerkship struct {
	ID            string        `db:"id" json:"id" yaml:"id"`
	Name          string        `db:"name" json:"name" yaml:"name"`
	ClerkshipType ClerkshipType `db:"clerkship_type" json:"clerkship_type" yaml:"clerkship_type"`
	RequiredDays  int           `db:"required_days" json:"required_days" yaml:"required_days"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at" yaml:"-"`
}

// ClerkshipSite records that a clerkship may be taught at a site.
type ClerkshipSite struct {
	ClerkshipID string `db:"clerkship_id" json:"clerkship_id" yaml:"clerkship_id"`
	SiteID      string `db:"site_id" json:"site_id" yaml:"site_id"`
}

// BlackoutDate is a calendar date on which nothing may be scheduled.
type BlackoutDate struct {
	ID     string `db:"id" json:"id" yaml:"-"`
	Date   string `db:"date" json:"date" yaml:"date"`
	Reason string `db:"reason" json:"reason,omitempty" yaml:"reason,omitempty"`
}
