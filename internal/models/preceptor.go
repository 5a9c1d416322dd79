package models

import "time"

// Preceptor supervises students on the dates they are available.
type Preceptor struct {
	ID             string    `db:"id" json:"id" yaml:"id"`
	Name           string    `db:"name" json:"name" yaml:"name"`
	Email          string    `db:"email" json:"email,omitempty" yaml:"email,omitempty"`
	HealthSystemID *string   `db:"health_system_id" json:"health_system_id,omitempty" yaml:"health_system_id,omitempty"`
	SiteID         *string   `db:"site_id" json:"site_id,omitempty" yaml:"site_id,omitempty"`
	MaxStudents    *int      `db:"max_students" json:"max_students,omitempty" yaml:"max_students,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at" yaml:"-"`
}

// PreceptorAvailability marks a preceptor as working at a site on a date.
type PreceptorAvailability struct {
	ID          string  `db:"id" json:"id" yaml:"-"`
	PreceptorID string  `db:"preceptor_id" json:"preceptor_id" yaml:"preceptor_id"`
	SiteID      *string `db:"site_id" json:"site_id,omitempty" yaml:"site_id,omitempty"`
	Date        string  `db:"date" json:"date" yaml:"date"`
	IsAvailable bool    `db:"is_available" json:"is_available" yaml:"is_available"`
}

// PreceptorSiteClerkship links a preceptor at a site to a clerkship they can teach there.
type PreceptorSiteClerkship struct {
	PreceptorID string `db:"preceptor_id" json:"preceptor_id" yaml:"preceptor_id"`
	SiteID      string `db:"site_id" json:"site_id" yaml:"site_id"`
	ClerkshipID string `db:"clerkship_id" json:"clerkship_id" yaml:"clerkship_id"`
}

// PreceptorElective associates a preceptor with an elective they supervise.
type PreceptorElective struct {
	PreceptorID string `db:"preceptor_id" json:"preceptor_id" yaml:"preceptor_id"`
	ElectiveID  string `db:"elective_id" json:"elective_id" yaml:"elective_id"`
}
