package models

// HealthSystem groups sites under one institution.
type HealthSystem struct {
	ID   string `db:"id" json:"id" yaml:"id"`
	Name string `db:"name" json:"name" yaml:"name"`
}

// Site is a physical location preceptors work at.
type Site struct {
	ID             string  `db:"id" json:"id" yaml:"id"`
	Name           string  `db:"name" json:"name" yaml:"name"`
	HealthSystemID *string `db:"health_system_id" json:"health_system_id,omitempty" yaml:"health_system_id,omitempty"`
}

// SiteAvailability marks a site open or closed on a date.
type SiteAvailability struct {
	SiteID      string `db:"site_id" json:"site_id" yaml:"site_id"`
	Date        string `db:"date" json:"date" yaml:"date"`
	IsAvailable bool   `db:"is_available" json:"is_available" yaml:"is_available"`
}

// SiteCapacityRule bounds how many students a site hosts for a clerkship.
type SiteCapacityRule struct {
	ID              string  `db:"id" json:"id" yaml:"id"`
	SiteID          string  `db:"site_id" json:"site_id" yaml:"site_id"`
	ClerkshipID     *string `db:"clerkship_id" json:"clerkship_id,omitempty" yaml:"clerkship_id,omitempty"`
	MaxStudentsDay  int     `db:"max_students_per_day" json:"max_students_per_day" yaml:"max_students_per_day"`
	MaxStudentsYear int     `db:"max_students_per_year" json:"max_students_per_year" yaml:"max_students_per_year"`
}

// StudentOnboarding records a student cleared to rotate within a health system.
type StudentOnboarding struct {
	StudentID      string `db:"student_id" json:"student_id" yaml:"student_id"`
	HealthSystemID string `db:"health_system_id" json:"health_system_id" yaml:"health_system_id"`
	IsCompleted    bool   `db:"is_completed" json:"is_completed" yaml:"is_completed"`
}
