package models

import "time"

// Student is a learner who must complete every required clerkship.
type Student struct {
	ID        string    `db:"id" json:"id" yaml:"id"`
	Name      string    `db:"name" json:"name" yaml:"name"`
	Email     string    `db:"email" json:"email,omitempty" yaml:"email,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at" yaml:"-"`
}
