package models

// CapacityRule caps how many students a preceptor takes. ClerkshipID and
// RequirementType narrow the rule; a rule with neither is the preceptor default.
type CapacityRule struct {
	ID                  string  `db:"id" json:"id" yaml:"id"`
	PreceptorID         string  `db:"preceptor_id" json:"preceptor_id" yaml:"preceptor_id"`
	ClerkshipID         *string `db:"clerkship_id" json:"clerkship_id,omitempty" yaml:"clerkship_id,omitempty"`
	RequirementType     *string `db:"requirement_type" json:"requirement_type,omitempty" yaml:"requirement_type,omitempty"`
	MaxStudentsPerDay   int     `db:"max_students_per_day" json:"max_students_per_day" yaml:"max_students_per_day"`
	MaxStudentsPerYear  int     `db:"max_students_per_year" json:"max_students_per_year" yaml:"max_students_per_year"`
	MaxStudentsPerBlock *int    `db:"max_students_per_block" json:"max_students_per_block,omitempty" yaml:"max_students_per_block,omitempty"`
	MaxBlocksPerYear    *int    `db:"max_blocks_per_year" json:"max_blocks_per_year,omitempty" yaml:"max_blocks_per_year,omitempty"`
}
