package models

import "time"

// Role distinguishes parent (admin) profiles from child profiles
type Role string

const (
	RoleAdmin Role = "admin"
	RoleChild Role = "child"
)

// ValidRole reports whether r is a known role
func ValidRole(r Role) bool {
	return r == RoleAdmin || r == RoleChild
}

// AgeBracket groups children into coarse age bands used to steer
// generation and the curated channel hints
type AgeBracket string

const (
	AgePreschool AgeBracket = "preschool" // 2-4
	AgeEarly     AgeBracket = "early"     // 5-7
	AgeMiddle    AgeBracket = "middle"    // 8-10
	AgePreteen   AgeBracket = "preteen"   // 11-13
)

// DefaultAgeBracket is the mid-range bracket used when none is given
const DefaultAgeBracket = AgeMiddle

// ValidAgeBracket reports whether b is a known age bracket
func ValidAgeBracket(b AgeBracket) bool {
	switch b {
	case AgePreschool, AgeEarly, AgeMiddle, AgePreteen:
		return true
	}
	return false
}

// AgeRange returns a human-readable age range for prompts
func (b AgeBracket) AgeRange() string {
	switch b {
	case AgePreschool:
		return "2-4 years old"
	case AgeEarly:
		return "5-7 years old"
	case AgePreteen:
		return "11-13 years old"
	default:
		return "8-10 years old"
	}
}

// Profile represents a family member within an account
type Profile struct {
	ID          int64
	AccountID   int64
	Name        string
	Role        Role
	PINHash     string
	AgeBracket  AgeBracket
	AvatarColor string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasPIN reports whether this profile requires a PIN to sign in
func (p *Profile) HasPIN() bool {
	return p.PINHash != ""
}

// ProfileStats summarizes a profile's progress for the parent dashboard
type ProfileStats struct {
	Profile        Profile
	LaneCount      int
	CompletedCount int
	BadgeCount     int
}
