package boxer

import (
	"fmt"
	"strings"
	"time"
)

// Gender is the competition gender recorded for a boxer.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

var AllGenders = map[Gender]struct{}{
	GenderMale:   {},
	GenderFemale: {},
}

// Category is the competitive tier used to pick matching tolerances.
type Category string

const (
	CategoryJunior Category = "junior"
	CategoryYouth  Category = "youth"
	CategoryElite  Category = "elite"
)

var AllCategories = map[Category]struct{}{
	CategoryJunior: {},
	CategoryYouth:  {},
	CategoryElite:  {},
}

// Availability is the club-declared readiness of a boxer to take a bout.
type Availability string

const (
	AvailabilityAvailable   Availability = "available"
	AvailabilityUnavailable Availability = "unavailable"
	AvailabilityInjured     Availability = "injured"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Boxer is a club-declared athlete snapshot. All attributes are
// self-reported by the owning club and never verified here. Age is not
// stored; it is always derived from DateOfBirth at evaluation time.
type Boxer struct {
	ID           string
	ClubID       string
	FirstName    string
	LastName     string
	DateOfBirth  time.Time
	Gender       Gender
	Category     Category
	WeightKG     float64
	BoutCount    int
	WinCount     int
	LossCount    int
	Availability Availability
	Status       Status
}

func (b Boxer) FullName() string {
	return strings.TrimSpace(b.FirstName + " " + b.LastName)
}

// AgeAt derives the boxer's age in whole years at the reference date.
func (b Boxer) AgeAt(ref time.Time) int {
	if b.DateOfBirth.IsZero() || ref.Before(b.DateOfBirth) {
		return 0
	}

	age := ref.Year() - b.DateOfBirth.Year()
	anniversary := time.Date(ref.Year(), b.DateOfBirth.Month(), b.DateOfBirth.Day(), 0, 0, 0, 0, time.UTC)
	refDay := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)
	if refDay.Before(anniversary) {
		age--
	}
	if age < 0 {
		age = 0
	}

	return age
}

// WinRate returns the win percentage over recorded bouts. The second
// return is false when no bouts are recorded.
func (b Boxer) WinRate() (float64, bool) {
	if b.BoutCount <= 0 {
		return 0, false
	}
	return float64(b.WinCount) / float64(b.BoutCount) * 100, true
}

func (b Boxer) Validate() error {
	if b.ID == "" {
		return fmt.Errorf("boxer id is required")
	}
	if b.ClubID == "" {
		return fmt.Errorf("boxer club id is required")
	}
	if strings.TrimSpace(b.FirstName) == "" && strings.TrimSpace(b.LastName) == "" {
		return fmt.Errorf("boxer name is required")
	}
	if b.DateOfBirth.IsZero() {
		return fmt.Errorf("boxer date of birth is required")
	}
	if _, ok := AllGenders[b.Gender]; !ok {
		return fmt.Errorf("invalid boxer gender: %s", b.Gender)
	}
	if b.WeightKG <= 0 {
		return fmt.Errorf("boxer weight must be greater than zero")
	}
	if b.BoutCount < 0 || b.WinCount < 0 || b.LossCount < 0 {
		return fmt.Errorf("boxer bout counts must not be negative")
	}
	if b.WinCount+b.LossCount > b.BoutCount {
		return fmt.Errorf("boxer win/loss counts exceed bout count")
	}

	return nil
}
