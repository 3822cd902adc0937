package memory

import (
	"time"

	"github.com/ringsidehq/matchfinder/internal/domain/boxer"
	"github.com/ringsidehq/matchfinder/internal/domain/club"
)

const (
	ClubIDNorthside = "club-northside"
	ClubIDSouthside = "club-southside"
	ClubIDRiverside = "club-riverside"
)

func SeedClubs() []club.Club {
	return []club.Club{
		{ID: ClubIDNorthside, Name: "Northside Boxing Club", City: "Manchester"},
		{ID: ClubIDSouthside, Name: "Southside Boxing Gym", City: "Birmingham"},
		{ID: ClubIDRiverside, Name: "Riverside Amateur Boxing", City: "Leeds"},
	}
}

func SeedBoxers() []boxer.Boxer {
	return []boxer.Boxer{
		{
			ID: "nb-jake", ClubID: ClubIDNorthside,
			FirstName: "Jake", LastName: "Thompson",
			DateOfBirth: time.Date(2002, time.March, 14, 0, 0, 0, 0, time.UTC),
			Gender:      boxer.GenderMale, Category: boxer.CategoryElite,
			WeightKG: 72, BoutCount: 10, WinCount: 6, LossCount: 4,
			Availability: boxer.AvailabilityAvailable, Status: boxer.StatusActive,
		},
		{
			ID: "nb-sarah", ClubID: ClubIDNorthside,
			FirstName: "Sarah", LastName: "Connor",
			DateOfBirth: time.Date(2004, time.June, 2, 0, 0, 0, 0, time.UTC),
			Gender:      boxer.GenderFemale, Category: boxer.CategoryElite,
			WeightKG: 60, BoutCount: 4, WinCount: 3, LossCount: 1,
			Availability: boxer.AvailabilityAvailable, Status: boxer.StatusActive,
		},
		{
			ID: "nb-tim", ClubID: ClubIDNorthside,
			FirstName: "Tim", LastName: "Hale",
			DateOfBirth: time.Date(2013, time.January, 20, 0, 0, 0, 0, time.UTC),
			Gender:      boxer.GenderMale, Category: boxer.CategoryJunior,
			WeightKG: 45, BoutCount: 2, WinCount: 1, LossCount: 1,
			Availability: boxer.AvailabilityAvailable, Status: boxer.StatusActive,
		},
		{
			ID: "sb-marco", ClubID: ClubIDSouthside,
			FirstName: "Marco", LastName: "Silva",
			DateOfBirth: time.Date(2001, time.November, 8, 0, 0, 0, 0, time.UTC),
			Gender:      boxer.GenderMale, Category: boxer.CategoryElite,
			WeightKG: 73, BoutCount: 12, WinCount: 7, LossCount: 5,
			Availability: boxer.AvailabilityAvailable, Status: boxer.StatusActive,
		},
		{
			ID: "sb-dan", ClubID: ClubIDSouthside,
			FirstName: "Dan", LastName: "Okafor",
			DateOfBirth: time.Date(2000, time.May, 30, 0, 0, 0, 0, time.UTC),
			Gender:      boxer.GenderMale, Category: boxer.CategoryElite,
			WeightKG: 71.5, BoutCount: 9, WinCount: 4, LossCount: 5,
			Availability: boxer.AvailabilityInjured, Status: boxer.StatusActive,
		},
		{
			ID: "sb-ana", ClubID: ClubIDSouthside,
			FirstName: "Ana", LastName: "Reyes",
			DateOfBirth: time.Date(2003, time.September, 17, 0, 0, 0, 0, time.UTC),
			Gender:      boxer.GenderFemale, Category: boxer.CategoryElite,
			WeightKG: 61, BoutCount: 6, WinCount: 4, LossCount: 2,
			Availability: boxer.AvailabilityAvailable, Status: boxer.StatusActive,
		},
		{
			ID: "rv-liam", ClubID: ClubIDRiverside,
			FirstName: "Liam", LastName: "Burke",
			DateOfBirth: time.Date(2002, time.July, 4, 0, 0, 0, 0, time.UTC),
			Gender:      boxer.GenderMale, Category: boxer.CategoryElite,
			WeightKG: 72.5, BoutCount: 11, WinCount: 8, LossCount: 3,
			Availability: boxer.AvailabilityAvailable, Status: boxer.StatusActive,
		},
		{
			ID: "rv-ellie", ClubID: ClubIDRiverside,
			FirstName: "Ellie", LastName: "Marsh",
			DateOfBirth: time.Date(2009, time.February, 11, 0, 0, 0, 0, time.UTC),
			Gender:      boxer.GenderFemale, Category: boxer.CategoryYouth,
			WeightKG: 54, BoutCount: 3, WinCount: 2, LossCount: 1,
			Availability: boxer.AvailabilityAvailable, Status: boxer.StatusActive,
		},
		{
			ID: "rv-retired", ClubID: ClubIDRiverside,
			FirstName: "Victor", LastName: "Stone",
			DateOfBirth: time.Date(1990, time.October, 25, 0, 0, 0, 0, time.UTC),
			Gender:      boxer.GenderMale, Category: boxer.CategoryElite,
			WeightKG: 75, BoutCount: 40, WinCount: 25, LossCount: 15,
			Availability: boxer.AvailabilityUnavailable, Status: boxer.StatusInactive,
		},
	}
}
