package match

import (
	"fmt"
	"math"
	"time"

	"github.com/ringsidehq/matchfinder/internal/domain/boxer"
)

// Overall score weighting across the three dimensions.
const (
	weightShare     = 0.30
	ageShare        = 0.35
	experienceShare = 0.35
)

type categoryRule struct {
	minAge     int
	maxAge     int
	maxAgeDiff int
}

// Unrecognized categories fall back to the elite rule.
var categoryRules = map[boxer.Category]categoryRule{
	boxer.CategoryJunior: {minAge: 8, maxAge: 14, maxAgeDiff: 2},
	boxer.CategoryYouth:  {minAge: 15, maxAge: 17, maxAgeDiff: 2},
	boxer.CategoryElite:  {minAge: 18, maxAge: 40, maxAgeDiff: 5},
}

func ruleForCategory(category boxer.Category) categoryRule {
	if rule, ok := categoryRules[category]; ok {
		return rule
	}
	return categoryRules[boxer.CategoryElite]
}

// AgeCheck compares two derived ages under the source category's rule.
// An age outside the category band fails outright with score zero;
// otherwise the score decays 10 points per year of difference.
func AgeCheck(sourceAge, targetAge int, category boxer.Category) CheckResult {
	rule := ruleForCategory(category)
	diff := math.Abs(float64(sourceAge - targetAge))

	result := CheckResult{
		SourceValue: float64(sourceAge),
		TargetValue: float64(targetAge),
		Difference:  diff,
		Tolerance:   float64(rule.maxAgeDiff),
	}

	if outsideBand(sourceAge, rule) || outsideBand(targetAge, rule) {
		result.Passed = false
		result.Score = 0
		result.Detail = fmt.Sprintf("age outside %s band %d-%d (ages %d and %d)",
			categoryLabel(category), rule.minAge, rule.maxAge, sourceAge, targetAge)
		return result
	}

	result.Score = int(math.Max(0, 100-10*diff))
	result.Passed = diff <= float64(rule.maxAgeDiff)
	result.Detail = fmt.Sprintf("age difference %.0f years against %d year tolerance", diff, rule.maxAgeDiff)

	return result
}

func outsideBand(age int, rule categoryRule) bool {
	return age < rule.minAge || age > rule.maxAge
}

func categoryLabel(category boxer.Category) string {
	if _, ok := categoryRules[category]; ok {
		return string(category)
	}
	return string(boxer.CategoryElite)
}

// WeightToleranceKG picks the allowed weight gap from the source
// boxer's declared weight class.
func WeightToleranceKG(sourceKG float64) float64 {
	switch {
	case sourceKG < 60:
		return 1
	case sourceKG <= 75:
		return 2
	default:
		return 3
	}
}

// WeightCheck scores a declared-weight pairing. Exact match is 100;
// inside tolerance the score falls linearly toward 60, beyond it the
// score falls from 60 toward zero over two further tolerance widths.
func WeightCheck(sourceKG, targetKG float64) CheckResult {
	tolerance := WeightToleranceKG(sourceKG)
	diff := math.Abs(sourceKG - targetKG)

	result := CheckResult{
		SourceValue: sourceKG,
		TargetValue: targetKG,
		Difference:  diff,
		Tolerance:   tolerance,
		Passed:      diff <= tolerance,
		Detail:      fmt.Sprintf("weight difference %.1fkg against %.0fkg tolerance", diff, tolerance),
	}

	switch {
	case diff == 0:
		result.Score = 100
	case diff <= tolerance:
		result.Score = roundScore(100 - diff/tolerance*40)
	default:
		result.Score = roundScore(math.Max(0, 60-(diff-tolerance)/(2*tolerance)*60))
	}

	return result
}

// ExperienceToleranceBouts picks the allowed bout-count gap from the
// source boxer's declared experience.
func ExperienceToleranceBouts(sourceBouts int) int {
	switch {
	case sourceBouts <= 5:
		return 2
	case sourceBouts <= 15:
		return 4
	default:
		return 6
	}
}

// ExperienceCheck scores a bout-count pairing. Exact match is 100;
// inside tolerance the score falls linearly toward 70, beyond it the
// score falls from 70 toward zero over two further tolerance widths.
func ExperienceCheck(sourceBouts, targetBouts int) CheckResult {
	tolerance := float64(ExperienceToleranceBouts(sourceBouts))
	diff := math.Abs(float64(sourceBouts - targetBouts))

	result := CheckResult{
		SourceValue: float64(sourceBouts),
		TargetValue: float64(targetBouts),
		Difference:  diff,
		Tolerance:   tolerance,
		Passed:      diff <= tolerance,
		Detail:      fmt.Sprintf("experience difference %.0f bouts against %.0f bout tolerance", diff, tolerance),
	}

	switch {
	case diff == 0:
		result.Score = 100
	case diff <= tolerance:
		result.Score = roundScore(100 - diff/tolerance*30)
	default:
		result.Score = roundScore(math.Max(0, 70-(diff-tolerance)/(2*tolerance)*70))
	}

	return result
}

// Evaluate runs the full pairwise compliance check between a source
// boxer and a candidate at the reference date. Pure function of the
// two snapshots and the date; nothing here is cached or persisted.
func Evaluate(source, target boxer.Boxer, ref time.Time) Result {
	weightCheck := WeightCheck(source.WeightKG, target.WeightKG)
	ageCheck := AgeCheck(source.AgeAt(ref), target.AgeAt(ref), source.Category)
	experienceCheck := ExperienceCheck(source.BoutCount, target.BoutCount)

	var issues []Issue
	var warnings []Warning

	if source.Category != target.Category {
		issues = append(issues, Issue{
			Type:     IssueCategory,
			Severity: SeverityHigh,
			Message:  fmt.Sprintf("category mismatch: %s vs %s", source.Category, target.Category),
		})
	}
	if source.Gender != target.Gender {
		issues = append(issues, Issue{
			Type:     IssueCategory,
			Severity: SeverityHigh,
			Message:  fmt.Sprintf("gender mismatch: %s vs %s", source.Gender, target.Gender),
		})
	}
	if target.Availability != boxer.AvailabilityAvailable {
		issues = append(issues, Issue{
			Type:     IssueAvailability,
			Severity: SeverityHigh,
			Message:  fmt.Sprintf("opponent is not available (%s)", target.Availability),
		})
	}

	if !weightCheck.Passed {
		issues = append(issues, Issue{Type: IssueWeight, Severity: SeverityHigh, Message: weightCheck.Detail})
	}
	if !ageCheck.Passed {
		issues = append(issues, Issue{Type: IssueAge, Severity: SeverityHigh, Message: ageCheck.Detail})
	}
	if !experienceCheck.Passed {
		issues = append(issues, Issue{Type: IssueExperience, Severity: SeverityMedium, Message: experienceCheck.Detail})
	}

	if ageCheck.Passed && ageCheck.Difference >= 3 {
		warnings = append(warnings, Warning{
			Type:    IssueAge,
			Message: fmt.Sprintf("notable age gap of %.0f years", ageCheck.Difference),
		})
	}
	if weightCheck.Passed && weightCheck.Difference > 1 {
		warnings = append(warnings, Warning{
			Type:    IssueWeight,
			Message: fmt.Sprintf("weight gap of %.1fkg", weightCheck.Difference),
		})
	}
	if experienceCheck.Passed && experienceCheck.Difference >= 3 {
		warnings = append(warnings, Warning{
			Type:    IssueExperience,
			Message: fmt.Sprintf("experience gap of %.0f bouts", experienceCheck.Difference),
		})
	}
	if sourceRate, ok := source.WinRate(); ok && source.BoutCount >= 5 {
		if targetRate, ok := target.WinRate(); ok && target.BoutCount >= 5 {
			if gap := math.Abs(sourceRate - targetRate); gap > 30 {
				warnings = append(warnings, Warning{
					Type:    IssueExperience,
					Message: fmt.Sprintf("win rate gap of %.0f percentage points", gap),
				})
			}
		}
	}

	overall := roundScore(float64(weightCheck.Score)*weightShare +
		float64(ageCheck.Score)*ageShare +
		float64(experienceCheck.Score)*experienceShare)

	compliant := true
	for _, issue := range issues {
		if issue.Severity == SeverityHigh {
			compliant = false
			break
		}
	}

	return Result{
		IsCompliant:     compliant,
		Score:           overall,
		Issues:          issues,
		Warnings:        warnings,
		WeightCheck:     weightCheck,
		AgeCheck:        ageCheck,
		ExperienceCheck: experienceCheck,
	}
}

func roundScore(v float64) int {
	return int(math.Round(v))
}
