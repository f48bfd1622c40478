package players

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

// ValidationResult is the outcome of a single profile field check.
type ValidationResult struct {
	OK    bool
	Error string
}

func valid() ValidationResult {
	return ValidationResult{OK: true}
}

func invalid(format string, args ...any) ValidationResult {
	return ValidationResult{Error: fmt.Sprintf(format, args...)}
}

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	timeRe  = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)
)

// ValidateEmail checks that the address is present and plausibly formed.
func ValidateEmail(email string) ValidationResult {
	if strings.TrimSpace(email) == "" {
		return invalid("Email is required")
	}
	if !emailRe.MatchString(email) {
		return invalid("Please enter a valid email address")
	}
	return valid()
}

// ValidateName checks length bounds on a display name.
func ValidateName(name, fieldName string) ValidationResult {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return invalid("%s is required", fieldName)
	}
	if len(trimmed) < 2 {
		return invalid("%s must be at least 2 characters", fieldName)
	}
	if len(trimmed) > 50 {
		return invalid("%s must not exceed 50 characters", fieldName)
	}
	return valid()
}

// ValidateBio allows an empty bio but caps its length.
func ValidateBio(bio string) ValidationResult {
	if len(bio) > 500 {
		return invalid("Bio must not exceed 500 characters")
	}
	return valid()
}

// ValidateNTRPRating checks the self-assessed NTRP rating: 1.0-7.0 in 0.5 steps.
func ValidateNTRPRating(rating float64) ValidationResult {
	if rating < 1.0 || rating > 7.0 {
		return invalid("NTRP rating must be between 1.0 and 7.0")
	}
	if math.Mod(rating*10, 5) != 0 {
		return invalid("NTRP rating must be in 0.5 increments (e.g., 3.5, 4.0)")
	}
	return valid()
}

// ValidateClockTime checks an HH:MM wall-clock string.
func ValidateClockTime(t string) ValidationResult {
	if t == "" {
		return invalid("Time is required")
	}
	if !timeRe.MatchString(t) {
		return invalid("Please enter a valid time (HH:MM format)")
	}
	return valid()
}

// ValidatePlayStyle checks the tag against the known styles.
func ValidatePlayStyle(style string) ValidationResult {
	switch PlayStyle(strings.ToLower(style)) {
	case StyleAggressive, StyleDefensive, StyleAllCourt, StyleServeAndVolley, StyleBaseline:
		return valid()
	}
	return invalid("Please select a valid playing style")
}

// ValidateSurface checks a playable surface name (the "any" preference is not a surface).
func ValidateSurface(surface string) ValidationResult {
	switch Surface(strings.ToLower(surface)) {
	case SurfaceHard, SurfaceClay, SurfaceGrass, SurfaceCarpet:
		return valid()
	}
	return invalid("Please select a valid surface type")
}

// ValidateProfile runs every applicable check on a player profile and
// returns field-keyed error messages; an empty map means the profile is valid.
func ValidateProfile(p *Player) map[string]string {
	errors := make(map[string]string)

	if r := ValidateName(p.Name, "Name"); !r.OK {
		errors["name"] = r.Error
	}
	if r := ValidateEmail(p.Email); !r.OK {
		errors["email"] = r.Error
	}
	if r := ValidateBio(p.Bio); !r.OK {
		errors["bio"] = r.Error
	}
	if p.SkillLevel.Index() < 0 {
		errors["skill_level"] = "Please select a valid skill level"
	}
	if p.PlayStyle != "" {
		if r := ValidatePlayStyle(string(p.PlayStyle)); !r.OK {
			errors["play_style"] = r.Error
		}
	}
	if p.PreferredSurface != "" && p.PreferredSurface != SurfaceAny {
		if r := ValidateSurface(string(p.PreferredSurface)); !r.OK {
			errors["preferred_surface"] = r.Error
		}
	}

	return errors
}
