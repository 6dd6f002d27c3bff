package calibration

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ParseError reports a distance string that could not be understood. The
// input is never silently coerced into a guessed value.
type ParseError struct {
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unrecognized distance format: %q", e.Input)
}

var (
	// 11'4", 11' 4", 11'4, 11'
	feetInchesQuoted = regexp.MustCompile(`^(\d+(?:\.\d+)?)'\s*(?:(\d+(?:\.\d+)?)"?)?$`)
	// 11-4, 11 4
	feetInchesSeparated = regexp.MustCompile(`^(\d+(?:\.\d+)?)[-\s](\d+(?:\.\d+)?)$`)
)

// ParseDistance converts a user-entered distance string into feet. Accepted
// forms: a plain decimal ("11.33"), feet and inches with a foot mark
// ("11'4\"", "11' 4\""), and feet and inches separated by a dash or space
// ("11-4", "11 4"). Inches contribute value/12. Anything else yields a
// *ParseError.
func ParseDistance(text string) (float64, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0, &ParseError{Input: text}
	}

	// ParseFloat also accepts "NaN" and "Inf", which are not distances.
	if value, err := strconv.ParseFloat(trimmed, 64); err == nil {
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return 0, &ParseError{Input: text}
		}
		return value, nil
	}

	if m := feetInchesQuoted.FindStringSubmatch(trimmed); m != nil {
		return feetAndInches(m[1], m[2], text)
	}

	if m := feetInchesSeparated.FindStringSubmatch(trimmed); m != nil {
		return feetAndInches(m[1], m[2], text)
	}

	return 0, &ParseError{Input: text}
}

func feetAndInches(feetPart, inchesPart, original string) (float64, error) {
	feet, err := strconv.ParseFloat(feetPart, 64)
	if err != nil {
		return 0, &ParseError{Input: original}
	}

	inches := 0.0
	if inchesPart != "" {
		inches, err = strconv.ParseFloat(inchesPart, 64)
		if err != nil {
			return 0, &ParseError{Input: original}
		}
	}

	return feet + inches/12, nil
}
