package book

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	MinYear = 0
	MaxYear = 2100
)

const (
	msgTitleRequired  = "Title is required."
	msgAuthorRequired = "Author is required."
	msgYearRequired   = "Year is required."
	msgYearNumber     = "Year must be a number."
	msgYearRange      = "Year must be between 0 and 2100."
)

var (
	validate     = validator.New()
	yearRangeTag = fmt.Sprintf("gte=%d,lte=%d", MinYear, MaxYear)
)

// requiredText is checked field by field in declaration order, so the first
// failing field decides the message.
type requiredText struct {
	Title  string `validate:"required"`
	Author string `validate:"required"`
}

var requiredMessages = map[string]string{
	"Title":  msgTitleRequired,
	"Author": msgAuthorRequired,
}

// Validate normalizes a candidate into a Book with ID left at zero.
// Title and author are trimmed, year is coerced to an integer. The first
// failing rule is reported as a *ValidationError.
func Validate(c Candidate) (Book, error) {
	text := requiredText{
		Title:  scalarText(c.Title),
		Author: scalarText(c.Author),
	}
	if err := validate.Struct(text); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return Book{}, &ValidationError{Message: requiredMessages[fieldErrs[0].Field()]}
		}
		return Book{}, err
	}

	if c.Year == nil {
		return Book{}, &ValidationError{Message: msgYearRequired}
	}
	year, ok := parseYear(c.Year)
	if !ok {
		return Book{}, &ValidationError{Message: msgYearNumber}
	}
	if err := validate.Var(year, yearRangeTag); err != nil {
		return Book{}, &ValidationError{Message: msgYearRange}
	}

	return Book{Title: text.Title, Author: text.Author, Year: year}, nil
}

// scalarText renders a JSON scalar as trimmed text. Objects, arrays and null
// render as the empty string.
func scalarText(v any) string {
	switch v := v.(type) {
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// parseYear accepts integers, numbers with a fractional part (truncated toward
// zero) and strings holding a base-10 integer. Values too large for an int are
// clamped so they still fail the range check instead of the number check.
func parseYear(v any) (int, bool) {
	switch v := v.(type) {
	case int:
		return v, true
	case int64:
		return clampInt(float64(v)), true
	case float64:
		return truncate(v)
	case json.Number:
		if n, err := strconv.Atoi(v.String()); err == nil {
			return n, true
		}
		f, err := strconv.ParseFloat(v.String(), 64)
		if err != nil {
			return 0, false
		}
		return truncate(f)
	case string:
		s := strings.TrimSpace(v)
		n, err := strconv.Atoi(s)
		if err == nil {
			return n, true
		}
		if errors.Is(err, strconv.ErrRange) {
			if strings.HasPrefix(s, "-") {
				return math.MinInt32, true
			}
			return math.MaxInt32, true
		}
		return 0, false
	default:
		return 0, false
	}
}

func truncate(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return clampInt(math.Trunc(f)), true
}

func clampInt(f float64) int {
	switch {
	case f > math.MaxInt32:
		return math.MaxInt32
	case f < math.MinInt32:
		return math.MinInt32
	default:
		return int(f)
	}
}
