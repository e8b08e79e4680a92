// Package validation holds the stateless field and step checks used by the
// post wizard. Every function is pure and cheap enough to run per keystroke.
package validation

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/debemdeboas/blog-wizard/internal/model"
)

const (
	MsgRequired        = "This field is required"
	MsgTitleTooShort   = "Title must be at least 3 characters long"
	MsgTitleTooLong    = "Title must be less than 100 characters long"
	MsgAuthorTooShort  = "Author name must be at least 2 characters long"
	MsgAuthorTooLong   = "Author name must be less than 50 characters long"
	MsgSummaryTooShort = "Summary must be at least 10 characters long"
	MsgSummaryTooLong  = "Summary must be less than 300 characters long"
	MsgContentTooShort = "Content must be at least 50 characters long"
	MsgInvalidCategory = "Please select a valid category"
)

const (
	TitleMinLength   = 3
	TitleMaxLength   = 100
	AuthorMinLength  = 2
	AuthorMaxLength  = 50
	SummaryMinLength = 10
	SummaryMaxLength = 300
	ContentMinLength = 50
)

// lengthRule checks a trimmed value against inclusive bounds. A max of 0
// means unbounded.
type lengthRule struct {
	min, max          int
	tooShort, tooLong string
}

func (r lengthRule) check(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return MsgRequired
	}

	n := utf8.RuneCountInString(trimmed)
	if n < r.min {
		return r.tooShort
	}
	if r.max > 0 && n > r.max {
		return r.tooLong
	}
	return ""
}

var (
	titleRule   = lengthRule{TitleMinLength, TitleMaxLength, MsgTitleTooShort, MsgTitleTooLong}
	authorRule  = lengthRule{AuthorMinLength, AuthorMaxLength, MsgAuthorTooShort, MsgAuthorTooLong}
	summaryRule = lengthRule{SummaryMinLength, SummaryMaxLength, MsgSummaryTooShort, MsgSummaryTooLong}
	contentRule = lengthRule{min: ContentMinLength, tooShort: MsgContentTooShort}
)

func ValidateTitle(title string) string     { return titleRule.check(title) }
func ValidateAuthor(author string) string   { return authorRule.check(author) }
func ValidateSummary(summary string) string { return summaryRule.check(summary) }
func ValidateContent(content string) string { return contentRule.check(content) }

// ValidateCategory distinguishes a missing category from one outside the
// closed set.
func ValidateCategory(category string) string {
	_, err := model.ParseCategory(category)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, model.ErrCategoryRequired):
		return MsgRequired
	default:
		return MsgInvalidCategory
	}
}

// ValidateField returns the most specific violation for value, or "" when it
// passes. Checks run required, then too short, then too long or invalid.
func ValidateField(field model.Field, value string) string {
	switch field {
	case model.FieldTitle:
		return ValidateTitle(value)
	case model.FieldAuthor:
		return ValidateAuthor(value)
	case model.FieldSummary:
		return ValidateSummary(value)
	case model.FieldCategory:
		return ValidateCategory(value)
	case model.FieldContent:
		return ValidateContent(value)
	}
	return ""
}

var stepFields = map[model.StepID][]model.Field{
	model.StepMetadata: {model.FieldTitle, model.FieldAuthor},
	model.StepSummary:  {model.FieldSummary, model.FieldCategory},
	model.StepContent:  {model.FieldContent},
	model.StepReview:   model.Fields,
}

// StepFields returns the fields owned by step. The review step owns no
// fields of its own and reports all of them. Unknown steps own nothing.
func StepFields(step model.StepID) []model.Field {
	fields := stepFields[step]
	out := make([]model.Field, len(fields))
	copy(out, fields)
	return out
}

// ValidateStep reports whether every field owned by step passes. The review
// step is valid only when steps 1 through 3 are.
func ValidateStep(step model.StepID, d model.Draft) bool {
	if step == model.StepReview {
		return ValidateStep(model.StepMetadata, d) &&
			ValidateStep(model.StepSummary, d) &&
			ValidateStep(model.StepContent, d)
	}

	fields, ok := stepFields[step]
	if !ok {
		return false
	}
	for _, f := range fields {
		if ValidateField(f, d.Value(f)) != "" {
			return false
		}
	}
	return true
}

// AllErrors validates every field unconditionally. Passing fields are absent
// from the result.
func AllErrors(d model.Draft) map[model.Field]string {
	errs := make(map[model.Field]string)
	for _, f := range model.Fields {
		if msg := ValidateField(f, d.Value(f)); msg != "" {
			errs[f] = msg
		}
	}
	return errs
}
