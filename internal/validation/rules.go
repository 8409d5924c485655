// Package validation provides declarative form validation: each
// submission is checked once against a schema of field rules,
// independent of any rendering technology.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"inkwell/internal/models"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Rule describes the constraints on a single form field.
type Rule struct {
	Field    string
	Required bool
	MinLen   int
	MaxLen   int
	Email    bool
	Pattern  *regexp.Regexp
	// Message overrides the generated error text when set.
	Message string
}

// Check evaluates the value against the rule, returning a
// human-readable problem description or "".
func (r Rule) Check(value string) string {
	if value == "" {
		if r.Required {
			return r.message("is required")
		}
		return ""
	}
	// Bounds count characters, not bytes, so multi-byte input gets the
	// full advertised length.
	length := utf8.RuneCountInString(value)
	if r.MinLen > 0 && length < r.MinLen {
		return r.message(fmt.Sprintf("must be at least %d characters", r.MinLen))
	}
	if r.MaxLen > 0 && length > r.MaxLen {
		return r.message(fmt.Sprintf("must not exceed %d characters", r.MaxLen))
	}
	if r.Email && !emailPattern.MatchString(value) {
		return r.message("must be a valid email address")
	}
	if r.Pattern != nil && !r.Pattern.MatchString(value) {
		return r.message("has an invalid format")
	}
	return ""
}

func (r Rule) message(problem string) string {
	if r.Message != "" {
		return r.Message
	}
	return fmt.Sprintf("%s %s", r.Field, problem)
}

// Validate checks every rule against the submitted values and folds
// all failures into a single ValidationError, or nil when clean.
func Validate(values map[string]string, rules []Rule) error {
	var problems []string
	for _, rule := range rules {
		if msg := rule.Check(values[rule.Field]); msg != "" {
			problems = append(problems, msg)
		}
	}
	if len(problems) > 0 {
		return models.NewValidationError(strings.Join(problems, "; "))
	}
	return nil
}

// Schemas for each form in the application.

// RegisterRules validates the registration form.
func RegisterRules() []Rule {
	return []Rule{
		{Field: "username", Required: true, MinLen: 3, MaxLen: 100},
		{Field: "email", Required: true, MaxLen: 50, Email: true},
		{Field: "password", Required: true, MinLen: 6, MaxLen: 128},
	}
}

// PostRules validates post creation and editing.
func PostRules() []Rule {
	return []Rule{
		{Field: "title", Required: true, MinLen: 3, MaxLen: 200},
		{Field: "content", Required: true, MinLen: 20},
	}
}

// CommentRules validates comment submission.
func CommentRules() []Rule {
	return []Rule{
		{Field: "content", Required: true, MinLen: 1, MaxLen: 500},
	}
}

// ProfileRules validates the account edit form.
func ProfileRules() []Rule {
	return []Rule{
		{Field: "username", Required: true, MinLen: 3, MaxLen: 100},
		{Field: "email", Required: true, MaxLen: 50, Email: true},
		{Field: "full_name", MaxLen: 150},
		{Field: "bio", MaxLen: 500},
		{Field: "website", MaxLen: 255},
		{Field: "github", MaxLen: 255},
		{Field: "twitter", MaxLen: 255},
	}
}

// ResetPasswordRules validates the new-password form.
func ResetPasswordRules() []Rule {
	return []Rule{
		{Field: "password", Required: true, MinLen: 6, MaxLen: 128},
	}
}
