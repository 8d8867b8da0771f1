package usecase

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/agentflow/agentflow-api/internal/apperror"
)

type ValidationError struct {
	Field   string `json:"path"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationAppError folds field errors into the uniform VALIDATION_ERROR
// shape, with per-field path/message pairs under details.
func ValidationAppError(errs []ValidationError) *apperror.AppError {
	fields := make([]map[string]any, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, map[string]any{"path": e.Field, "message": e.Message})
	}
	return apperror.Validation("request validation failed").
		WithDetails(map[string]any{"fields": fields})
}

var (
	emailRegex    = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)
	nonDigitRegex = regexp.MustCompile(`\D`)
)

// SanitizeString HTML-escapes the characters that matter for injection into
// markup: < > " ' /. Pure function.
func SanitizeString(s string) string {
	replacer := strings.NewReplacer(
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#x27;",
		"/", "&#x2F;",
	)
	return replacer.Replace(s)
}

// ValidateEmail returns the trimmed, lower-cased, sanitized address, or ""
// when it fails a conservative RFC-like shape.
func ValidateEmail(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if !emailRegex.MatchString(normalized) {
		return ""
	}
	return SanitizeString(normalized)
}

// ValidatePhone strips everything but digits and requires 10-15 of them,
// returning the digits-only form or "".
func ValidatePhone(phone string) string {
	digits := nonDigitRegex.ReplaceAllString(phone, "")
	if len(digits) < 10 || len(digits) > 15 {
		return ""
	}
	return digits
}

func ValidateCreateLeadInput(input CreateLeadInput) []ValidationError {
	var errs []ValidationError

	if strings.TrimSpace(input.Name) == "" {
		errs = append(errs, ValidationError{"name", "is required"})
	} else if len(input.Name) > 200 {
		errs = append(errs, ValidationError{"name", "must not exceed 200 characters"})
	}

	if strings.TrimSpace(input.Email) == "" {
		errs = append(errs, ValidationError{"email", "is required"})
	} else if ValidateEmail(input.Email) == "" {
		errs = append(errs, ValidationError{"email", "is invalid"})
	}

	if input.Phone != "" && ValidatePhone(input.Phone) == "" {
		errs = append(errs, ValidationError{"phone", "must have 10-15 digits"})
	}

	if len(input.Message) > 5000 {
		errs = append(errs, ValidationError{"message", "must not exceed 5000 characters"})
	}

	return errs
}

func ValidateSubscribeInput(input SubscribeInput) []ValidationError {
	var errs []ValidationError

	if strings.TrimSpace(input.Email) == "" {
		errs = append(errs, ValidationError{"email", "is required"})
	} else if ValidateEmail(input.Email) == "" {
		errs = append(errs, ValidationError{"email", "is invalid"})
	}

	return errs
}

func ValidateCreateNeedInput(input CreateNeedInput) []ValidationError {
	var errs []ValidationError

	if strings.TrimSpace(input.AssessmentID) == "" {
		errs = append(errs, ValidationError{"assessment_id", "is required"})
	}
	if strings.TrimSpace(input.Description) == "" {
		errs = append(errs, ValidationError{"description", "is required"})
	}
	if strings.TrimSpace(input.Category) == "" {
		errs = append(errs, ValidationError{"category", "is required"})
	}
	if input.Priority != "" && input.Priority != "LOW" && input.Priority != "MEDIUM" && input.Priority != "HIGH" {
		errs = append(errs, ValidationError{"priority", "must be LOW, MEDIUM or HIGH"})
	}

	return errs
}
