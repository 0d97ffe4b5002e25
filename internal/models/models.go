// Package models defines the data structures used across the application.
package models

import "github.com/google/uuid"

// Submission is a validated contact form entry. Values are already trimmed.
type Submission struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Message string  `json:"message"`
	Phone   *string `json:"phone"`
}

// PhoneOr returns the phone number, or fallback when none was given
func (s *Submission) PhoneOr(fallback string) string {
	if s.Phone == nil || *s.Phone == "" {
		return fallback
	}
	return *s.Phone
}

// EnrichedSubmission is a Submission plus request metadata
type EnrichedSubmission struct {
	Submission
	ID        uuid.UUID `json:"id"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"userAgent"`
	Timestamp string    `json:"timestamp"`
}

// SheetRow returns the seven ledger cells in header order
func (s *EnrichedSubmission) SheetRow() []interface{} {
	return []interface{}{
		s.Timestamp,
		s.Name,
		s.Email,
		s.PhoneOr(""),
		s.Message,
		s.IP,
		s.UserAgent,
	}
}

// FieldError describes one invalid field of a submission
type FieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// SuccessResponse is returned when a submission was delivered
type SuccessResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// ErrorResponse carries a generic, client-safe failure message
type ErrorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// ValidationErrorResponse lists every invalid field
type ValidationErrorResponse struct {
	OK     bool         `json:"ok"`
	Errors []FieldError `json:"errors"`
}

// HealthStatus represents the server health check response
type HealthStatus struct {
	OK      bool   `json:"ok"`
	Service string `json:"service"`
	Status  string `json:"status"`
}
