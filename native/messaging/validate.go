package messaging

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

const (
	// MaxSubjectLength bounds the subject carried in the send record.
	MaxSubjectLength = 256
	// MaxBodyLength bounds the inline body carried in the send record.
	MaxBodyLength = 4096
	// MaxContentIDLength bounds prepared-content identifiers.
	MaxContentIDLength = 128
	// MaxTargetLength bounds external targets (email addresses, webhook URLs).
	MaxTargetLength = 320
)

var (
	ErrEmptySubject      = errors.New("messaging: subject cannot be empty")
	ErrSubjectTooLong    = errors.New("messaging: subject exceeds maximum length")
	ErrEmptyBody         = errors.New("messaging: body cannot be empty")
	ErrBodyTooLong       = errors.New("messaging: body exceeds maximum length")
	ErrEmptyContentID    = errors.New("messaging: content id cannot be empty")
	ErrContentIDTooLong  = errors.New("messaging: content id exceeds maximum length")
	ErrZeroRecipient     = errors.New("messaging: recipient address cannot be zero")
	ErrInvalidEmail      = errors.New("messaging: invalid email address")
	ErrInvalidWebhookURL = errors.New("messaging: invalid webhook url")
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func validateSubject(subject string) error {
	if strings.TrimSpace(subject) == "" {
		return ErrEmptySubject
	}
	if len(subject) > MaxSubjectLength {
		return ErrSubjectTooLong
	}
	return nil
}

func validateBody(body string) error {
	if body == "" {
		return ErrEmptyBody
	}
	if len(body) > MaxBodyLength {
		return ErrBodyTooLong
	}
	return nil
}

func validateContentID(contentID string) error {
	if strings.TrimSpace(contentID) == "" {
		return ErrEmptyContentID
	}
	if len(contentID) > MaxContentIDLength {
		return ErrContentIDTooLong
	}
	return nil
}

// NormalizeEmail lowercases and validates an email target.
func NormalizeEmail(email string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(email))
	if trimmed == "" || len(trimmed) > MaxTargetLength {
		return "", ErrInvalidEmail
	}
	if !emailPattern.MatchString(trimmed) {
		return "", ErrInvalidEmail
	}
	return trimmed, nil
}

// NormalizeWebhookURL validates a webhook target. Only https endpoints are
// accepted so relayed payloads never travel in the clear.
func NormalizeWebhookURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || len(trimmed) > MaxTargetLength {
		return "", ErrInvalidWebhookURL
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidWebhookURL, err)
	}
	if parsed.Scheme != "https" || parsed.Host == "" {
		return "", ErrInvalidWebhookURL
	}
	return trimmed, nil
}
