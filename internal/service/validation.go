package service

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/donghyeon639/SYU-Spring-web/internal/domain"
)

const (
	minPasswordLen = 6
	maxPasswordLen = 16
	specialChars   = "!@#$%^&*()-_=+[]{}|;:'\",.<>?/`~"
)

// Warning messages shared by the post form and its validators.
const (
	msgTitleRequired   = "title is required"
	msgContentRequired = "content is required"
	msgMeetingTime     = "meeting start must not be after meeting end"
	msgLimitCount      = "limit must be at least 1"
)

func containsControl(s string) bool {
	for _, r := range s {
		if unicode.IsControl(r) {
			return true
		}
	}
	return false
}

func containsSpecial(s string) bool {
	return strings.ContainsAny(s, specialChars)
}

func validPasswordLength(s string) bool {
	n := utf8.RuneCountInString(s)
	return n >= minPasswordLen && n <= maxPasswordLen
}

func validateLoginID(id string) error {
	switch {
	case id == "":
		return domain.Invalid("login id is required")
	case strings.Contains(id, " "):
		return domain.Invalid("login id must not contain spaces")
	case containsControl(id):
		return domain.Invalid("login id must not contain control characters")
	}
	return nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// ValidateMeetingTime returns a warning when start is after end, or "".
func ValidateMeetingTime(start, end *time.Time) string {
	if start != nil && end != nil && start.After(*end) {
		return msgMeetingTime
	}
	return ""
}

// ValidateLimitCount returns a warning for limits below one, or "".
func ValidateLimitCount(n int) string {
	if n < 1 {
		return msgLimitCount
	}
	return ""
}

func validatePostInput(in domain.PostInput) error {
	if isBlank(in.Title) {
		return domain.Invalid(msgTitleRequired)
	}
	if isBlank(in.Content) {
		return domain.Invalid(msgContentRequired)
	}
	if msg := ValidateMeetingTime(in.MeetingStartTime, in.MeetingEndTime); msg != "" {
		return domain.Invalid("%s", msg)
	}
	if in.LimitCount != nil {
		if msg := ValidateLimitCount(*in.LimitCount); msg != "" {
			return domain.Invalid("%s", msg)
		}
	}
	return nil
}
