package validator

import (
	"errors"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"media-gallery-api/internal/domain/media"
	"media-gallery-api/internal/interface/api/rest/dto/auth"
	"media-gallery-api/internal/interface/api/rest/dto/gallery"
)

const (
	maxUsernameLen  = 64
	maxPasswordLen  = 72 // bcrypt safe
	defaultActivity = 50
	maxActivity     = 500
)

func ValidateKind(s string) (media.Kind, error) {
	return media.ParseKind(strings.ToLower(strings.TrimSpace(s)))
}

// ValidateIndex parses a position on the current page.
func ValidateIndex(s string) (int, error) {
	idx, err := strconv.Atoi(s)
	if err != nil || idx < 0 {
		return 0, errors.New("index must be a non-negative integer")
	}
	return idx, nil
}

func ValidateLimit(s string) (int, error) {
	if s == "" {
		return defaultActivity, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > maxActivity {
		return 0, errors.New("limit must be between 1 and 500")
	}
	return n, nil
}

func ValidateFilter(r gallery.FilterRequest) map[string]string {
	errs := make(map[string]string)

	if d := strings.TrimSpace(r.StartDate); d != "" {
		if _, err := time.Parse(media.DateLayout, d); err != nil {
			errs["start_date"] = "must be YYYY-MM-DD"
		}
	}
	if d := strings.TrimSpace(r.EndDate); d != "" {
		if _, err := time.Parse(media.DateLayout, d); err != nil {
			errs["end_date"] = "must be YYYY-MM-DD"
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func ValidateSignIn(r auth.SignInRequest) map[string]string {
	errs := make(map[string]string)

	username := strings.TrimSpace(r.Username)
	if username == "" {
		errs["username"] = "username is required"
	} else if utf8.RuneCountInString(username) > maxUsernameLen {
		errs["username"] = "username must be at most 64 characters"
	}

	// the password is never trimmed
	if strings.TrimSpace(r.Password) == "" {
		errs["password"] = "password is required"
	} else if len(r.Password) > maxPasswordLen {
		errs["password"] = "password must be at most 72 bytes"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
