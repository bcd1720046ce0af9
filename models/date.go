package models

import (
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

var ErrInvalidDate = errors.New("invalid calendar date")

// Slash, dash and dot forms without a leading year are read day-first.
var dateLayouts = []string{
	"2006-1-2",
	"2006/1/2",
	"20060102",
	"2/1/2006",
	"2-1-2006",
	"2.1.2006",
}

var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// ParseDate reads a calendar date typed into a form field.
func ParseDate(value string) (civil.Date, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return civil.Date{}, ErrInvalidDate
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return civil.DateOf(t), nil
		}
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return civil.DateOf(t), nil
		}
	}
	return civil.Date{}, ErrInvalidDate
}

// IsValidDate reports whether ParseDate would accept value.
func IsValidDate(value string) bool {
	_, err := ParseDate(value)
	return err == nil
}

// FormatDate renders d as YYYY-MM-DD.
func FormatDate(d civil.Date) string {
	return d.String()
}

func Today(loc *time.Location) civil.Date {
	if loc == nil {
		loc = time.Local
	}
	return civil.DateOf(time.Now().In(loc))
}
