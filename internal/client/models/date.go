package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	isoDateLayout = "2006-01-02"
	brDateLayout  = "02/01/2006"
)

// Date is a calendar date without time of day or zone. It travels on the
// wire as "YYYY-MM-DD"; the zero Date marshals as null.
type Date struct {
	t time.Time
}

// NewDate builds a Date from its parts.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date in t's own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate accepts "DD/MM/YYYY" (as typed by users) or "YYYY-MM-DD".
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{brDateLayout, isoDateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return Date{t: t}, nil
		}
	}
	return Date{}, fmt.Errorf("invalid date %q: expected DD/MM/YYYY or YYYY-MM-DD", s)
}

func (d Date) IsZero() bool { return d.t.IsZero() }

// Time returns midnight UTC of the date.
func (d Date) Time() time.Time { return d.t }

func (d Date) Before(o Date) bool { return d.t.Before(o.t) }
func (d Date) After(o Date) bool  { return d.t.After(o.t) }
func (d Date) Equal(o Date) bool  { return d.t.Equal(o.t) }

// String renders the ISO form used by the API.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(isoDateLayout)
}

// FormatBR renders the date as DD/MM/YYYY.
func (d Date) FormatBR() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(brDateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	// Some servers send full timestamps for date columns.
	if n := len(isoDateLayout); len(s) > n && (s[n] == 'T' || s[n] == ' ') {
		s = s[:n]
	}
	t, err := time.Parse(isoDateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", s, err)
	}
	d.t = t
	return nil
}
