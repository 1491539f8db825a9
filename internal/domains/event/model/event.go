package model

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ZeroDate is the sentinel both date columns default to. Dates are kept in
// their storage format end to end; ordering by date_start works on the string
// because the format is fixed-width.
const ZeroDate = "0000-00-00 00:00:00"

const (
	DefaultType = "event"

	StatusPublish = "publish"
	StatusDraft   = "draft"
)

// DefaultTypes are the built-in event types. The set is open: extensions
// register more through the translation type registry.
var DefaultTypes = []string{"event", "conference", "seminar", "other", "unknown"}

// Event is one row of the events table.
type Event struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	DateStart   string `json:"date_start"`
	DateEnd     string `json:"date_end"`
	Type        string `json:"type"`
	Status      string `json:"status"`
	Slug        string `json:"slug"`
	Author      int64  `json:"author"`
}

// CreateEventParams is the partial field set accepted on creation. Unknown
// JSON keys are dropped by decoding, which gives the extra-key safety the
// constructor needs.
type CreateEventParams struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DateStart   string `json:"date_start"`
	DateEnd     string `json:"date_end"`
	Type        string `json:"type"`
	Status      string `json:"status"`
	Slug        string `json:"slug"`
	Author      int64  `json:"author"`
}

// ApplyDefaults merges the params over the entity defaults. Type and status
// are always non-empty afterwards.
func (p *CreateEventParams) ApplyDefaults() {
	if p.DateStart == "" {
		p.DateStart = ZeroDate
	}
	if p.DateEnd == "" {
		p.DateEnd = ZeroDate
	}
	if p.Type == "" {
		p.Type = DefaultType
	}
	if p.Status == "" {
		p.Status = StatusPublish
	}
}

// datePattern matches the storage format, zero date included. Start/end
// ordering is deliberately not checked.
var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}$`)

// Validate checks the params after defaults were applied.
func (p CreateEventParams) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Type, validation.Required),
		validation.Field(&p.Status, validation.Required, validation.In(StatusPublish, StatusDraft)),
		validation.Field(&p.DateStart, validation.Required, validation.Match(datePattern)),
		validation.Field(&p.DateEnd, validation.Required, validation.Match(datePattern)),
		validation.Field(&p.Author, validation.Min(int64(0))),
	)
}
