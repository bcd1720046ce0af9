package models

import (
	"bytes"
	"encoding/json"
	"time"

	"cloud.google.com/go/civil"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Requester is the employee who logged a debt entry.
type Requester struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	OtherNames string `json:"otherNames"`
}

// Responsible is the employee held accountable for the amount.
type Responsible struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type DebtRecord struct {
	Requester   Requester       `json:"requester"`
	DebtDate    *Instant        `json:"debtDate"`
	DebtAmount  decimal.Decimal `json:"debtAmount"`
	Details     string          `json:"details"`
	Responsible Responsible     `json:"responsible"`
}

// DateIn returns the acquisition date as seen in loc.
func (d DebtRecord) DateIn(loc *time.Location) (civil.Date, bool) {
	if d.DebtDate == nil || d.DebtDate.IsZero() {
		return civil.Date{}, false
	}
	return d.DebtDate.DateIn(loc), true
}

// TotalDebt sums DebtAmount over records.
func TotalDebt(records []DebtRecord) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.DebtAmount)
	}
	return total
}

// Instant is a point in time sent by the API as a bare date, an RFC 3339
// timestamp or a timestamp without zone. The last two forms without a zone
// are wall-clock values and keep their calendar date in every location.
type Instant struct {
	time.Time
	zoneless bool
}

// zonelessLayouts are the timestamp forms read as local wall time.
var zonelessLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
}

func NewDateInstant(d civil.Date) *Instant {
	return &Instant{Time: d.In(time.UTC), zoneless: true}
}

func (i *Instant) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*i = Instant{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*i = Instant{}
		return nil
	}
	if d, err := civil.ParseDate(s); err == nil {
		*i = Instant{Time: d.In(time.UTC), zoneless: true}
		return nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		*i = Instant{Time: t}
		return nil
	}
	for _, layout := range zonelessLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			*i = Instant{Time: t, zoneless: true}
			return nil
		}
	}
	return errors.Errorf("unrecognised timestamp %q", s)
}

// DateIn converts zoned timestamps to loc; zoneless values keep their date.
func (i Instant) DateIn(loc *time.Location) civil.Date {
	if i.zoneless || loc == nil {
		return civil.DateOf(i.Time)
	}
	return civil.DateOf(i.Time.In(loc))
}
