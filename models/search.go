package models

import (
	"fmt"

	"cloud.google.com/go/civil"
)

// Field names one input of the search form.
type Field int

const (
	FieldEmployeeID Field = iota
	FieldStartDate
	FieldEndDate
)

var fieldNames = map[Field]string{
	FieldEmployeeID: "employeeId",
	FieldStartDate:  "startDate",
	FieldEndDate:    "endDate",
}

func (f Field) String() string {
	if name, ok := fieldNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Field(%d)", int(f))
}

// ParseField maps a form input name to its Field.
func ParseField(name string) (Field, bool) {
	for f, n := range fieldNames {
		if n == name {
			return f, true
		}
	}
	return 0, false
}

type FieldUpdate struct {
	Field Field
	Value string
}

// SearchCriteria holds the search form as typed; dates stay raw text until
// submit time.
type SearchCriteria struct {
	EmployeeID string
	StartDate  string
	EndDate    string
}

func NewSearchCriteria(today civil.Date) SearchCriteria {
	return SearchCriteria{
		StartDate: FormatDate(today),
		EndDate:   FormatDate(today),
	}
}

// Apply overwrites the field named by u and leaves the others untouched.
func (c SearchCriteria) Apply(u FieldUpdate) SearchCriteria {
	switch u.Field {
	case FieldEmployeeID:
		c.EmployeeID = u.Value
	case FieldStartDate:
		c.StartDate = u.Value
	case FieldEndDate:
		c.EndDate = u.Value
	}
	return c
}

// DatesParse reports whether both bounds are readable calendar dates.
func (c SearchCriteria) DatesParse() bool {
	return IsValidDate(c.StartDate) && IsValidDate(c.EndDate)
}
