package models

import (
	"bytes"
	"encoding/json"
	"strings"
)

// EmployeeID is kept as text; the API emits it either as a string or a number.
type EmployeeID string

func (id *EmployeeID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = EmployeeID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = EmployeeID(n.String())
	return nil
}

func (id EmployeeID) String() string {
	return string(id)
}

type Employee struct {
	ID        EmployeeID `json:"id"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
}

func (e Employee) DisplayName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}
