package types

import "strings"

// Address is a Brazilian-style delivery address as collected by the checkout
// form. Complement is the only optional field.
type Address struct {
	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement,omitempty"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      string `json:"zip_code"`
}

// Complete reports whether every required field is filled.
func (a Address) Complete() bool {
	required := []string{a.Street, a.Number, a.Neighborhood, a.City, a.State, a.ZipCode}
	for _, field := range required {
		if strings.TrimSpace(field) == "" {
			return false
		}
	}
	return true
}

// Empty reports whether no field is filled.
func (a Address) Empty() bool {
	return a == Address{}
}
