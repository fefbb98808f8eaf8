package address

import (
	"fmt"
	"slices"
)

// Validator defines the interface for address validation.
// Implementations must be pure: they never mutate the candidate and report
// the first failing field as a *domain.FieldError.
type Validator interface {
	Validate(addr Address) error
}

// Address represents a shipping destination stored by the address service.
type Address struct {
	ID      string `json:"_id,omitempty"` // empty until the service persists it
	Name    string `json:"name"`
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
	Pincode string `json:"pincode"`
	Phone   string `json:"phone"`
}

// Persisted reports whether the service has assigned an id.
func (a Address) Persisted() bool {
	return a.ID != ""
}

// WithoutID returns a copy of the address with the id cleared.
func (a Address) WithoutID() Address {
	a.ID = ""
	return a
}

// Summary renders the single line shown under the name in the address list.
func (a Address) Summary() string {
	return fmt.Sprintf("%s, %s, %s, %s %s - %s", a.Street, a.City, a.State, a.Country, a.Pincode, a.Phone)
}

// List is an ordered collection of addresses as last returned by the service.
type List []Address

// Find returns the address with the given id.
func (l List) Find(id string) (Address, bool) {
	if id == "" {
		return Address{}, false
	}
	i := slices.IndexFunc(l, func(a Address) bool { return a.ID == id })
	if i < 0 {
		return Address{}, false
	}
	return l[i], true
}

// Clone returns a copy that shares no backing array with l.
// A nil list stays nil.
func (l List) Clone() List {
	return slices.Clone(l)
}

// SampleAddress returns a known-good address, used to prefill the form.
func SampleAddress() Address {
	return Address{
		Name:    "Aniket Saini",
		Street:  "66/6B Main Post Office",
		City:    "Roorkee",
		State:   "Uttarakhand",
		Country: "India",
		Pincode: "247667",
		Phone:   "9639060737",
	}
}
