package address

import "fmt"

// Draft is the form's staging copy of an address. It is never sent to the
// service directly; callers submit the copy returned by Address.
type Draft struct {
	addr Address
}

// NewDraft returns an empty draft.
func NewDraft() *Draft {
	return &Draft{}
}

// DraftFrom returns a draft seeded with an existing address, id included.
func DraftFrom(a Address) *Draft {
	return &Draft{addr: a}
}

// Address returns a copy of the draft's current contents.
func (d *Draft) Address() Address {
	return d.addr
}

// Replace overwrites every field, including the id.
func (d *Draft) Replace(a Address) {
	d.addr = a
}

// Set edits one field by its JSON name.
func (d *Draft) Set(field, value string) error {
	switch field {
	case FieldName:
		d.addr.Name = value
	case FieldStreet:
		d.addr.Street = value
	case FieldCity:
		d.addr.City = value
	case FieldState:
		d.addr.State = value
	case FieldCountry:
		d.addr.Country = value
	case FieldPincode:
		d.addr.Pincode = value
	case FieldPhone:
		d.addr.Phone = value
	default:
		return fmt.Errorf("unknown address field %q", field)
	}
	return nil
}

// Reset clears the draft back to the empty template.
func (d *Draft) Reset() {
	d.addr = Address{}
}
