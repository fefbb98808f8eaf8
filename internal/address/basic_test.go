package address_test

import (
	"testing"

	"github.com/dukerupert/addressbook/internal/address"
	"github.com/dukerupert/addressbook/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasicValidator_ValidAddress(t *testing.T) {
	v := address.NewBasicValidator()

	err := v.Validate(address.SampleAddress())

	assert.NoError(t, err)
}

func TestBasicValidator_SingleViolation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(a *address.Address)
		field   string
		message string
	}{
		{
			name:    "name too short",
			mutate:  func(a *address.Address) { a.Name = "Jo" },
			field:   address.FieldName,
			message: "Name must be at least 3 characters and contain only letters.",
		},
		{
			name:   "name with digits",
			mutate: func(a *address.Address) { a.Name = "Agent 007" },
			field:  address.FieldName,
		},
		{
			name:   "name with non-ASCII letters",
			mutate: func(a *address.Address) { a.Name = "José Ramírez" },
			field:  address.FieldName,
		},
		{
			name:    "street too short",
			mutate:  func(a *address.Address) { a.Street = "66/6" },
			field:   address.FieldStreet,
			message: "Street must be at least 5 characters long.",
		},
		{
			name:   "city with punctuation",
			mutate: func(a *address.Address) { a.City = "St. Louis" },
			field:  address.FieldCity,
		},
		{
			name:   "state too short",
			mutate: func(a *address.Address) { a.State = "UK" },
			field:  address.FieldState,
		},
		{
			name:    "country empty",
			mutate:  func(a *address.Address) { a.Country = "" },
			field:   address.FieldCountry,
			message: "Country must contain only letters and be at least 3 characters.",
		},
		{
			name:    "pincode five digits",
			mutate:  func(a *address.Address) { a.Pincode = "24766" },
			field:   address.FieldPincode,
			message: "Pincode must be exactly 6 digits.",
		},
		{
			name:   "pincode seven digits",
			mutate: func(a *address.Address) { a.Pincode = "2476670" },
			field:  address.FieldPincode,
		},
		{
			name:   "pincode with letters",
			mutate: func(a *address.Address) { a.Pincode = "24766A" },
			field:  address.FieldPincode,
		},
		{
			name:    "phone too short",
			mutate:  func(a *address.Address) { a.Phone = "963906073" },
			field:   address.FieldPhone,
			message: "Phone number must be 10 digits.",
		},
		{
			name:   "phone with plus sign",
			mutate: func(a *address.Address) { a.Phone = "+919639060737" },
			field:  address.FieldPhone,
		},
	}

	v := address.NewBasicValidator()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidate := address.SampleAddress()
			tt.mutate(&candidate)

			err := v.Validate(candidate)

			require.Error(t, err)
			var fe *domain.FieldError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.field, fe.Field)
			if tt.message != "" {
				assert.Equal(t, tt.message, fe.Message)
			}
		})
	}
}

func TestBasicValidator_AcceptsSeparators(t *testing.T) {
	v := address.NewBasicValidator()

	candidate := address.SampleAddress()
	candidate.Phone = "963-906-0737"
	candidate.Name = "Mary Ann  Smith"

	assert.NoError(t, v.Validate(candidate))
}

func TestBasicValidator_FirstViolationWins(t *testing.T) {
	v := address.NewBasicValidator()

	candidate := address.SampleAddress()
	candidate.Phone = "1"
	candidate.Pincode = "1"
	candidate.City = "X"

	err := v.Validate(candidate)

	assert.Equal(t, address.FieldCity, domain.FieldOf(err))
}

func TestBasicValidator_EmptyAddressFailsOnName(t *testing.T) {
	v := address.NewBasicValidator()

	err := v.Validate(address.Address{})

	assert.Equal(t, address.FieldName, domain.FieldOf(err))
	assert.True(t, domain.IsCode(err, domain.EINVALID))
}

func TestBasicValidator_EveryFieldRejectsEmpty(t *testing.T) {
	v := address.NewBasicValidator()
	order := address.CheckOrder()

	for _, field := range order {
		d := address.DraftFrom(address.SampleAddress())
		require.NoError(t, d.Set(field, ""))

		err := v.Validate(d.Address())

		assert.Equal(t, field, domain.FieldOf(err), "blank %s", field)
	}
}

func TestBasicValidator_DoesNotMutate(t *testing.T) {
	v := address.NewBasicValidator()
	candidate := address.Address{ID: "a1", Name: "Jo"}
	before := candidate

	_ = v.Validate(candidate)

	assert.Equal(t, before, candidate)
}

func TestCheckOrder(t *testing.T) {
	assert.Equal(t,
		[]string{"name", "street", "city", "state", "country", "pincode", "phone"},
		address.CheckOrder(),
	)
}
