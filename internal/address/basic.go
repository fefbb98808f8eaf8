package address

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/dukerupert/addressbook/internal/domain"
)

// Field names, in the order BasicValidator checks them.
const (
	FieldName    = "name"
	FieldStreet  = "street"
	FieldCity    = "city"
	FieldState   = "state"
	FieldCountry = "country"
	FieldPincode = "pincode"
	FieldPhone   = "phone"
)

// Letter-only rules accept ASCII letters only; names with accents or
// non-Latin scripts are rejected.
var (
	lettersRe = regexp.MustCompile(`^[a-zA-Z\s]{3,}$`)
	streetRe  = regexp.MustCompile(`^.{5,}$`)
	pincodeRe = regexp.MustCompile(`^\d{6}$`)
	phoneRe   = regexp.MustCompile(`^[0-9\-]{10,}$`)
)

type fieldRule struct {
	field string
	value func(Address) string
	rules []validation.Rule
}

func pattern(re *regexp.Regexp, message string) []validation.Rule {
	// Match skips empty values, so Required carries the same message.
	return []validation.Rule{
		validation.Required.Error(message),
		validation.Match(re).Error(message),
	}
}

var fieldRules = []fieldRule{
	{FieldName, func(a Address) string { return a.Name },
		pattern(lettersRe, "Name must be at least 3 characters and contain only letters.")},
	{FieldStreet, func(a Address) string { return a.Street },
		pattern(streetRe, "Street must be at least 5 characters long.")},
	{FieldCity, func(a Address) string { return a.City },
		pattern(lettersRe, "City must contain only letters and be at least 3 characters.")},
	{FieldState, func(a Address) string { return a.State },
		pattern(lettersRe, "State must contain only letters and be at least 3 characters.")},
	{FieldCountry, func(a Address) string { return a.Country },
		pattern(lettersRe, "Country must contain only letters and be at least 3 characters.")},
	{FieldPincode, func(a Address) string { return a.Pincode },
		pattern(pincodeRe, "Pincode must be exactly 6 digits.")},
	{FieldPhone, func(a Address) string { return a.Phone },
		pattern(phoneRe, "Phone number must be 10 digits.")},
}

// BasicValidator performs format validation without external API calls.
// Fields are checked in a fixed order and the first failure is returned.
type BasicValidator struct{}

// NewBasicValidator creates a new basic address validator.
func NewBasicValidator() *BasicValidator {
	return &BasicValidator{}
}

// Validate returns nil when every field satisfies its rule, or a
// *domain.FieldError naming the earliest failing field.
func (v *BasicValidator) Validate(addr Address) error {
	for _, fr := range fieldRules {
		if err := validation.Validate(fr.value(addr), fr.rules...); err != nil {
			return domain.NewFieldError("address.validate", fr.field, err.Error())
		}
	}
	return nil
}

// CheckOrder returns the field names in validation order.
func CheckOrder() []string {
	out := make([]string, len(fieldRules))
	for i, fr := range fieldRules {
		out[i] = fr.field
	}
	return out
}
