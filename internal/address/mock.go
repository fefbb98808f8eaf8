package address

// MockValidator is a test implementation of Validator.
type MockValidator struct {
	ValidateFunc func(addr Address) error
	Calls        []Address
}

// NewMockValidator creates a mock validator that accepts every address.
func NewMockValidator() *MockValidator {
	return &MockValidator{}
}

// Validate records the call and delegates to the configured function.
func (m *MockValidator) Validate(addr Address) error {
	m.Calls = append(m.Calls, addr)
	if m.ValidateFunc != nil {
		return m.ValidateFunc(addr)
	}
	return nil
}
