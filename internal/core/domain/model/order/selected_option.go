package order

import (
	"ordering/internal/pkg/errs"
	"ordering/internal/pkg/guard"
)

// ErrSelectedOptionNotConstructed indicates that a SelectedOption was not
// created via NewSelectedOption.
var ErrSelectedOptionNotConstructed = errs.NewValueIsRequiredError(
	"SelectedOption must be created via NewSelectedOption")

// SelectedOption is a value object holding one processing option the
// client picked, already parsed into its canonical string form.
// Options attached to an order apply to all of its items; options
// attached to an item specification apply to that item only.
type SelectedOption struct {
	name  string
	value string

	guard guard.ConstructorGuard
}

// NewSelectedOption creates a SelectedOption.
//
// Errors:
//   - errs.ValueIsRequiredError: if name is empty
func NewSelectedOption(name string, value string) (SelectedOption, error) {
	if name == "" {
		return SelectedOption{}, errs.NewValueIsRequiredError("name")
	}
	return SelectedOption{
		name:  name,
		value: value,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Name returns the option name.
func (o SelectedOption) Name() string {
	return o.name
}

// Value returns the canonical option value.
func (o SelectedOption) Value() string {
	return o.value
}

// Validate checks that the SelectedOption was created via its constructor.
func (o SelectedOption) Validate() error {
	return o.guard.Validate(ErrSelectedOptionNotConstructed)
}

// FindOption returns the value of the named option in a slice of
// selected options, or false when it is absent.
func FindOption(options []SelectedOption, name string) (string, bool) {
	for _, o := range options {
		if o.name == name {
			return o.value, true
		}
	}
	return "", false
}
