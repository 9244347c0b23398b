package kernel

import "ordering/internal/pkg/errs"

// User is a value object identifying the account on whose behalf an
// operation is performed. Orders are owned by the user that submitted
// them and most operations check ownership before touching an order.
//
// User carries no credentials. Authentication happens at the transport
// boundary; by the time a User reaches the domain it is already trusted.
type User struct {
	id    UUID
	name  string
	email string
}

// NewUser creates a User.
//
// Parameters:
//   - id: unique identifier of the account
//   - name: account name, used when rendering item download locations
//   - email: address notifications are sent to, may be empty
//
// Errors:
//   - errs.ValueIsRequiredError: if id is a zero value or name is empty
func NewUser(id UUID, name string, email string) (User, error) {
	if err := id.Validate(); err != nil {
		return User{}, errs.NewValueIsRequiredError("id")
	}
	if name == "" {
		return User{}, errs.NewValueIsRequiredError("name")
	}
	return User{
		id:    id,
		name:  name,
		email: email,
	}, nil
}

// ID returns the account identifier.
func (u User) ID() UUID {
	return u.id
}

// Name returns the account name.
func (u User) Name() string {
	return u.name
}

// Email returns the notification address, which may be empty.
func (u User) Email() string {
	return u.email
}

// IsEqual reports whether two users identify the same account.
func (u User) IsEqual(other User) bool {
	return u.id.IsEqual(other.id)
}

// Validate checks that the User was created via NewUser.
func (u User) Validate() error {
	return u.id.Validate()
}
