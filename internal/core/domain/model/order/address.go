package order

// Address holds the delivery or invoice address attached to an order.
// Every field is optional; the value is stored and echoed back in
// status reports but never interpreted by the service.
type Address struct {
	FirstName             string
	LastName              string
	CompanyRef            string
	StreetAddress         string
	City                  string
	State                 string
	PostalCode            string
	Country               string
	PostBox               string
	TelephoneNumber       string
	FacsimileTelephoneNum string
}

// IsZero reports whether the address carries no information at all.
func (a Address) IsZero() bool {
	return a == Address{}
}
