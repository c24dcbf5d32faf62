package service

// CheckoutRequest is the storefront checkout payload
type CheckoutRequest struct {
	Customer  CustomerPayload   `json:"customer" binding:"required"`
	CartItems []CartItemPayload `json:"cartItems" binding:"required,min=1"`
}

// CartItemPayload is an untrusted cart line. Price is the client's display
// price and is never used for anything; every line is re-priced against the
// catalog.
type CartItemPayload struct {
	ID       string  `json:"id" binding:"required"`
	Type     string  `json:"type" binding:"required,oneof=product bundle subscription"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity" binding:"required,min=1"`
}

type CustomerPayload struct {
	Type            string         `json:"type" binding:"required,oneof=person company"`
	Email           string         `json:"email" binding:"required"`
	Phone           string         `json:"phone" binding:"required"`
	FirstName       string         `json:"firstName"`
	LastName        string         `json:"lastName"`
	CompanyName     string         `json:"companyName"`
	TaxID           string         `json:"cui"`
	ContactPerson   string         `json:"contactPerson"`
	DeliveryAddress AddressPayload `json:"deliveryAddress" binding:"required"`
	BillingAddress  AddressPayload `json:"billingAddress"`
	SameAddress     bool           `json:"sameAddress"`
}

// AddressPayload field presence is checked in the service rather than by
// binding tags: the billing address is legitimately empty when sameAddress
// is set.
type AddressPayload struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	County     string `json:"county"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// CheckoutResult is returned to the storefront on a successful checkout
type CheckoutResult struct {
	OrderNumber string
	PaymentURL  string
	// Message carries the mock-flow notice when the provider is unconfigured
	Message string
}
