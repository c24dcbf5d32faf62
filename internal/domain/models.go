package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Address is a delivery or billing address
type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	County     string `json:"county"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// PersonDetails holds the person-specific customer fields
type PersonDetails struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// CompanyDetails holds the company-specific customer fields
type CompanyDetails struct {
	CompanyName   string `json:"companyName"`
	TaxID         string `json:"cui"`
	ContactPerson string `json:"contactPerson"`
}

// Customer is a tagged union over person and company buyers. Exactly one of
// Person or Company is set, matching Type.
type Customer struct {
	Type    CustomerType    `json:"type"`
	Email   string          `json:"email"`
	Phone   string          `json:"phone"`
	Person  *PersonDetails  `json:"person,omitempty"`
	Company *CompanyDetails `json:"company,omitempty"`
}

// DisplayName derives the name an order is addressed to.
func (c Customer) DisplayName() (string, error) {
	switch c.Type {
	case CustomerTypePerson:
		if c.Person == nil {
			return "", fmt.Errorf("person customer missing person details")
		}
		return strings.TrimSpace(c.Person.FirstName + " " + c.Person.LastName), nil
	case CustomerTypeCompany:
		if c.Company == nil {
			return "", fmt.Errorf("company customer missing company details")
		}
		return c.Company.CompanyName, nil
	default:
		return "", fmt.Errorf("unknown customer type %q", c.Type)
	}
}

// OrderItem is a validated order line. Price always originates from the
// catalog, never from client input.
type OrderItem struct {
	ID       string   `json:"id"`
	Type     ItemType `json:"type"`
	Name     string   `json:"name"`
	Price    float64  `json:"price"`
	Quantity int      `json:"quantity"`
}

// Order represents a persisted customer order
type Order struct {
	ID               uuid.UUID
	OrderNumber      string
	Status           OrderStatus
	PaymentStatus    PaymentStatus
	Customer         Customer
	DeliveryAddress  Address
	BillingAddress   Address
	Items            []OrderItem
	Subtotal         float64
	DepositTotal     float64
	Total            float64
	PaymentReference string
	PaidAt           *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// PaymentUpdate carries the fields the reconciler may change on an order
// after a provider notification.
type PaymentUpdate struct {
	Status           OrderStatus
	PaymentStatus    PaymentStatus
	PaymentReference string
	// PaidAt is set only for paid notifications. The store keeps the first
	// value written, so duplicate paid notifications do not move it.
	PaidAt *time.Time
}
