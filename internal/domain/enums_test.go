package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaymentStatusRank(t *testing.T) {
	assert.Equal(t, 0, PaymentStatusPending.Rank())
	assert.Equal(t, 1, PaymentStatusFailed.Rank())
	assert.Equal(t, 1, PaymentStatusCancelled.Rank())
	assert.Equal(t, 2, PaymentStatusPaid.Rank())
}

func TestPaymentStatusOverwrites(t *testing.T) {
	tests := []struct {
		next    PaymentStatus
		current PaymentStatus
		want    bool
	}{
		{PaymentStatusPaid, PaymentStatusPending, true},
		{PaymentStatusPaid, PaymentStatusFailed, true},
		{PaymentStatusPaid, PaymentStatusPaid, true},
		{PaymentStatusPending, PaymentStatusPaid, false},
		{PaymentStatusPending, PaymentStatusFailed, false},
		{PaymentStatusPending, PaymentStatusPending, true},
		{PaymentStatusFailed, PaymentStatusPaid, false},
		{PaymentStatusFailed, PaymentStatusCancelled, true},
		{PaymentStatusCancelled, PaymentStatusPending, true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.next.Overwrites(tt.current),
			"%s over %s", tt.next, tt.current)
	}
}

func TestOverwritablePaymentStatuses(t *testing.T) {
	assert.ElementsMatch(t,
		[]PaymentStatus{PaymentStatusPending},
		OverwritablePaymentStatuses(PaymentStatusPending),
	)
	assert.ElementsMatch(t,
		[]PaymentStatus{PaymentStatusPending, PaymentStatusFailed, PaymentStatusCancelled},
		OverwritablePaymentStatuses(PaymentStatusFailed),
	)
	assert.ElementsMatch(t,
		[]PaymentStatus{PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusCancelled},
		OverwritablePaymentStatuses(PaymentStatusPaid),
	)
}

func TestCustomerDisplayName(t *testing.T) {
	person := Customer{
		Type:   CustomerTypePerson,
		Person: &PersonDetails{FirstName: "Ana", LastName: "Popescu"},
	}
	name, err := person.DisplayName()
	assert.NoError(t, err)
	assert.Equal(t, "Ana Popescu", name)

	company := Customer{
		Type:    CustomerTypeCompany,
		Company: &CompanyDetails{CompanyName: "Necstaz SRL", TaxID: "RO123456"},
	}
	name, err = company.DisplayName()
	assert.NoError(t, err)
	assert.Equal(t, "Necstaz SRL", name)

	_, err = Customer{Type: "robot"}.DisplayName()
	assert.Error(t, err)

	_, err = Customer{Type: CustomerTypePerson}.DisplayName()
	assert.Error(t, err)
}
