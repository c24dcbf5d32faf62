package domain

// ItemType classifies a cart line by how its price is resolved in the catalog.
type ItemType string

const (
	ItemTypeProduct      ItemType = "product"
	ItemTypeBundle       ItemType = "bundle"
	ItemTypeSubscription ItemType = "subscription"
)

// IsValid checks if the item type is valid
func (t ItemType) IsValid() bool {
	switch t {
	case ItemTypeProduct, ItemTypeBundle, ItemTypeSubscription:
		return true
	default:
		return false
	}
}

// CustomerType discriminates the customer union
type CustomerType string

const (
	CustomerTypePerson  CustomerType = "person"
	CustomerTypeCompany CustomerType = "company"
)

// IsValid checks if the customer type is valid
func (t CustomerType) IsValid() bool {
	return t == CustomerTypePerson || t == CustomerTypeCompany
}

// OrderStatus represents the fulfilment status of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// PaymentStatus represents the payment status reported by the provider
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

// IsValid checks if the payment status is valid
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusCancelled:
		return true
	default:
		return false
	}
}

// Rank orders payment statuses by finality. Provider notifications arrive
// at least once and possibly out of order; a status may only overwrite one
// of equal or lower rank, so a stale pending or failed never reverts paid.
func (s PaymentStatus) Rank() int {
	switch s {
	case PaymentStatusPaid:
		return 2
	case PaymentStatusFailed, PaymentStatusCancelled:
		return 1
	default:
		return 0
	}
}

// Overwrites reports whether applying s over current is allowed.
func (s PaymentStatus) Overwrites(current PaymentStatus) bool {
	return s.Rank() >= current.Rank()
}

// OverwritablePaymentStatuses lists every status that next may replace.
// The order store uses this set in the WHERE clause of the status update,
// so the rank check happens atomically inside a single statement.
func OverwritablePaymentStatuses(next PaymentStatus) []PaymentStatus {
	all := []PaymentStatus{PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusCancelled}
	out := make([]PaymentStatus, 0, len(all))
	for _, s := range all {
		if next.Overwrites(s) {
			out = append(out, s)
		}
	}
	return out
}
