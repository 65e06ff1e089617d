package enums

// PaymentStatus is the gateway-reported state of a payment.
type PaymentStatus string

const (
	PaymentStatusApproved  PaymentStatus = "approved"
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusRejected  PaymentStatus = "rejected"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

// String implements fmt.Stringer.
func (p PaymentStatus) String() string {
	return string(p)
}

// IsApproved reports whether the gateway settled the payment.
func (p PaymentStatus) IsApproved() bool {
	return p == PaymentStatusApproved
}
