package enums

// CheckoutStep models the two locally tracked checkout states. Everything
// after the payment redirect is owned by the payment provider.
type CheckoutStep string

const (
	CheckoutStepInformation CheckoutStep = "information"
	CheckoutStepPayment     CheckoutStep = "payment"
)

// String implements fmt.Stringer.
func (s CheckoutStep) String() string {
	return string(s)
}
