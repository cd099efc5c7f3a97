package ikhode

// Push message types the gateway is known to emit. Both variants carry the
// same meaning; backends differ in which one they send.
const (
	TypePaymentSuccess   = "payment_success"
	TypePaymentConfirmed = "payment_confirmed"
)

// Message is the websocket push shape sent by the IKhode gateway when a KHQR
// payment settles. Depending on the backend the order reference arrives as
// transactionId or orderId.
type Message struct {
	Type          string `json:"type"`
	TransactionID string `json:"transactionId,omitempty"`
	OrderID       string `json:"orderId,omitempty"`
}

// Matches reports whether this push confirms payment for the given order.
func (m *Message) Matches(orderID string) bool {
	if m.Type != TypePaymentSuccess && m.Type != TypePaymentConfirmed {
		return false
	}
	return m.TransactionID == orderID || m.OrderID == orderID
}
