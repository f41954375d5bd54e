package domain

import "time"

// Receipt is the proof-of-payment record created when a payment completes.
// Exactly one receipt exists per completed payment.
type Receipt struct {
	ID         string
	PaymentID  string
	Number     string // sequence-backed, human readable
	QRData     string // serialized bank slip, optional
	Verified   bool
	VerifiedBy string
	VerifiedAt time.Time
	CreatedAt  time.Time
}
