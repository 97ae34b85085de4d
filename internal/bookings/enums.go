package bookings

// Booking statuses. A booking moves reserved -> confirmed on settlement or
// reserved -> expired when its hold lapses. Both end states are terminal.
const (
	StatusReserved  = "reserved"
	StatusConfirmed = "confirmed"
	StatusExpired   = "expired"
)

// Booking types
const (
	TypeSeatBased        = "seat_based"
	TypeGeneralAdmission = "general_admission"
)

func IsValidBookingType(t string) bool {
	return t == TypeSeatBased || t == TypeGeneralAdmission
}
