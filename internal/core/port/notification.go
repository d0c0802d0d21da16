package port

import "context"

// NotificationSender delivers an OTP code to a recipient's email address.
// Implementations must bound the call with a timeout; callers treat any
// returned error as non-fatal.
type NotificationSender interface {
	Send(ctx context.Context, code, recipientName, recipientEmail string) error
}
