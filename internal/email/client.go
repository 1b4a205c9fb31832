// Package email defines the interface for transactional email delivery and
// provides a Resend-backed implementation.
package email

import "context"

// Attachment is a file included with a message. Content is the raw bytes;
// the Resend client base64-encodes it on the wire.
type Attachment struct {
	Filename string
	Content  []byte
}

// Message is one outbound email. From is fixed at client construction; the
// dispatcher fills in everything else per send.
type Message struct {
	To          []string // already normalized and non-empty by the dispatcher
	Subject     string
	HTML        string
	Attachments []Attachment // optional
}

// Sender is the interface the dispatcher uses to deliver mail.
// Tests inject a stub that records calls without hitting the network.
type Sender interface {
	// Send performs exactly one provider API call. Any non-nil error means
	// the message was not accepted (network, auth, and validation failures
	// are indistinguishable to callers on purpose).
	Send(ctx context.Context, m Message) error

	// From reports the configured sender identity, e.g.
	// "ERP System <alerts@meridianerp.com>". The dispatcher inspects it for
	// the sandbox-safety override.
	From() string
}
