package domain

// Notification is a plaintext-first email handed to the notifier. HTML is
// optional; delivery failures are logged and never affect inquiry state.
type Notification struct {
	To      []string
	Subject string
	Text    string
	HTML    string
}
