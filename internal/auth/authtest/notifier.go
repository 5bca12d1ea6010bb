package authtest

import (
	"context"
	"regexp"
	"sync"
)

// SMS is a message captured by Notifier
type SMS struct {
	Phone   string
	Message string
}

var codePattern = regexp.MustCompile(`\b\d{6}\b`)

// Notifier records every SMS instead of sending it
type Notifier struct {
	mu   sync.Mutex
	sent []SMS

	// SendFunc, when set, decides the outcome of each send
	SendFunc func(ctx context.Context, phone, message string) error
}

// NewNotifier creates a Notifier whose sends succeed
func NewNotifier() *Notifier {
	return &Notifier{}
}

// SendSMS records the message and reports the configured outcome
func (n *Notifier) SendSMS(ctx context.Context, phone, message string) error {
	if n.SendFunc != nil {
		if err := n.SendFunc(ctx, phone, message); err != nil {
			return err
		}
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, SMS{Phone: phone, Message: message})
	return nil
}

// Sent returns the delivered messages in order
func (n *Notifier) Sent() []SMS {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]SMS(nil), n.sent...)
}

// LastCode returns the six digit code in the latest message to phone
func (n *Notifier) LastCode(phone string) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i := len(n.sent) - 1; i >= 0; i-- {
		if n.sent[i].Phone == phone {
			return codePattern.FindString(n.sent[i].Message)
		}
	}
	return ""
}
