package email

import (
	"context"
	"errors"
	"fmt"
)

// CompositeEmailSender fans a message out to several senders, e.g. SMTP plus a file copy.
type CompositeEmailSender struct {
	senders []Sender
}

// NewCompositeEmailSender creates a new CompositeEmailSender. Nil senders are dropped.
func NewCompositeEmailSender(senders ...Sender) *CompositeEmailSender {
	cs := &CompositeEmailSender{}
	for _, s := range senders {
		cs.AddSender(s)
	}
	return cs
}

// AddSender appends sender unless it is nil.
func (cs *CompositeEmailSender) AddSender(sender Sender) {
	if sender != nil {
		cs.senders = append(cs.senders, sender)
	}
}

// Len is the number of senders a message goes to.
func (cs *CompositeEmailSender) Len() int { return len(cs.senders) }

// Send delivers to every sender even after a failure. A message counts as sent when at
// least one sender accepted it; the returned error then still names the ones that failed.
func (cs *CompositeEmailSender) Send(ctx context.Context, to []string, subject string, rawMessage []byte) error {
	if len(cs.senders) == 0 {
		return errors.New("no email senders configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var errs []error
	for _, sender := range cs.senders {
		if err := sender.Send(ctx, to, subject, rawMessage); err != nil {
			errs = append(errs, fmt.Errorf("%T: %w", sender, err))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d email senders failed: %w", len(errs), len(cs.senders), errors.Join(errs...))
}
