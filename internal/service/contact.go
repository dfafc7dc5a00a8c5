package service

import (
	"context"
	"fmt"

	"github.com/weldmart/storefront/internal/mailer"
)

type ContactService struct {
	Mailer mailer.Mailer
	Inbox  string
}

func (s *ContactService) Submit(ctx context.Context, name, email, message string) error {
	if name == "" || email == "" || message == "" {
		return fmt.Errorf("name, email and message are required: %w", ErrValidation)
	}

	subject := fmt.Sprintf("Contact form: %s", name)
	body := fmt.Sprintf("From: %s <%s>\n\n%s", name, email, message)
	return s.Mailer.Send(ctx, s.Inbox, subject, body)
}
