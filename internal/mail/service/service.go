// Package service implements the mail consumers. Delivery failures are
// logged and swallowed: mail is best effort and a broken relay must not
// wedge the queues.
package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"hrms/internal/mail/sender"
	"hrms/internal/pkg/messages"
	"hrms/internal/pkg/messaging"
)

type Service struct {
	sender sender.Sender
	logger *zap.Logger
}

func New(s sender.Sender, logger *zap.Logger) *Service {
	return &Service{sender: s, logger: logger.Named("mail_service")}
}

// HandleActivation mails the account activation link.
func (s *Service) HandleActivation(_ context.Context, env messaging.Envelope) error {
	var msg messages.ActivationMail
	if err := env.Decode(&msg); err != nil {
		return err
	}
	body := fmt.Sprintf(
		"Welcome!\r\n\r\nActivate your account by following this link:\r\n%s\r\n",
		msg.ActivationLink,
	)
	s.deliver(msg.Email, "Activate your account", body)
	return nil
}

// HandleForgotPassword mails the freshly generated password.
func (s *Service) HandleForgotPassword(_ context.Context, env messaging.Envelope) error {
	var msg messages.PasswordResetMail
	if err := env.Decode(&msg); err != nil {
		return err
	}
	body := fmt.Sprintf(
		"Your password has been reset.\r\n\r\nNew password: %s\r\n\r\nPlease change it after logging in.\r\n",
		msg.Password,
	)
	s.deliver(msg.Email, "Your new password", body)
	return nil
}

// HandleEmployeeWelcome mails the generated credentials to the employee's
// personal address.
func (s *Service) HandleEmployeeWelcome(_ context.Context, env messaging.Envelope) error {
	var msg messages.EmployeeWelcomeMail
	if err := env.Decode(&msg); err != nil {
		return err
	}
	body := fmt.Sprintf(
		"Welcome aboard!\r\n\r\nYour account is ready.\r\nLogin: %s\r\nPassword: %s\r\n\r\nPlease change the password after your first login.\r\n",
		msg.Email, msg.Password,
	)
	s.deliver(msg.PersonalEmail, "Your new account", body)
	return nil
}

// SendTest delivers a plain test mail, surfacing the error to the caller.
func (s *Service) SendTest(to, subject, body string) error {
	return s.sender.Send(to, subject, body)
}

func (s *Service) deliver(to, subject, body string) {
	if err := s.sender.Send(to, subject, body); err != nil {
		s.logger.Error("failed to send mail",
			zap.Error(err),
			zap.String("to", to),
			zap.String("subject", subject),
		)
		return
	}
	s.logger.Info("mail sent",
		zap.String("to", to),
		zap.String("subject", subject),
	)
}
