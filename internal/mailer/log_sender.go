package mailer

import (
	"context"

	"go.uber.org/zap"
)

// LogSender is used when no mail relay is configured: instead of delivering
// mail it logs what would have been sent. Handy for local development.
type LogSender struct {
	logger *zap.Logger
}

func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) SendPasswordReset(_ context.Context, email, token string) error {
	s.logger.Info("Would send password reset email",
		zap.String("to", email), zap.String("token", token))
	return nil
}

func (s *LogSender) SendVerification(_ context.Context, email, token string) error {
	s.logger.Info("Would send verification email",
		zap.String("to", email), zap.String("token", token))
	return nil
}
