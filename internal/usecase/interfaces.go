package usecase

import (
	"context"

	"github.com/agentflow/agentflow-api/internal/entity"
)

type MessageSender interface {
	SendText(ctx context.Context, to, body string) (string, error)
	SendTemplate(ctx context.Context, to, templateName, language string, params []string) (string, error)
}

type EmailService interface {
	SendNewsletterWelcome(to, name string) error
	SendLeadNotification(to string, lead *entity.Lead) error
}
