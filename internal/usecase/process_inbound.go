package usecase

import (
	"context"
	"time"

	"github.com/agentflow/agentflow-api/internal/ai"
	"github.com/agentflow/agentflow-api/internal/cache"
	"github.com/agentflow/agentflow-api/internal/entity"
	"github.com/agentflow/agentflow-api/internal/infra/queue"
	"github.com/agentflow/agentflow-api/internal/logger"
)

// ProcessInboundUseCase is the background half of the webhook: persist the
// message, load the phone's active session, analyze the text, and send a
// reply in the detected language. It runs on the queue worker, detached from
// any HTTP request; errors bubble to the worker, which logs and drops.
type ProcessInboundUseCase struct {
	WhatsappRepo entity.WhatsappRepositoryInterface
	Analyzer     ai.Analyzer
	Sender       MessageSender
	Templates    *cache.Service
	log          *logger.Logger
}

func NewProcessInboundUseCase(
	repo entity.WhatsappRepositoryInterface,
	analyzer ai.Analyzer,
	sender MessageSender,
	templates *cache.Service,
	log *logger.Logger,
) *ProcessInboundUseCase {
	return &ProcessInboundUseCase{
		WhatsappRepo: repo,
		Analyzer:     analyzer,
		Sender:       sender,
		Templates:    templates,
		log:          log.Child("usecase:inbound", nil),
	}
}

func (uc *ProcessInboundUseCase) ProcessInbound(ctx context.Context, task queue.InboundTask) error {
	// Persist before anything else can fail; every received message leaves a
	// record even when the session lookup or reply path errors out.
	inbound := &entity.WhatsappMessage{
		ProviderID: task.ProviderID,
		Phone:      task.From,
		Direction:  entity.DirectionInbound,
		Body:       task.Body,
	}
	if err := uc.WhatsappRepo.SaveMessage(ctx, inbound); err != nil {
		return err
	}

	session, err := uc.WhatsappRepo.FindActiveSessionByPhone(ctx, task.From)
	if err != nil {
		return err
	}

	// Unsolicited numbers are dropped, not auto-enrolled; session creation
	// belongs to the onboarding flow.
	if session == nil {
		uc.log.Warn("no active session for inbound message, dropping", map[string]any{
			"from": task.From,
		})
		return nil
	}

	analysis, err := uc.Analyzer.Analyze(ctx, task.Body)
	if err != nil {
		return err
	}

	reply := uc.replyFor(ctx, analysis)

	providerID, err := uc.Sender.SendText(ctx, task.From, reply)
	if err != nil {
		return err
	}

	outbound := &entity.WhatsappMessage{
		SessionID:  session.ID,
		ProviderID: providerID,
		Phone:      task.From,
		Direction:  entity.DirectionOutbound,
		Body:       reply,
		Intent:     analysis.Intent,
	}
	if err := uc.WhatsappRepo.SaveMessage(ctx, outbound); err != nil {
		return err
	}

	uc.log.Info("inbound message answered", map[string]any{
		"session_id": session.ID,
		"intent":     analysis.Intent,
		"language":   analysis.Language,
		"confidence": analysis.Confidence,
	})
	return nil
}

// replyFor prefers a database template (cached an hour under the templates
// namespace) and falls back to the built-in canned responses.
func (uc *ProcessInboundUseCase) replyFor(ctx context.Context, analysis ai.Analysis) string {
	if uc.Templates != nil {
		key := "auto_reply:" + analysis.Intent + ":" + analysis.Language
		v, err := uc.Templates.GetOrSet(ctx, key, time.Hour, func(ctx context.Context) (any, error) {
			return uc.WhatsappRepo.FindTemplateByName(ctx, "auto_reply_"+analysis.Intent, analysis.Language)
		})
		if err == nil {
			if t, ok := v.(*entity.WhatsappTemplate); ok && t != nil {
				return t.Body
			}
		} else {
			uc.log.Warn("template lookup failed, using canned reply", map[string]any{
				"intent": analysis.Intent,
				"error":  err.Error(),
			})
		}
	}
	return ai.Reply(analysis)
}
