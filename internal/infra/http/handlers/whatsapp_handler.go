package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/agentflow/agentflow-api/internal/apperror"
	"github.com/agentflow/agentflow-api/internal/infra/http/middleware"
	"github.com/agentflow/agentflow-api/internal/infra/integration/whatsapp"
	"github.com/agentflow/agentflow-api/internal/infra/queue"
	"github.com/agentflow/agentflow-api/internal/logger"
	"github.com/agentflow/agentflow-api/internal/usecase"
)

type WhatsappHandler struct {
	Producer    queue.ProducerInterface
	Sender      usecase.MessageSender
	VerifyToken string
	Resp        *Responder
	log         *logger.Logger
}

func NewWhatsappHandler(producer queue.ProducerInterface, sender usecase.MessageSender, verifyToken string, resp *Responder, log *logger.Logger) *WhatsappHandler {
	return &WhatsappHandler{
		Producer:    producer,
		Sender:      sender,
		VerifyToken: verifyToken,
		Resp:        resp,
		log:         log.Child("http:whatsapp", nil),
	}
}

// Verify answers the provider's subscription handshake: echo the challenge
// when the token matches, 403 otherwise.
func (h *WhatsappHandler) Verify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("hub.mode") == "subscribe" && q.Get("hub.verify_token") == h.VerifyToken {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(q.Get("hub.challenge")))
		return
	}
	h.Resp.Error(w, apperror.Forbidden("verification token mismatch"))
}

// Receive acknowledges the provider immediately, then hands each text message
// to the background queue. Enqueue failures are logged only; the 200 has
// already been committed and the provider must not see retries.
func (h *WhatsappHandler) Receive(w http.ResponseWriter, r *http.Request) {
	var payload whatsapp.Webhook
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		// Still a 200: a malformed body is our problem to log, not the
		// provider's reason to retry.
		h.log.Warn("unparseable webhook body", map[string]any{"error": err.Error()})
		w.WriteHeader(http.StatusOK)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("EVENT_RECEIVED"))

	go h.enqueue(payload)
}

func (h *WhatsappHandler) enqueue(payload whatsapp.Webhook) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			for _, msg := range change.Value.Messages {
				if msg.Type != "text" {
					continue
				}

				task := queue.InboundTask{
					ProviderID: msg.ID,
					From:       msg.From,
					Body:       msg.Text.Body,
					ReceivedAt: time.Now().UTC().Format(time.RFC3339),
				}
				if err := h.Producer.PublishInbound(ctx, task); err != nil {
					middleware.RecordIntegrationError("rabbitmq")
					h.log.Error("inbound task not enqueued", err, map[string]any{"from": task.From})
					continue
				}
				middleware.RecordWhatsappMessage("inbound")
			}
		}
	}
}

type sendRequest struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

// Send is the operator-facing outbound endpoint.
func (h *WhatsappHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Resp.Error(w, apperror.BadRequest("invalid JSON body"))
		return
	}
	if req.To == "" || req.Message == "" {
		h.Resp.Error(w, apperror.BadRequest("to and message are required"))
		return
	}

	providerID, err := h.Sender.SendText(r.Context(), req.To, req.Message)
	if err != nil {
		middleware.RecordIntegrationError("whatsapp")
		h.Resp.Error(w, err)
		return
	}

	middleware.RecordWhatsappMessage("outbound")
	h.Resp.JSON(w, http.StatusOK, map[string]string{"message_id": providerID})
}
