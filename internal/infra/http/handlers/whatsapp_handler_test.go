package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentflow/agentflow-api/internal/infra/queue"
	"github.com/agentflow/agentflow-api/internal/logger"
)

type stubProducer struct {
	mu    sync.Mutex
	tasks []queue.InboundTask
	err   error
	done  chan struct{}
}

func (p *stubProducer) PublishInbound(_ context.Context, task queue.InboundTask) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tasks = append(p.tasks, task)
	if p.done != nil {
		close(p.done)
		p.done = nil
	}
	return p.err
}

type stubSender struct {
	id  string
	err error
}

func (s *stubSender) SendText(_ context.Context, _, _ string) (string, error) {
	return s.id, s.err
}

func (s *stubSender) SendTemplate(_ context.Context, _, _, _ string, _ []string) (string, error) {
	return s.id, s.err
}

func newWhatsappHandler(producer queue.ProducerInterface, sender *stubSender) *WhatsappHandler {
	log := logger.New("test", "warn", false)
	return NewWhatsappHandler(producer, sender, "secret-token", NewResponder(log, false), log)
}

func TestVerifyEchoesChallenge(t *testing.T) {
	h := newWhatsappHandler(&stubProducer{}, &stubSender{})

	req := httptest.NewRequest(http.MethodGet, "/api/whatsapp/webhook?hub.mode=subscribe&hub.verify_token=secret-token&hub.challenge=12345", nil)
	rec := httptest.NewRecorder()
	h.Verify(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "12345", rec.Body.String())
}

func TestVerifyRejectsBadToken(t *testing.T) {
	h := newWhatsappHandler(&stubProducer{}, &stubSender{})

	req := httptest.NewRequest(http.MethodGet, "/api/whatsapp/webhook?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=12345", nil)
	rec := httptest.NewRecorder()
	h.Verify(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"FORBIDDEN"`)
}

const webhookBody = `{
	"entry": [{
		"changes": [{
			"value": {
				"messages": [
					{"id": "wamid.1", "from": "972501234567", "type": "text", "text": {"body": "hello"}},
					{"id": "wamid.2", "from": "972501234567", "type": "image"}
				]
			}
		}]
	}]
}`

func TestReceiveAcksBeforeProcessing(t *testing.T) {
	done := make(chan struct{})
	producer := &stubProducer{done: done}
	h := newWhatsappHandler(producer, &stubSender{})

	req := httptest.NewRequest(http.MethodPost, "/api/whatsapp/webhook", strings.NewReader(webhookBody))
	rec := httptest.NewRecorder()
	h.Receive(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "EVENT_RECEIVED", rec.Body.String())

	<-done
	producer.mu.Lock()
	defer producer.mu.Unlock()
	assert.Len(t, producer.tasks, 1, "non-text messages are skipped")
	assert.Equal(t, "wamid.1", producer.tasks[0].ProviderID)
	assert.Equal(t, "hello", producer.tasks[0].Body)
}

func TestReceiveReturns200WhenEnqueueFails(t *testing.T) {
	done := make(chan struct{})
	producer := &stubProducer{done: done, err: assert.AnError}
	h := newWhatsappHandler(producer, &stubSender{})

	req := httptest.NewRequest(http.MethodPost, "/api/whatsapp/webhook", strings.NewReader(webhookBody))
	rec := httptest.NewRecorder()
	h.Receive(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code, "the provider is acked regardless of downstream failures")
	<-done
}

func TestReceiveReturns200OnMalformedBody(t *testing.T) {
	h := newWhatsappHandler(&stubProducer{}, &stubSender{})

	req := httptest.NewRequest(http.MethodPost, "/api/whatsapp/webhook", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.Receive(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSendValidatesBody(t *testing.T) {
	h := newWhatsappHandler(&stubProducer{}, &stubSender{id: "wamid.out"})

	req := httptest.NewRequest(http.MethodPost, "/api/whatsapp/send", strings.NewReader(`{"to": "972501234567"}`))
	rec := httptest.NewRecorder()
	h.Send(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"BAD_REQUEST"`)
}

func TestSendReturnsProviderID(t *testing.T) {
	h := newWhatsappHandler(&stubProducer{}, &stubSender{id: "wamid.out"})

	req := httptest.NewRequest(http.MethodPost, "/api/whatsapp/send", strings.NewReader(`{"to": "972501234567", "message": "hi"}`))
	rec := httptest.NewRecorder()
	h.Send(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"message_id":"wamid.out"`)
}
