package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/agentflow/agentflow-api/internal/apperror"
	"github.com/agentflow/agentflow-api/internal/logger"
)

const defaultBaseURL = "https://graph.facebook.com/v18.0"

// Client is the outbound WhatsApp Business API client.
type Client struct {
	token      string
	phoneID    string
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

func NewClient(token, phoneID string, log *logger.Logger) *Client {
	return &Client{
		token:      token,
		phoneID:    phoneID,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		log:        log.Child("whatsapp", nil),
	}
}

// WithBaseURL points the client at a different endpoint; used by tests.
func (c *Client) WithBaseURL(url string) *Client {
	c.baseURL = url
	return c
}

// SendText sends a plain text message and returns the provider message ID.
func (c *Client) SendText(ctx context.Context, to, body string) (string, error) {
	payload := textPayload{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               normalizeRecipient(to),
		Type:             "text",
		Text:             &text{Body: body},
	}
	return c.send(ctx, payload)
}

// SendTemplate sends a pre-approved template with body parameters.
func (c *Client) SendTemplate(ctx context.Context, to, templateName, language string, params []string) (string, error) {
	payload := textPayload{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               normalizeRecipient(to),
		Type:             "template",
		Template: &tmpl{
			Name:       templateName,
			Language:   tmplLang{Code: language},
			Components: []component{{Type: "body", Parameters: toParameters(params)}},
		},
	}
	return c.send(ctx, payload)
}

func (c *Client) send(ctx context.Context, payload textPayload) (string, error) {
	if c.token == "" || c.phoneID == "" {
		return "", apperror.ServiceUnavailable("whatsapp client not configured")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", apperror.Internal("failed to encode whatsapp payload").WithCause(err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", apperror.Internal("failed to build whatsapp request").WithCause(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apperror.ThirdPartyAPI("whatsapp request failed").WithCause(err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	var result SendMessageResponse
	if err := json.Unmarshal(respBody, &result); err != nil && resp.StatusCode < 300 {
		return "", apperror.ThirdPartyAPI("whatsapp returned unreadable response").WithCause(err)
	}

	if resp.StatusCode >= 300 || result.Error != nil {
		msg := fmt.Sprintf("whatsapp api returned status %d", resp.StatusCode)
		details := map[string]any{"status": resp.StatusCode}
		if result.Error != nil {
			msg = result.Error.Message
			details["provider_code"] = result.Error.Code
			details["provider_type"] = result.Error.Type
		}
		c.log.Warn("send failed", details)
		return "", apperror.ThirdPartyAPI(msg).WithDetails(details)
	}

	var providerID string
	if len(result.Messages) > 0 {
		providerID = result.Messages[0].ID
	}

	c.log.Debug("message sent", map[string]any{"to": payload.To, "provider_id": providerID})
	return providerID, nil
}

// normalizeRecipient strips a leading "+"; the API wants bare digits with the
// country code.
func normalizeRecipient(to string) string {
	return strings.TrimPrefix(strings.TrimSpace(to), "+")
}

func toParameters(params []string) []parameter {
	out := make([]parameter, 0, len(params))
	for _, p := range params {
		out = append(out, parameter{Type: "text", Text: p})
	}
	return out
}
