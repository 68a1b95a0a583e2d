// Package whatsapp delivers text messages through the WhatsApp Cloud API.
package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/dyecalc/internal/config"
	"github.com/mamadbah2/dyecalc/internal/domain/models"
)

// MaxBodyLength is the longest text body the Cloud API accepts.
const MaxBodyLength = 4096

var (
	// ErrBodyTooLong is returned for text messages above MaxBodyLength characters.
	ErrBodyTooLong = errors.New("message body too long")
	// ErrNoRecipient is returned when the message has no phone number.
	ErrNoRecipient = errors.New("message recipient is empty")
)

// Sender delivers one text message and returns the id Meta assigned to it.
type Sender interface {
	SendText(ctx context.Context, msg models.OutboundMessageRequest) (string, error)
}

// APIError is a rejected send. Code is the Graph API error code when present.
type APIError struct {
	Status  int
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("whatsapp api error: status=%d code=%d message=%s", e.Status, e.Code, e.Message)
}

// Unauthorized reports an expired or revoked access token. Every further
// send with the same token fails the same way.
func (e *APIError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized || e.Code == 190
}

// Client is the resty-backed Sender.
type Client struct {
	http          *resty.Client
	phoneNumberID string
}

// NewClient builds a client for the configured business phone number.
func NewClient(cfg config.WhatsAppConfig) *Client {
	base := strings.TrimSuffix(cfg.BaseURL, "/")

	return &Client{
		http: resty.New().
			SetBaseURL(base+"/"+cfg.APIVersion).
			SetAuthToken(cfg.AccessToken).
			SetHeader("Content-Type", "application/json").
			SetTimeout(15 * time.Second),
		phoneNumberID: cfg.PhoneNumberID,
	}
}

type textMessage struct {
	MessagingProduct string   `json:"messaging_product"`
	RecipientType    string   `json:"recipient_type"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             textBody `json:"text"`
}

type textBody struct {
	Body       string `json:"body"`
	PreviewURL bool   `json:"preview_url"`
}

type sendResult struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

type errorEnvelope struct {
	Error struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// SendText posts msg as a plain text message. Rejections come back as *APIError.
func (c *Client) SendText(ctx context.Context, msg models.OutboundMessageRequest) (string, error) {
	if strings.TrimSpace(msg.To) == "" {
		return "", ErrNoRecipient
	}
	if n := utf8.RuneCountInString(msg.Message); n > MaxBodyLength {
		return "", fmt.Errorf("%w: %d characters", ErrBodyTooLong, n)
	}

	var (
		result  sendResult
		failure errorEnvelope
	)
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(textMessage{
			MessagingProduct: "whatsapp",
			RecipientType:    "individual",
			To:               msg.To,
			Type:             "text",
			Text:             textBody{Body: msg.Message, PreviewURL: msg.PreviewURL},
		}).
		SetResult(&result).
		SetError(&failure).
		Post(c.phoneNumberID + "/messages")
	if err != nil {
		return "", fmt.Errorf("send whatsapp message: %w", err)
	}
	if resp.IsError() {
		return "", &APIError{Status: resp.StatusCode(), Code: failure.Error.Code, Message: failure.Error.Message}
	}

	if len(result.Messages) == 0 {
		return "", nil
	}
	return result.Messages[0].ID, nil
}
