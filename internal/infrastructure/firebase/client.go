package firebase

import (
	"context"
	"fmt"

	"pennyverse/internal/shared/logger"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

const fcmBatchLimit = 500

// TokenDeactivator is called to mark an invalid FCM token as inactive.
type TokenDeactivator func(ctx context.Context, token string) error

type multicastSender interface {
	SendEachForMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error)
}

// Messenger implements notification.Messenger using Firebase Cloud Messaging.
type Messenger struct {
	sender      multicastSender
	deactivator TokenDeactivator
}

// NewMessenger initializes a Firebase app from a service account file.
// deactivator may be nil.
func NewMessenger(ctx context.Context, credentialsFile string, deactivator TokenDeactivator) (*Messenger, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	msgClient, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase messaging client: %w", err)
	}

	return &Messenger{sender: msgClient, deactivator: deactivator}, nil
}

// SendMulticast pushes one notification to many tokens, batching by the
// FCM per-request limit. Tokens FCM reports as dead are deactivated.
func (m *Messenger) SendMulticast(ctx context.Context, tokens []string, title, body string, data map[string]string) error {
	if len(tokens) == 0 {
		return nil
	}

	var totalSuccess, totalFailure int
	for _, batch := range chunkTokens(tokens, fcmBatchLimit) {
		resp, err := m.sender.SendEachForMulticast(ctx, newMulticast(batch, title, body, data))
		if err != nil {
			return fmt.Errorf("failed to send FCM multicast: %w", err)
		}

		totalSuccess += resp.SuccessCount
		totalFailure += resp.FailureCount
		if resp.FailureCount > 0 {
			m.handleFailures(ctx, batch, resp)
		}
	}

	logger.Debugf("FCM multicast: %d success, %d failure", totalSuccess, totalFailure)
	return nil
}

func newMulticast(tokens []string, title, body string, data map[string]string) *messaging.MulticastMessage {
	return &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{Sound: "default"},
			},
		},
	}
}

func (m *Messenger) handleFailures(ctx context.Context, tokens []string, resp *messaging.BatchResponse) {
	for i, sendResp := range resp.Responses {
		if sendResp == nil || sendResp.Error == nil || i >= len(tokens) {
			continue
		}
		if messaging.IsUnregistered(sendResp.Error) || messaging.IsInvalidArgument(sendResp.Error) {
			logger.Warnf("Invalid FCM token at index %d, deactivating: %v", i, sendResp.Error)
			m.deactivate(ctx, tokens[i])
			continue
		}
		logger.Warnf("FCM send error at index %d: %v", i, sendResp.Error)
	}
}

func (m *Messenger) deactivate(ctx context.Context, token string) {
	if m.deactivator == nil {
		return
	}
	if err := m.deactivator(ctx, token); err != nil {
		logger.Errorf("Failed to deactivate FCM token: %v", err)
	}
}

func chunkTokens(tokens []string, size int) [][]string {
	var chunks [][]string
	for i := 0; i < len(tokens); i += size {
		end := min(i+size, len(tokens))
		chunks = append(chunks, tokens[i:end])
	}
	return chunks
}
