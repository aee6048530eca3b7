package listener

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"pennyverse/internal/shared/logger"
)

const (
	channelName       = "ledger_changed"
	reconnectInterval = 5 * time.Second
	pingInterval      = 90 * time.Second
)

// LedgerChange is the payload sent by the notify_ledger_changed trigger.
type LedgerChange struct {
	UserID uuid.UUID `json:"user_id"`
	Table  string    `json:"table"`
}

// Invalidator drops cached state derived from a user's ledger.
type Invalidator interface {
	Invalidate(ctx context.Context, userID uuid.UUID) error
}

// LedgerListener evicts cached dashboards whenever a ledger table changes,
// including writes that never pass through the API such as admin seeding.
type LedgerListener struct {
	connStr    string
	cache      Invalidator
	shutdownCh chan struct{}
	done       chan struct{}
}

func NewLedgerListener(connStr string, cache Invalidator) *LedgerListener {
	return &LedgerListener{
		connStr:    connStr,
		cache:      cache,
		shutdownCh: make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Start begins listening in a background goroutine.
func (l *LedgerListener) Start(ctx context.Context) {
	go l.listen(ctx)
	logger.Info("Ledger change listener started")
}

// Stop blocks until the listener goroutine has exited.
func (l *LedgerListener) Stop() {
	close(l.shutdownCh)
	<-l.done
	logger.Info("Ledger change listener stopped")
}

func (l *LedgerListener) listen(ctx context.Context) {
	defer close(l.done)

	for {
		select {
		case <-l.shutdownCh:
			return
		case <-ctx.Done():
			return
		default:
			l.connectAndListen(ctx)
		}

		select {
		case <-l.shutdownCh:
			return
		case <-ctx.Done():
			return
		case <-time.After(reconnectInterval):
			logger.Info("Reconnecting to PostgreSQL for ledger notifications...")
		}
	}
}

func (l *LedgerListener) connectAndListen(ctx context.Context) {
	listener := pq.NewListener(l.connStr, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		switch ev {
		case pq.ListenerEventConnected:
			logger.Debugf("Connected to channel %s", channelName)
		case pq.ListenerEventDisconnected:
			logger.Warnf("Disconnected from channel %s: %v", channelName, err)
		case pq.ListenerEventReconnected:
			logger.Infof("Reconnected to channel %s", channelName)
		case pq.ListenerEventConnectionAttemptFailed:
			logger.Warnf("Connection attempt failed: %v", err)
		}
	})
	defer listener.Close()

	if err := listener.Listen(channelName); err != nil {
		logger.Errorf("Failed to listen on channel %s: %v", channelName, err)
		return
	}

	for {
		select {
		case <-l.shutdownCh:
			return
		case <-ctx.Done():
			return
		case n := <-listener.Notify:
			if n == nil {
				// connection lost
				return
			}
			if err := l.handle(context.Background(), n.Extra); err != nil {
				logger.Warnf("Ledger notification dropped: %v", err)
			}
		case <-time.After(pingInterval):
			go func() {
				if err := listener.Ping(); err != nil {
					logger.Warnf("Listener ping failed: %v", err)
				}
			}()
		}
	}
}

func (l *LedgerListener) handle(ctx context.Context, payload string) error {
	change, err := ParseLedgerChange(payload)
	if err != nil {
		return err
	}

	if err := l.cache.Invalidate(ctx, change.UserID); err != nil {
		return fmt.Errorf("failed to invalidate cache for user %s: %w", change.UserID, err)
	}

	logger.WithFields(map[string]any{
		"user_id": change.UserID,
		"table":   change.Table,
	}).Debug("Dashboard cache invalidated")
	return nil
}

// ParseLedgerChange decodes a notification payload.
func ParseLedgerChange(payload string) (LedgerChange, error) {
	var change LedgerChange
	if err := json.Unmarshal([]byte(payload), &change); err != nil {
		return change, fmt.Errorf("failed to parse ledger notification: %w", err)
	}
	if change.UserID == uuid.Nil {
		return change, fmt.Errorf("ledger notification without user_id: %q", payload)
	}
	return change, nil
}
