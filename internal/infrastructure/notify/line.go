package notify

import (
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/line/line-bot-sdk-go/v7/linebot"

	"healthaxis/internal/pkg/config"
	appErrors "healthaxis/internal/pkg/errors"
	"healthaxis/internal/pkg/logger"
)

// LineNotifier delivers reminder notifications as LINE push messages with
// Taken / Snooze quick replies. The user's answer arrives as a postback on
// the webhook endpoint and is routed back to the dispatcher.
type LineNotifier struct {
	cfg config.LineConfig
	log logger.Logger

	mu     sync.Mutex
	client *linebot.Client
}

// NewLineNotifier creates a LINE-backed notifier. Missing credentials leave
// the notifier in the unprompted state; RequestPermission retries the setup.
func NewLineNotifier(cfg config.LineConfig, log logger.Logger) *LineNotifier {
	n := &LineNotifier{cfg: cfg, log: log}
	if _, err := n.connect(); err != nil {
		log.Warn(fmt.Sprintf("LINE notifier not ready: %v", err))
	}
	return n
}

func (n *LineNotifier) connect() (*linebot.Client, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.client != nil {
		return n.client, nil
	}
	if n.cfg.ChannelSecret == "" || n.cfg.ChannelToken == "" {
		return nil, fmt.Errorf("CHANNEL_SECRET and CHANNEL_ACCESS_TOKEN are not set")
	}
	bot, err := linebot.New(n.cfg.ChannelSecret, n.cfg.ChannelToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create LINE client: %w", err)
	}
	n.client = bot
	n.log.Info("Successfully created LINE client.")
	return bot, nil
}

// Permission reports the notifier state: denied when disabled by config,
// granted when a client is ready, unprompted otherwise.
func (n *LineNotifier) Permission() Permission {
	if !n.cfg.Enabled {
		return PermissionDenied
	}
	n.mu.Lock()
	ready := n.client != nil && n.cfg.RecipientID != ""
	n.mu.Unlock()
	if ready {
		return PermissionGranted
	}
	return PermissionUnprompted
}

// RequestPermission attempts to (re)initialize the LINE client from config.
// A single attempt, no retry.
func (n *LineNotifier) RequestPermission() (Permission, error) {
	if !n.cfg.Enabled {
		return PermissionDenied, nil
	}
	if _, err := n.connect(); err != nil {
		return PermissionUnprompted, fmt.Errorf("%w: %v", appErrors.ErrNotification, err)
	}
	return n.Permission(), nil
}

// Notify pushes the reminder with Taken / Snooze quick replies. Push messages
// cannot be withdrawn, so DismissAfter is advisory here; stale postbacks for
// deleted reminders are dropped by the dispatcher.
func (n *LineNotifier) Notify(notification Notification) error {
	client, err := n.connect()
	if err != nil {
		return fmt.Errorf("%w: %v", appErrors.ErrNotification, err)
	}

	taken := linebot.NewQuickReplyButton("", linebot.NewPostbackAction(
		"✅ Taken", postbackData(ActionTaken, notification.ReminderID), "", "Taken", "", ""))
	snooze := linebot.NewQuickReplyButton("", linebot.NewPostbackAction(
		"⏰ Snooze", postbackData(ActionSnooze, notification.ReminderID), "", "Snooze", "", ""))

	text := fmt.Sprintf("%s\n%s", notification.Title, notification.Body)
	message := linebot.NewTextMessage(text).WithQuickReplies(linebot.NewQuickReplyItems(taken, snooze))

	if _, err := client.PushMessage(n.cfg.RecipientID, message).Do(); err != nil {
		return fmt.Errorf("%w: %v", appErrors.ErrNotification, err)
	}
	n.log.Debug(fmt.Sprintf("Pushed notification for reminder %s", notification.ReminderID))
	return nil
}

// ParseRequest parses an incoming webhook request into LINE events.
func (n *LineNotifier) ParseRequest(r *http.Request) ([]*linebot.Event, error) {
	client, err := n.connect()
	if err != nil {
		return nil, err
	}
	return client.ParseRequest(r)
}

func postbackData(action, reminderID string) string {
	v := url.Values{}
	v.Set("action", action)
	v.Set("reminder_id", reminderID)
	return v.Encode()
}

// ParsePostbackData extracts the action and reminder id from postback data
// built by postbackData.
func ParsePostbackData(data string) (action, reminderID string, err error) {
	v, err := url.ParseQuery(data)
	if err != nil {
		return "", "", fmt.Errorf("malformed postback data %q: %w", data, err)
	}
	return v.Get("action"), v.Get("reminder_id"), nil
}
