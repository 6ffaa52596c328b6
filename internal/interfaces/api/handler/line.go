package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/line/line-bot-sdk-go/v7/linebot"

	"healthaxis/internal/application/service"
	"healthaxis/internal/infrastructure/notify"
	"healthaxis/internal/pkg/logger"
)

// LineHandler handles incoming LINE webhook events. Only postback events
// matter here: they carry the Taken / Snooze answer to a dispatched reminder.
type LineHandler struct {
	notifier   *notify.LineNotifier
	dispatcher service.DispatcherService
	log        logger.Logger
}

// NewLineHandler creates a new LineHandler.
func NewLineHandler(
	notifier *notify.LineNotifier,
	dispatcher service.DispatcherService,
	log logger.Logger,
) *LineHandler {
	return &LineHandler{
		notifier:   notifier,
		dispatcher: dispatcher,
		log:        log,
	}
}

// HandleWebhook is the entry point for webhook requests.
func (h *LineHandler) HandleWebhook(c echo.Context) error {
	ctx := c.Request().Context()
	events, err := h.notifier.ParseRequest(c.Request())
	if err != nil {
		if errors.Is(err, linebot.ErrInvalidSignature) {
			h.log.Warn("Invalid LINE signature received")
			return c.String(http.StatusBadRequest, "Invalid signature")
		}
		h.log.Error("Failed to parse LINE webhook request", err)
		return c.String(http.StatusInternalServerError, "Error parsing request")
	}

	for _, event := range events {
		switch event.Type {
		case linebot.EventTypePostback:
			h.handlePostbackEvent(ctx, event)
		default:
			h.log.Debug(fmt.Sprintf("Ignoring event type: %s", event.Type))
		}
	}

	return c.String(http.StatusOK, "OK")
}

// handlePostbackEvent routes a Taken / Snooze answer to the dispatcher.
func (h *LineHandler) handlePostbackEvent(ctx context.Context, event *linebot.Event) {
	action, reminderID, err := notify.ParsePostbackData(event.Postback.Data)
	if err != nil {
		h.log.Warn(fmt.Sprintf("Dropping unparseable postback: %v", err))
		return
	}
	if reminderID == "" {
		h.log.Warn("Dropping postback without a reminder id")
		return
	}
	if err := h.dispatcher.HandleAction(ctx, reminderID, action); err != nil {
		h.log.Error(fmt.Sprintf("Failed to handle %q action for reminder %s", action, reminderID), err)
	}
}
