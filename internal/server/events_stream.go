package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/aristath/hedgeguard/internal/events"
	"github.com/aristath/hedgeguard/internal/utils"
)

const (
	eventBufferSize   = 100
	heartbeatInterval = 30 * time.Second
	writeTimeout      = 5 * time.Second
)

// streamMessage is the JSON frame pushed to websocket clients
type streamMessage struct {
	Type      string                 `json:"type"`
	Module    string                 `json:"module,omitempty"`
	Timestamp string                 `json:"timestamp"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// EventsStreamHandler streams bus events to websocket clients.
type EventsStreamHandler struct {
	eventBus *events.Bus
	log      zerolog.Logger

	heartbeat time.Duration
}

// NewEventsStreamHandler creates a new events stream handler.
func NewEventsStreamHandler(eventBus *events.Bus, log zerolog.Logger) *EventsStreamHandler {
	return &EventsStreamHandler{
		eventBus:  eventBus,
		log:       log.With().Str("component", "events_stream").Logger(),
		heartbeat: heartbeatInterval,
	}
}

// ServeHTTP handles GET /api/events/ws?types=a,b
func (h *EventsStreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	eventTypes, ok := parseTypesFilter(r.URL.Query().Get("types"))
	if !ok {
		http.Error(w, "Unknown event type in types filter", http.StatusBadRequest)
		return
	}

	// The server's read/write timeouts would otherwise cut long-lived connections
	rc := http.NewResponseController(w)
	_ = rc.SetReadDeadline(time.Time{})
	_ = rc.SetWriteDeadline(time.Time{})

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to accept websocket connection")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "stream closed")

	// Clients only listen; CloseRead handles control frames and cancels ctx on disconnect
	ctx := conn.CloseRead(r.Context())

	eventChan := make(chan *events.Event, eventBufferSize)
	eventHandler := func(event *events.Event) {
		// Non-blocking send (drop if channel full)
		select {
		case eventChan <- event:
		default:
			h.log.Warn().
				Str("event_type", string(event.Type)).
				Msg("Event channel full, dropping event")
		}
	}

	subscriptions := make([]events.SubscriptionID, 0, len(eventTypes))
	for _, eventType := range eventTypes {
		subscriptions = append(subscriptions, h.eventBus.Subscribe(eventType, eventHandler))
	}
	defer func() {
		for _, id := range subscriptions {
			h.eventBus.Unsubscribe(id)
		}
	}()

	h.log.Info().Int("types", len(eventTypes)).Msg("Client connected to event stream")

	if err := h.write(ctx, conn, streamMessage{
		Type:      "connected",
		Timestamp: time.Now().Format(time.RFC3339),
	}); err != nil {
		return
	}

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			h.log.Info().Msg("Client disconnected from event stream")
			return

		case event := <-eventChan:
			msg := streamMessage{
				Type:      string(event.Type),
				Module:    event.Module,
				Timestamp: event.Timestamp.Format(time.RFC3339),
				Data:      event.Data,
			}
			if err := h.write(ctx, conn, msg); err != nil {
				return
			}

		case <-heartbeat.C:
			if err := h.write(ctx, conn, streamMessage{
				Type:      "heartbeat",
				Timestamp: time.Now().Format(time.RFC3339),
			}); err != nil {
				return
			}
		}
	}
}

func (h *EventsStreamHandler) write(ctx context.Context, conn *websocket.Conn, msg streamMessage) error {
	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if err := wsjson.Write(writeCtx, conn, msg); err != nil {
		if websocket.CloseStatus(err) == -1 && ctx.Err() == nil {
			h.log.Warn().Err(err).Str("type", msg.Type).Msg("Failed to write to event stream")
		}
		return err
	}
	return nil
}

// parseTypesFilter returns the event types to subscribe to. Empty means all.
func parseTypesFilter(raw string) ([]events.EventType, bool) {
	if strings.TrimSpace(raw) == "" {
		return events.AllEventTypes(), true
	}

	known := make(map[events.EventType]bool)
	for _, t := range events.AllEventTypes() {
		known[t] = true
	}

	seen := make(map[events.EventType]bool)
	var types []events.EventType
	for _, part := range utils.ParseCSV(raw) {
		t := events.EventType(part)
		if seen[t] {
			continue
		}
		if !known[t] {
			return nil, false
		}
		seen[t] = true
		types = append(types, t)
	}

	return types, len(types) > 0
}
