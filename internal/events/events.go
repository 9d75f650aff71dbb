package events

import (
	"context"
	"encoding/json"
	"movierec/config"
	"movierec/internal/types"
	"sync"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/valkey-io/valkey-go"
)

type Channel string

func (c Channel) String() string {
	return string(c)
}

const (
	MOVIE_ACTIONS_CHANNEL Channel = "movie.actions"
	ADMIN_CHANNEL         Channel = "admin"
)

type MessageType string

const (
	MOVIE_ACTION    MessageType = "movie_action"
	SNAPSHOT_RELOAD MessageType = "snapshot_reload"
)

type Event struct {
	ID        string          `json:"id"`
	Type      MessageType     `json:"type"`
	Channel   Channel         `json:"channel"`
	UserID    *int            `json:"userId,omitempty"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// MovieAction is the payload of a MOVIE_ACTION event.
type MovieAction struct {
	MovieID int              `json:"movieId"`
	Action  types.ActionType `json:"action"`
	Weight  float64          `json:"weight"`
	Rating  *float64         `json:"rating,omitempty"`
}

// SnapshotReload is the payload of a SNAPSHOT_RELOAD event. Origin identifies
// the process that already reloaded.
type SnapshotReload struct {
	Origin string `json:"origin"`
}

type EventHandler func(event Event) error

type EventBus struct {
	client    valkey.Client
	logger    logger.Logger
	config    config.Config
	handlers  map[Channel][]EventHandler
	listening map[Channel]bool
	mutex     sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
}

func New(client valkey.Client, config config.Config) *EventBus {
	ctx, cancel := context.WithCancel(context.Background())

	return &EventBus{
		client:    client,
		logger:    logger.New("EventBus"),
		config:    config,
		handlers:  make(map[Channel][]EventHandler),
		listening: make(map[Channel]bool),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Publish sends the event through valkey. Local handlers receive it from the
// subscription, so every process handles each event exactly once.
func (eb *EventBus) Publish(channel Channel, event Event) error {
	log := eb.logger.Function("Publish")

	if event.ID == "" {
		event.ID = uuid.New().String()
	}

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if event.Channel == "" {
		event.Channel = channel
	}

	eventData, err := json.Marshal(event)
	if err != nil {
		return log.Err("failed to marshal event", err, "eventID", event.ID)
	}

	ctx, cancel := context.WithTimeout(eb.ctx, 5*time.Second)
	defer cancel()

	err = eb.client.Do(ctx, eb.client.B().Publish().Channel(channel.String()).Message(string(eventData)).Build()).
		Error()
	if err != nil {
		return log.Err(
			"failed to publish event to valkey",
			err,
			"channel",
			channel,
			"eventID",
			event.ID,
		)
	}

	log.Debug("Event published", "channel", channel, "eventID", event.ID, "eventType", event.Type)
	return nil
}

func (eb *EventBus) PublishMovieAction(userID *int, action MovieAction) error {
	data, err := json.Marshal(action)
	if err != nil {
		return eb.logger.Function("PublishMovieAction").
			Err("failed to marshal movie action", err, "movieID", action.MovieID)
	}

	return eb.Publish(MOVIE_ACTIONS_CHANNEL, Event{
		Type:   MOVIE_ACTION,
		UserID: userID,
		Data:   data,
	})
}

func DecodeMovieAction(event Event) (MovieAction, error) {
	var action MovieAction
	err := json.Unmarshal(event.Data, &action)
	return action, err
}

func (eb *EventBus) PublishSnapshotReload(origin string) error {
	data, err := json.Marshal(SnapshotReload{Origin: origin})
	if err != nil {
		return eb.logger.Function("PublishSnapshotReload").Err("failed to marshal snapshot reload", err)
	}

	return eb.Publish(ADMIN_CHANNEL, Event{
		Type: SNAPSHOT_RELOAD,
		Data: data,
	})
}

func DecodeSnapshotReload(event Event) (SnapshotReload, error) {
	var reload SnapshotReload
	err := json.Unmarshal(event.Data, &reload)
	return reload, err
}

func (eb *EventBus) Subscribe(channel Channel, handler EventHandler) error {
	log := eb.logger.Function("Subscribe")

	eb.mutex.Lock()
	eb.handlers[channel] = append(eb.handlers[channel], handler)
	startListener := !eb.listening[channel]
	eb.listening[channel] = true
	eb.mutex.Unlock()

	log.Info("Handler subscribed to channel", "channel", channel)

	if startListener {
		go eb.listenToChannel(channel)
	}

	return nil
}

func (eb *EventBus) dispatch(channel Channel, event Event) {
	log := eb.logger.Function("dispatch")

	eb.mutex.RLock()
	handlers := append([]EventHandler(nil), eb.handlers[channel]...)
	eb.mutex.RUnlock()

	for i, handler := range handlers {
		go func(h EventHandler, handlerIndex int) {
			if err := h(event); err != nil {
				log.Er(
					"handler failed",
					err,
					"channel",
					channel,
					"eventID",
					event.ID,
					"handlerIndex",
					handlerIndex,
				)
			}
		}(handler, i)
	}
}

func (eb *EventBus) handleMessage(channel Channel, message string) {
	log := eb.logger.Function("handleMessage")

	var event Event
	if err := json.Unmarshal([]byte(message), &event); err != nil {
		log.Er("failed to unmarshal event", err, "channel", channel, "message", message)
		return
	}

	log.Debug("Received event", "channel", channel, "eventID", event.ID, "eventType", event.Type)
	eb.dispatch(channel, event)
}

func (eb *EventBus) listenToChannel(channel Channel) {
	log := eb.logger.Function("listenToChannel")

	log.Info("Starting to listen to channel", "channel", channel)

	err := eb.client.Receive(
		eb.ctx,
		eb.client.B().Subscribe().Channel(channel.String()).Build(),
		func(msg valkey.PubSubMessage) {
			eb.handleMessage(channel, msg.Message)
		},
	)
	if err != nil && eb.ctx.Err() == nil {
		log.Er("failed to listen to channel", err, "channel", channel)
	}
}

func (eb *EventBus) Close() error {
	log := eb.logger.Function("Close")

	eb.cancel()

	log.Info("EventBus closed")
	return nil
}
