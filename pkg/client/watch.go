package client

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
)

// Event is one broadcaster message. Data is left encoded for the receiver.
type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Watch streams broadcaster events to onBatch until ctx is done. Events that
// arrive within the debounce window of the first one are delivered together.
// A dropped connection is retried after ReconnectDelay, without limit.
func (c *Client) Watch(ctx context.Context, onBatch func([]Event)) error {
	for {
		err := c.watchOnce(ctx, onBatch)
		if ctx.Err() != nil {
			return nil
		}
		c.log.WithError(err).Warnf("websocket disconnected, reconnecting in %s", c.ReconnectDelay)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(c.ReconnectDelay):
		}
	}
}

func (c *Client) watchOnce(ctx context.Context, onBatch func([]Event)) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.WSURL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()
	c.log.WithField("url", c.WSURL).Info("websocket connected")

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-stop:
		}
	}()

	events := make(chan Event)
	readErr := make(chan error, 1)
	go func() {
		for {
			var event Event
			if err := conn.ReadJSON(&event); err != nil {
				readErr <- err
				return
			}
			select {
			case events <- event:
			case <-stop:
				return
			}
		}
	}()

	var (
		batch []Event
		timer *time.Timer
		fire  <-chan time.Time
	)
	for {
		select {
		case event := <-events:
			batch = append(batch, event)
			if fire == nil {
				timer = time.NewTimer(c.Debounce)
				fire = timer.C
			}
		case <-fire:
			onBatch(batch)
			batch, fire = nil, nil
		case err := <-readErr:
			if timer != nil {
				timer.Stop()
			}
			if len(batch) > 0 {
				onBatch(batch)
			}
			return err
		}
	}
}
