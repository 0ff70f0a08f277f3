package gateway

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"

	"github.com/JochenSunaert/PlotTwist/logger"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 54 * time.Second
	sendBuffer = 256
)

// Client is one connected participant: a host display or a player.
type Client struct {
	ID     string
	conn   *websocket.Conn
	send   chan []byte
	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
}

func newClient(id string, c *websocket.Conn) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		ID:     id,
		conn:   c,
		send:   make(chan []byte, sendBuffer),
		ctx:    ctx,
		cancel: cancel,
	}
}

// cleanup cancels the context and closes the connection. The send channel
// stays open so concurrent notifier pushes cannot hit a closed channel.
func (c *Client) cleanup() {
	c.once.Do(func() {
		c.cancel()
		c.conn.Close()
	})
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.cleanup()
	}()

	for {
		select {
		case <-c.ctx.Done():
			return

		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Error("write to participant %s: %v", c.ID, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Error("ping participant %s: %v", c.ID, err)
				return
			}
		}
	}
}
