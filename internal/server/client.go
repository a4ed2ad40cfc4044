package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"borg-perception/internal/engine"
	"borg-perception/pkg/api"
	"borg-perception/pkg/logger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Настройки WebSocket
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	queryTimeout   = 2 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client - посредник между Websocket и сервисом восприятия. Поток
// только для чтения: клиент получает снимки и может запросить клетку.
type Client struct {
	Service *engine.Service
	Conn    *websocket.Conn
	Send    chan any
	ID      uuid.UUID

	// done закрывает writePump при выходе.
	done chan struct{}
	log  *logrus.Entry
}

func NewClient(svc *engine.Service, conn *websocket.Conn) *Client {
	id := uuid.New()
	return &Client{
		Service: svc,
		Conn:    conn,
		Send:    make(chan any, 32),
		ID:      id,
		done:    make(chan struct{}),
		log:     logger.Component("ws").WithField("client", id.String()),
	}
}

// readPump читает запросы клиента
func (c *Client) readPump() {
	defer func() {
		c.Service.Hub.Unregister(c.ID)
		if err := c.Conn.Close(); err != nil {
			c.log.WithError(err).Debug("failed to close websocket connection")
		}
		c.log.Info("Client disconnected")
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.log.WithError(err).Warn("failed to set read deadline")
	}
	c.Conn.SetPongHandler(func(string) error {
		if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			c.log.WithError(err).Warn("failed to set pong read deadline")
		}
		return nil
	})

	// ПОДПИСКА НА ОБНОВЛЕНИЯ
	updates := c.Service.Hub.Register(c.ID)
	go c.forward(updates)
	c.log.Info("Client subscribed")

	// Первый снимок сразу, не дожидаясь тика
	select {
	case c.Send <- c.Service.Latest():
	case <-c.done:
	}

	for {
		var cmd api.ClientCommand
		if err := c.Conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.WithError(err).Error("WS Error")
			}
			break
		}
		c.handle(cmd)
	}
}

func (c *Client) handle(cmd api.ClientCommand) {
	switch strings.ToUpper(cmd.Action) {
	case "SNAPSHOT":
		c.Service.Hub.SendTo(c.ID, c.Service.Latest())
	case "CELL":
		var p api.PositionPayload
		if err := json.Unmarshal(cmd.Payload, &p); err != nil {
			c.log.WithError(err).Debug("bad CELL payload")
			return
		}
		if err := p.Validate(); err != nil {
			c.log.WithError(err).Debug("bad CELL position")
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
		defer cancel()
		var cell api.CellView
		if err := c.Service.Query(ctx, func(e *engine.PerceptionEngine) { cell = e.CellSnapshot(p.X, p.Y) }); err != nil {
			c.log.WithError(err).Warn("cell query failed")
			return
		}
		select {
		case c.Send <- cell:
		default:
		}
	default:
		c.log.WithField("action", cmd.Action).Debug("Unknown action")
	}
}

// forward перекладывает снимки хаба в Send, пока хаб не закроет канал.
// После выхода writePump снимки просто выбрасываются.
func (c *Client) forward(updates <-chan api.Snapshot) {
	for msg := range updates {
		select {
		case c.Send <- msg:
		case <-c.done:
		}
	}
	close(c.Send)
}

// writePump отправляет данные клиенту + Ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		close(c.done)
		ticker.Stop()
		if err := c.Conn.Close(); err != nil {
			c.log.WithError(err).Debug("failed to close websocket connection in writePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.Send:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set write deadline")
			}
			if !ok {
				if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					c.log.WithError(err).Debug("write close message failed")
				}
				return
			}
			if err := c.Conn.WriteJSON(message); err != nil {
				c.log.WithError(err).Debug("write json message failed")
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}
