package websocket

import (
	"errors"
	"io"
	"time"

	"github.com/dreschagin/chaos-dashboard/pkg/logger"
	"github.com/gorilla/websocket"
)

const (
	writeWait = 10 * time.Second

	// Без pong за это время соединение считается потерянным
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10

	// Канал только на отправку: от браузера ожидаются лишь control frames
	maxInboundSize = 512

	sendBuffer = 256
)

// Conn - часть *websocket.Conn, которой пользуется клиент
type Conn interface {
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
	NextReader() (messageType int, r io.Reader, err error)
	SetWriteDeadline(t time.Time) error
	WriteJSON(v interface{}) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	Close() error
}

// Client - подписчик dashboard'а. Получает state и incident сообщения,
// входящие data frames отбрасываются.
type Client struct {
	conn   Conn
	hub    *Hub
	send   chan Message
	logger *logger.Logger
}

// NewClient создает подписчика поверх установленного соединения
func NewClient(hub *Hub, conn Conn, logger *logger.Logger) *Client {
	return &Client{
		conn:   conn,
		hub:    hub,
		send:   make(chan Message, sendBuffer),
		logger: logger,
	}
}

// Enqueue кладет сообщение в очередь клиента до регистрации в hub (начальный snapshot)
func (c *Client) Enqueue(message Message) bool {
	select {
	case c.send <- message:
		return true
	default:
		return false
	}
}

// Listen держит входящую сторону соединения: продлевает deadline по pong
// и отбрасывает все, что присылает браузер. При обрыве снимает клиента с hub.
func (c *Client) Listen() {
	defer func() {
		c.hub.Unregister(c)
		c.close()
	}()

	c.conn.SetReadLimit(maxInboundSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error("WebSocket set read deadline error", err)
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		messageType, r, err := c.conn.NextReader()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Warn("WebSocket connection lost", "error", err.Error())
			}
			return
		}
		n, err := io.Copy(io.Discard, r)
		if err != nil {
			c.logger.Warn("WebSocket inbound frame rejected", "error", err.Error())
			return
		}
		c.logger.Debug("WebSocket inbound frame ignored", "message_type", messageType, "bytes", n)
	}
}

// Push отправляет сообщения из очереди и держит соединение живым ping'ами.
// Завершается, когда hub закрывает очередь или запись не удалась.
func (c *Client) Push() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				err := c.conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "dashboard shutting down"),
					time.Now().Add(writeWait))
				if err != nil && !errors.Is(err, websocket.ErrCloseSent) {
					c.logger.Debug("WebSocket close frame not delivered", "error", err.Error())
				}
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error("WebSocket set write deadline error", err)
				return
			}
			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Warn("WebSocket push failed", "type", message.Type, "error", err.Error())
				return
			}

		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				c.logger.Debug("WebSocket ping failed", "error", err.Error())
				return
			}
		}
	}
}

func (c *Client) close() {
	if err := c.conn.Close(); err != nil {
		c.logger.Debug("WebSocket close error", "error", err.Error())
	}
}
