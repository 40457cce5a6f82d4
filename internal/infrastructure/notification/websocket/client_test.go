package websocket

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dreschagin/chaos-dashboard/internal/application/dto"
	"github.com/dreschagin/chaos-dashboard/pkg/logger"
	"github.com/gorilla/websocket"
)

type inboundFrame struct {
	messageType int
	payload     string
}

// fakeConn отдает заранее заданные входящие frames, затем ошибку закрытия,
// и записывает все исходящие сообщения.
type fakeConn struct {
	mu       sync.Mutex
	inbound  []inboundFrame
	readErr  error
	written  []Message
	controls []int
	closed   int
	writeErr error
}

func (f *fakeConn) SetReadLimit(int64)                {}
func (f *fakeConn) SetReadDeadline(time.Time) error   { return nil }
func (f *fakeConn) SetPongHandler(func(string) error) {}
func (f *fakeConn) SetWriteDeadline(time.Time) error  { return nil }

func (f *fakeConn) NextReader() (int, io.Reader, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.inbound) == 0 {
		return 0, nil, f.readErr
	}
	frame := f.inbound[0]
	f.inbound = f.inbound[1:]
	return frame.messageType, strings.NewReader(frame.payload), nil
}

func (f *fakeConn) WriteJSON(v interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.written = append(f.written, v.(Message))
	return nil
}

func (f *fakeConn) WriteControl(messageType int, _ []byte, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.controls = append(f.controls, messageType)
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestClientListenIgnoresInboundAndUnregistersOnClose(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(logger.New("error"))
	go hub.Run(ctx)

	conn := &fakeConn{
		inbound: []inboundFrame{
			{websocket.TextMessage, `{"type":"trigger"}`},
			{websocket.BinaryMessage, "\x00\x01"},
		},
		readErr: &websocket.CloseError{Code: websocket.CloseGoingAway},
	}
	client := NewClient(hub, conn, logger.New("error"))
	hub.Register(client)
	waitFor(t, "registration", func() bool { return hub.ClientCount() == 1 })

	client.Listen()

	waitFor(t, "unregistration", func() bool { return hub.ClientCount() == 0 })
	if conn.closed == 0 {
		t.Fatal("connection must be closed after the reader stops")
	}
	if len(conn.inbound) != 0 {
		t.Fatalf("all inbound frames must be drained, left %d", len(conn.inbound))
	}
	if len(conn.written) != 0 {
		t.Fatalf("inbound frames must not produce replies, got %d", len(conn.written))
	}
	if _, ok := <-client.send; ok {
		t.Fatal("send queue must be closed after unregistration")
	}
}

func TestClientPushDeliversQueueThenCloseFrame(t *testing.T) {
	conn := &fakeConn{}
	client := NewClient(NewHub(logger.New("error")), conn, logger.New("error"))

	client.Enqueue(Message{Type: MessageTypeState, Data: &dto.DashboardStateDTO{SystemStatus: "healthy"}})
	client.Enqueue(Message{Type: MessageTypeIncident, Data: &dto.IncidentDTO{Stage: "triggered"}})
	close(client.send)

	client.Push()

	if len(conn.written) != 2 || conn.written[0].Type != MessageTypeState || conn.written[1].Type != MessageTypeIncident {
		t.Fatalf("unexpected pushed messages: %+v", conn.written)
	}
	if len(conn.controls) != 1 || conn.controls[0] != websocket.CloseMessage {
		t.Fatalf("expected a single close frame, got %v", conn.controls)
	}
	if conn.closed != 1 {
		t.Fatalf("expected connection closed once, got %d", conn.closed)
	}
}

func TestClientPushStopsOnWriteError(t *testing.T) {
	conn := &fakeConn{writeErr: errors.New("broken pipe")}
	client := NewClient(NewHub(logger.New("error")), conn, logger.New("error"))
	client.Enqueue(Message{Type: MessageTypeState})

	done := make(chan struct{})
	go func() {
		client.Push()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("push loop must stop after a failed write")
	}
	if len(conn.controls) != 0 {
		t.Fatalf("no close frame expected after a failed write, got %v", conn.controls)
	}
}
