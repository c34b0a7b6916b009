package realtime

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/yungbote/courseware-backend/internal/platform/logger"
)

func recvMessage(t *testing.T, ch <-chan SSEMessage, timeout time.Duration) SSEMessage {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for SSE message")
	}
	return SSEMessage{}
}

func TestSSEHubDeliversInOrderAndReconnects(t *testing.T) {
	hub := NewSSEHub(logger.Nop())
	channel := UserChannel("user-1")

	clientA := hub.NewSSEClient("user-1")
	hub.AddChannel(clientA, channel)

	hub.Broadcast(SSEMessage{Channel: channel, Event: SSEEventChapterCompleted, Data: map[string]any{"seq": 1}})
	hub.Broadcast(SSEMessage{Channel: channel, Event: SSEEventCourseCompleted, Data: map[string]any{"seq": 2}})

	if got := recvMessage(t, clientA.Outbound, time.Second); got.Event != SSEEventChapterCompleted {
		t.Fatalf("first event: want=%s got=%s", SSEEventChapterCompleted, got.Event)
	}
	if got := recvMessage(t, clientA.Outbound, time.Second); got.Event != SSEEventCourseCompleted {
		t.Fatalf("second event: want=%s got=%s", SSEEventCourseCompleted, got.Event)
	}

	hub.CloseClient(clientA)
	hub.CloseClient(clientA)
	if _, ok := <-clientA.Outbound; ok {
		t.Fatalf("clientA outbound should be closed after disconnect")
	}
	if n := hub.SubscriberCount(channel); n != 0 {
		t.Fatalf("subscribers after close: want=0 got=%d", n)
	}

	clientB := hub.NewSSEClient("user-1")
	hub.AddChannel(clientB, channel)
	hub.Broadcast(SSEMessage{Channel: channel, Event: SSEEventAssessmentGraded})
	if got := recvMessage(t, clientB.Outbound, time.Second); got.Event != SSEEventAssessmentGraded {
		t.Fatalf("reconnect event: want=%s got=%s", SSEEventAssessmentGraded, got.Event)
	}
}

func TestSSEHubDoesNotCrossUserChannels(t *testing.T) {
	hub := NewSSEHub(logger.Nop())
	a := hub.NewSSEClient("user-a")
	b := hub.NewSSEClient("user-b")
	hub.AddChannel(a, UserChannel("user-a"))
	hub.AddChannel(b, UserChannel("user-b"))

	hub.Broadcast(SSEMessage{Channel: UserChannel("user-a"), Event: SSEEventEnrolled})
	recvMessage(t, a.Outbound, time.Second)
	select {
	case msg := <-b.Outbound:
		t.Fatalf("user-b received a message for user-a: %+v", msg)
	default:
	}
}

func TestSSEHubDropsWhenBufferFull(t *testing.T) {
	hub := NewSSEHub(logger.Nop())
	c := hub.NewSSEClient("user-1")
	hub.AddChannel(c, "ch")
	for i := 0; i < outboundBuffer+5; i++ {
		hub.Broadcast(SSEMessage{Channel: "ch", Event: SSEEventChapterProgress})
	}
	if len(c.Outbound) != outboundBuffer {
		t.Fatalf("buffered: want=%d got=%d", outboundBuffer, len(c.Outbound))
	}
}

func TestSSEHubServeHTTPWritesEvents(t *testing.T) {
	hub := NewSSEHub(logger.Nop())
	client := hub.NewSSEClient("user-1")
	hub.AddChannel(client, "ch")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeHTTP(w, r, client)
	}))
	defer srv.Close()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type: %q", ct)
	}

	hub.Broadcast(SSEMessage{Channel: "ch", Event: SSEEventChapterCompleted, Data: map[string]any{"chapter_id": "c1"}})

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if strings.TrimSpace(line) != "event: ChapterCompleted" {
		t.Fatalf("event line: %q", line)
	}
	data, _ := reader.ReadString('\n')
	if !strings.Contains(data, `"chapter_id":"c1"`) {
		t.Fatalf("data line: %q", data)
	}
	hub.CloseClient(client)
}

func TestSSEHubShutdownEndsStreams(t *testing.T) {
	hub := NewSSEHub(logger.Nop())
	client := hub.NewSSEClient("user-1")
	hub.AddChannel(client, "ch")
	defer hub.CloseClient(client)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeHTTP(w, r, client)
	}))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	hub.Shutdown()
	hub.Shutdown()

	done := make(chan error, 1)
	go func() {
		_, err := io.ReadAll(resp.Body)
		done <- err
	}()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("read after shutdown: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("stream still open after hub shutdown")
	}

	late := hub.NewSSEClient("user-2")
	defer hub.CloseClient(late)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/events/stream", nil)
	finished := make(chan struct{})
	go func() {
		hub.ServeHTTP(rec, req, late)
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatalf("new stream opened after shutdown")
	}
}
