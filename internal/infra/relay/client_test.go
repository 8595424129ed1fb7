package relay

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rylimitless/electrolytes/internal/core/port"
)

func testMessage() port.RelayMessage {
	return port.RelayMessage{
		SessionID: "session-1",
		UserID:    "alice",
		Text:      "hello",
		Timestamp: time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC),
	}
}

func newTestClient(url string) *Client {
	return NewClient(Config{
		URL:      url,
		Username: "svc",
		Password: "hunter2",
		Timeout:  2 * time.Second,
	}, nil)
}

func TestClientSendPostsExpectedPayload(t *testing.T) {
	var captured relayRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "svc" || pass != "hunter2" {
			t.Errorf("unexpected basic auth: %s:%s ok=%v", user, pass, ok)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type: %s", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response":"hi there"}`))
	}))
	defer srv.Close()

	reply, err := newTestClient(srv.URL).Send(context.Background(), testMessage())
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if reply != "hi there" {
		t.Fatalf("unexpected reply: %s", reply)
	}

	if captured.SessionID != "session-1" || captured.Message != "hello" || captured.UserID != "alice" {
		t.Fatalf("unexpected payload: %+v", captured)
	}
	if captured.Timestamp != "2025-03-14T15:09:26Z" {
		t.Fatalf("unexpected timestamp: %s", captured.Timestamp)
	}
}

func TestClientSendReplyShapes(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"array output", `[{"output":"from array"}]`, "from array"},
		{"array message", `[{"message":"array msg"}]`, "array msg"},
		{"object response", `{"response":"obj response"}`, "obj response"},
		{"object message", `{"message":"obj msg"}`, "obj msg"},
		{"object output", `{"output":"obj output"}`, "obj output"},
		{"empty array", `[]`, genericAck},
		{"empty object", `{}`, genericAck},
		{"unrecognized", `{"status":"queued"}`, genericAck},
		{"not json", `OK`, genericAck},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			reply, err := newTestClient(srv.URL).Send(context.Background(), testMessage())
			if err != nil {
				t.Fatalf("Send returned error: %v", err)
			}
			if reply != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, reply)
			}
		})
	}
}

func TestClientSendNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Send(context.Background(), testMessage())
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestClientSendConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	_, err := newTestClient(srv.URL).Send(context.Background(), testMessage())
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestClientSendUnconfiguredEndpoint(t *testing.T) {
	_, err := newTestClient("").Send(context.Background(), testMessage())
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
