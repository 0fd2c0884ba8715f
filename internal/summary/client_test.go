package summary

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sakif/seedhaven/internal/apperror"
	"github.com/sakif/seedhaven/internal/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testOrder() model.Order {
	return model.Order{
		ID:     "order-abc123",
		Date:   "2026-08-30",
		Status: model.StatusProcessing,
		Items: []model.CartItem{
			{Product: model.Product{ID: "p1", Name: "Individual White Seed", Price: 150}, Quantity: 3},
			{Product: model.Product{ID: "custom-x", Name: "Custom Seed Pack", Price: 1275}, Quantity: 1},
		},
		Total: 2363,
	}
}

func testUser() model.User {
	return model.User{ID: "user-1", Name: "Ada", Email: "ada@example.com"}
}

func geminiReply(text string) string {
	quoted, _ := json.Marshal(text)
	return `{"candidates":[{"content":{"parts":[{"text":` + string(quoted) + `}]}}]}`
}

func TestSummarize_ReturnsGeneratedText(t *testing.T) {
	var gotPath, gotKey string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, geminiReply("<h1>Thanks, Ada!</h1><p>Your seeds ship soon.</p>"))
	}))
	defer server.Close()

	client := NewClient("test-key", testLogger(),
		WithBaseURL(server.URL),
		WithHTTPClient(server.Client()),
	)
	text, err := client.Summarize(context.Background(), testOrder(), testUser())
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if text != "<h1>Thanks, Ada!</h1><p>Your seeds ship soon.</p>" {
		t.Errorf("text = %q", text)
	}

	if gotPath != "/v1beta/models/gemini-2.0-flash:generateContent" {
		t.Errorf("path = %q", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("api key header = %q", gotKey)
	}

	// The prompt carries the order facts and one line per item.
	prompt := string(gotBody)
	for _, fragment := range []string{"Ada", "order-abc123", "$23.63", "3 x Individual White Seed", "1 x Custom Seed Pack"} {
		if !strings.Contains(prompt, fragment) {
			t.Errorf("request body missing %q", fragment)
		}
	}
}

func TestSummarize_EmptyKeyFailsFastWithoutNetwork(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	client := NewClient("", testLogger(), WithBaseURL(server.URL))
	_, err := client.Summarize(context.Background(), testOrder(), testUser())
	if !errors.Is(err, apperror.ErrUnavailable) {
		t.Fatalf("error = %v, want ErrUnavailable", err)
	}
	if called {
		t.Error("client made a network call with no API key")
	}
}

func TestSummarize_NonOKStatusIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"quota exceeded"}}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient("test-key", testLogger(), WithBaseURL(server.URL))
	_, err := client.Summarize(context.Background(), testOrder(), testUser())
	if !errors.Is(err, apperror.ErrUnavailable) {
		t.Errorf("error = %v, want ErrUnavailable", err)
	}
}

func TestSummarize_EmptyCandidatesIsUnavailable(t *testing.T) {
	replies := []string{
		`{"candidates":[]}`,
		`{"candidates":[{"content":{"parts":[]}}]}`,
		`{"candidates":[{"content":{"parts":[{"text":"   "}]}}]}`,
		`not json at all`,
	}
	for _, reply := range replies {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, reply)
		}))

		client := NewClient("test-key", testLogger(), WithBaseURL(server.URL))
		_, err := client.Summarize(context.Background(), testOrder(), testUser())
		if !errors.Is(err, apperror.ErrUnavailable) {
			t.Errorf("reply %q: error = %v, want ErrUnavailable", reply, err)
		}
		server.Close()
	}
}

func TestSummarize_UnreachableServerIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // shut it down first

	client := NewClient("test-key", testLogger(), WithBaseURL(server.URL))
	_, err := client.Summarize(context.Background(), testOrder(), testUser())
	if !errors.Is(err, apperror.ErrUnavailable) {
		t.Errorf("error = %v, want ErrUnavailable", err)
	}
}
