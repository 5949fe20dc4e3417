package chatfeed

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_Messages(t *testing.T) {
	t.Run("since is sent as a query parameter", func(t *testing.T) {
		var gotSince string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotSince = r.URL.Query().Get("since")
			_ = json.NewEncoder(w).Encode([]Message{})
		}))
		defer server.Close()

		client := NewClient(server.URL)
		if _, err := client.Messages(context.Background(), 42); err != nil {
			t.Fatalf("Messages failed: %v", err)
		}
		if gotSince != "42" {
			t.Errorf("since = %q, want 42", gotSince)
		}
	})

	t.Run("zero cursor omits the parameter", func(t *testing.T) {
		var hadSince bool
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hadSince = r.URL.Query().Has("since")
			_ = json.NewEncoder(w).Encode([]Message{})
		}))
		defer server.Close()

		client := NewClient(server.URL)
		if _, err := client.Messages(context.Background(), 0); err != nil {
			t.Fatalf("Messages failed: %v", err)
		}
		if hadSince {
			t.Error("since parameter sent for zero cursor")
		}
	})
}

func TestClient_ErrorResponses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Message text cannot be empty"})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.PostMessage(context.Background(), "alice", "")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", apiErr.StatusCode)
	}
	if apiErr.Message != "Message text cannot be empty" {
		t.Errorf("message = %q", apiErr.Message)
	}
}

func TestClient_RegisterUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Username != "alice" {
			t.Errorf("username = %q, want alice", req.Username)
		}
		_ = json.NewEncoder(w).Encode(map[string]uint{"user_id": 7})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	userID, err := client.RegisterUser(context.Background(), "alice")
	if err != nil {
		t.Fatalf("RegisterUser failed: %v", err)
	}
	if userID != 7 {
		t.Errorf("userID = %d, want 7", userID)
	}
}
