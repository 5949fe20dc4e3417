// Package chatfeed is the Go client for the pulsechat API: a thin HTTP
// client plus a polling feed synchronizer.
package chatfeed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// Message mirrors the wire shape of one chat log entry.
type Message struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// User mirrors the wire shape of a registered user.
type User struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// APIError is a non-2xx response, carrying the server's error message.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("pulsechat error %d: %s", e.StatusCode, e.Message)
}

// Client is a pulsechat API client.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:4000"
	}
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) doRequest(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(respBody, &errResp)
		return nil, &APIError{StatusCode: resp.StatusCode, Message: errResp.Message}
	}

	return respBody, nil
}

// Messages retrieves messages with id > sinceID in ascending id order.
// sinceID == 0 fetches the full log.
func (c *Client) Messages(ctx context.Context, sinceID uint) ([]Message, error) {
	path := "/messages"
	if sinceID > 0 {
		path += "?since=" + strconv.FormatUint(uint64(sinceID), 10)
	}

	respBody, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var messages []Message
	if err := json.Unmarshal(respBody, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

type postMessageRequest struct {
	Username string `json:"username,omitempty"`
	UserID   uint   `json:"user_id,omitempty"`
	Text     string `json:"text"`
}

// PostMessage appends a message authored by a free text username.
func (c *Client) PostMessage(ctx context.Context, username, text string) (*Message, error) {
	return c.postMessage(ctx, postMessageRequest{Username: username, Text: text})
}

// PostMessageAs appends a message authored by a registered user id.
func (c *Client) PostMessageAs(ctx context.Context, userID uint, text string) (*Message, error) {
	return c.postMessage(ctx, postMessageRequest{UserID: userID, Text: text})
}

func (c *Client) postMessage(ctx context.Context, req postMessageRequest) (*Message, error) {
	reqBody, _ := json.Marshal(req)
	respBody, err := c.doRequest(ctx, http.MethodPost, "/messages", reqBody)
	if err != nil {
		return nil, err
	}

	var message Message
	if err := json.Unmarshal(respBody, &message); err != nil {
		return nil, err
	}
	return &message, nil
}

// RegisterUser registers a username and returns its user id. Registration is
// idempotent: an already registered username returns the existing id.
func (c *Client) RegisterUser(ctx context.Context, username string) (uint, error) {
	reqBody, _ := json.Marshal(map[string]string{"username": username})
	respBody, err := c.doRequest(ctx, http.MethodPost, "/users", reqBody)
	if err != nil {
		return 0, err
	}

	var resp struct {
		UserID uint `json:"user_id"`
	}
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return 0, err
	}
	return resp.UserID, nil
}

// Users lists registered users.
func (c *Client) Users(ctx context.Context) ([]User, error) {
	respBody, err := c.doRequest(ctx, http.MethodGet, "/users", nil)
	if err != nil {
		return nil, err
	}

	var users []User
	if err := json.Unmarshal(respBody, &users); err != nil {
		return nil, err
	}
	return users, nil
}
