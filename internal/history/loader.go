// Package history fetches a room's persisted message log and turns it into
// the ordered payload sequence the drawing engine replays at mount.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/alpranjal28/mspaint-sub000/internal/domain"
)

// ErrUnauthorized signals a 401 from the history endpoint; the caller is
// expected to refresh its token and retry once.
var ErrUnauthorized = errors.New("history: unauthorized")

type chatRecord struct {
	Message string `json:"message"`
	Erased  bool   `json:"erased"`
}

type historyResponse struct {
	Chats []chatRecord `json:"chats"`
}

// Loader fetches chat history over the room HTTP API.
type Loader struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewLoader(baseURL, token string) *Loader {
	return &Loader{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Load returns the room's payloads in persistence order. Erased records and
// records whose message fails the payload checks are filtered out; one bad
// record never fails the load.
func (l *Loader) Load(ctx context.Context, roomID uint) ([]domain.Payload, error) {
	url := fmt.Sprintf("%s/api/rooms/%d/chats", l.baseURL, roomID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("history: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+l.token)

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("history: fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("history: unexpected status %d", resp.StatusCode)
	}

	var body historyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("history: decode response: %w", err)
	}

	payloads := make([]domain.Payload, 0, len(body.Chats))
	for _, chat := range body.Chats {
		if chat.Erased {
			continue
		}
		payload, err := domain.ParsePayload([]byte(chat.Message))
		if err != nil {
			logrus.WithField("error", err.Error()).Debug("Skipping malformed history record")
			continue
		}
		payloads = append(payloads, payload)
	}
	return payloads, nil
}
