// boardbot is a headless board client. It signs in, joins a room, replays
// the room's history and keeps a live drawing engine in sync with the
// broadcast stream. With -draw it also draws a rectangle, which exercises
// the full emit, persist and echo path.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/alpranjal28/mspaint-sub000/internal/canvas"
	"github.com/alpranjal28/mspaint-sub000/internal/client"
	"github.com/alpranjal28/mspaint-sub000/internal/domain"
	"github.com/alpranjal28/mspaint-sub000/internal/history"
	"github.com/alpranjal28/mspaint-sub000/internal/hub"
)

func main() {
	serverURL := flag.String("server", "http://localhost:8080", "HTTP API base URL")
	wsURL := flag.String("ws", "ws://localhost:8080/ws", "realtime endpoint URL")
	username := flag.String("username", "", "account username")
	password := flag.String("password", "", "account password")
	shareCode := flag.String("share-code", "", "room share code to join")
	roomID := flag.Uint("room", 0, "room id (alternative to -share-code)")
	draw := flag.Bool("draw", false, "draw a demo rectangle after joining")
	flag.Parse()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if *username == "" || *password == "" {
		logrus.Fatal("username and password are required")
	}
	if *shareCode == "" && *roomID == 0 {
		logrus.Fatal("either -share-code or -room is required")
	}

	ctx := context.Background()

	token, err := login(ctx, *serverURL, *username, *password)
	if err != nil {
		logrus.Fatalf("Login failed: %v", err)
	}
	logrus.Info("Logged in")

	room := *roomID
	if *shareCode != "" {
		room, err = joinRoom(ctx, *serverURL, token, *shareCode)
		if err != nil {
			logrus.Fatalf("Join failed: %v", err)
		}
		logrus.WithField("room_id", room).Info("Joined room")
	}

	boardClient, err := client.Dial(ctx, *wsURL, token)
	if err != nil {
		logrus.Fatalf("Dial failed: %v", err)
	}
	defer boardClient.Close()

	engine := canvas.NewEngine(canvas.NewCamera(), func(p domain.Payload) {
		if err := boardClient.SendPayload(room, p); err != nil {
			logrus.WithError(err).Error("Failed to send payload")
		}
	})

	loader := history.NewLoader(*serverURL, token)
	payloads, err := loader.Load(ctx, room)
	if err != nil {
		logrus.Fatalf("History load failed: %v", err)
	}
	engine.LoadHistory(payloads)
	logrus.WithField("shapes", len(engine.Items())).Info("History replayed")

	boardClient.OnBroadcast(func(msg hub.OutboundMessage) {
		if msg.RoomID != room {
			return
		}
		payload, err := domain.ParsePayload([]byte(msg.Message))
		if err != nil {
			logrus.WithField("error", err.Error()).Warn("Skipping malformed broadcast")
			return
		}
		engine.ApplyBroadcast(payload)
		logrus.WithFields(logrus.Fields{
			"user_id":  msg.UserID,
			"function": payload.Function,
			"shapes":   len(engine.Items()),
		}).Info("Broadcast applied")
	})
	go boardClient.Run()

	if err := boardClient.Subscribe(room); err != nil {
		logrus.Fatalf("Subscribe failed: %v", err)
	}

	if *draw {
		engine.SetTool(canvas.ToolRect)
		engine.PointerDown(10, 10)
		engine.PointerMove(40, 30)
		engine.PointerUp(60, 40)
		logrus.Info("Demo rectangle drawn")
	}

	// Roll back optimistic shapes whose echoes never arrive.
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case now := <-ticker.C:
			for _, id := range engine.ExpirePending(now) {
				logrus.WithField("id", id).Warn("Pending shape expired without echo")
			}
		case <-boardClient.Done():
			logrus.Info("Connection closed by server")
			return
		case <-quit:
			logrus.Info("Shutting down")
			return
		}
	}
}

func login(ctx context.Context, baseURL, username, password string) (string, error) {
	body, _ := json.Marshal(map[string]string{"username": username, "password": password})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/api/auth/login", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login returned status %d", resp.StatusCode)
	}

	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	return out.Token, nil
}

func joinRoom(ctx context.Context, baseURL, token, shareCode string) (uint, error) {
	body, _ := json.Marshal(map[string]string{"shareCode": shareCode})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/api/rooms/join", bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("join returned status %d", resp.StatusCode)
	}

	var out struct {
		RoomID uint `json:"roomId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, err
	}
	return out.RoomID, nil
}
