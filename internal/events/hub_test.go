package events

import (
	"bufio"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readLine(t *testing.T, conn net.Conn) string {
	t.Helper()

	lines := make(chan string, 1)
	go func() {
		sc := bufio.NewScanner(conn)
		if sc.Scan() {
			lines <- sc.Text()
		}
		close(lines)
	}()

	select {
	case line := <-lines:
		return line
	case <-time.After(3 * time.Second):
		t.Fatal("no line received")
		return ""
	}
}

func TestBroadcastReachesTCPClient(t *testing.T) {
	hub := NewHub()

	server, client := net.Pipe()
	defer client.Close()
	hub.Add(server)

	go hub.Broadcast(ListEvent{
		Type:     TypeMovieAdded,
		PersonID: 1,
		MovieID:  7,
		Title:    "Alien",
		At:       time.Now().UTC(),
	})

	var ev ListEvent
	require.NoError(t, json.Unmarshal([]byte(readLine(t, client)), &ev))
	assert.Equal(t, TypeMovieAdded, ev.Type)
	assert.Equal(t, int64(1), ev.PersonID)
	assert.Equal(t, int64(7), ev.MovieID)
	assert.Equal(t, "Alien", ev.Title)
}

func TestWelcomeAnnouncesFeeds(t *testing.T) {
	hub := NewHub()

	server, client := net.Pipe()
	defer client.Close()
	hub.Add(server)

	go hub.Welcome(server)

	var w struct {
		Type      string   `json:"type"`
		Transport string   `json:"transport"`
		Feeds     []string `json:"feeds"`
		Clients   int      `json:"clients"`
	}
	require.NoError(t, json.Unmarshal([]byte(readLine(t, client)), &w))
	assert.Equal(t, "welcome", w.Type)
	assert.Equal(t, "tcp", w.Transport)
	assert.Equal(t, Feeds(), w.Feeds)
	assert.Equal(t, 1, w.Clients)
}

func TestHubStatsAndRemove(t *testing.T) {
	hub := NewHub()

	server, client := net.Pipe()
	defer client.Close()
	hub.Add(server)

	stats := hub.Stats()
	assert.Equal(t, 1, stats.TCPClients)
	assert.Equal(t, 0, stats.WSClients)

	hub.Remove(server)
	assert.Zero(t, hub.Count())
}
