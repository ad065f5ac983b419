package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"strings"
	"time"
)

// listEvent mirrors the wire shape of the server's feed: list events
// carry person/movie fields, the welcome line carries the feed catalog.
type listEvent struct {
	Type     string    `json:"type"`
	PersonID int64     `json:"person_id"`
	MovieID  int64     `json:"movie_id"`
	Title    string    `json:"title"`
	At       time.Time `json:"at"`
	Feeds    []string  `json:"feeds"`
}

func main() {
	addr := flag.String("addr", "127.0.0.1:7070", "TCP events server address")
	raw := flag.Bool("raw", false, "print raw JSON lines instead of formatted events")
	flag.Parse()

	for {
		if err := tail(*addr, *raw); err != nil {
			log.Printf("[events-client] disconnected: %v", err)
		}
		time.Sleep(1 * time.Second) // auto reconnect
	}
}

func tail(addr string, raw bool) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	log.Printf("[events-client] connected to %s", addr)

	sc := bufio.NewScanner(conn)
	for sc.Scan() {
		line := sc.Bytes()
		if raw {
			fmt.Println(string(line))
			continue
		}
		fmt.Println(formatEvent(line))
	}
	if err := sc.Err(); err != nil {
		return err
	}
	return os.ErrClosed
}

// formatEvent renders one feed line for the terminal, e.g.
//
//	15:04:05 movie.added person=1 movie=7 "Alien"
//
// Lines that don't parse as events are passed through untouched.
func formatEvent(line []byte) string {
	var ev listEvent
	if err := json.Unmarshal(line, &ev); err != nil || ev.Type == "" {
		return string(line)
	}

	if ev.Type == "welcome" {
		return fmt.Sprintf("connected; feeds: %s", strings.Join(ev.Feeds, ", "))
	}

	var b strings.Builder
	if !ev.At.IsZero() {
		b.WriteString(ev.At.Local().Format("15:04:05"))
		b.WriteByte(' ')
	}
	b.WriteString(ev.Type)
	if ev.PersonID != 0 {
		fmt.Fprintf(&b, " person=%d", ev.PersonID)
	}
	if ev.MovieID != 0 {
		fmt.Fprintf(&b, " movie=%d", ev.MovieID)
	}
	if ev.Title != "" {
		fmt.Fprintf(&b, " %q", ev.Title)
	}
	return b.String()
}
