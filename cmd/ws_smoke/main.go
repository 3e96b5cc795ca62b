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
	"strings"
	"time"

	"github.com/Sigma-Eleven/model/internal/config"
	"github.com/Sigma-Eleven/model/internal/game"
	"github.com/Sigma-Eleven/model/internal/lobby"
	"github.com/Sigma-Eleven/model/internal/logger"
	"github.com/Sigma-Eleven/model/internal/participant"
	"github.com/Sigma-Eleven/model/internal/ws"

	"github.com/gorilla/websocket"
)

// ws_smoke creates a game on a running server, takes its remote seat over the
// websocket and plays it to the end, either as a robot or from the terminal.
func main() {
	cfg := config.LoadConsole()
	logger.Init(cfg.LogLevel, cfg.LogJSON)

	base := flag.String("url", "http://127.0.0.1:"+cfg.AppPort, "server base url")
	seat := flag.String("seat", "Smoke", "remote seat name")
	robots := flag.Int("robots", 4, "robot seats")
	interactive := flag.Bool("interactive", false, "answer turns from the terminal")
	flag.Parse()

	seats := []lobby.SeatSpec{{Name: *seat, Remote: true}}
	for i := 1; i <= *robots; i++ {
		seats = append(seats, lobby.SeatSpec{Name: fmt.Sprintf("Robot%d", i)})
	}

	var created lobby.Created
	if err := postJSON(*base+"/api/v1/games", lobby.CreateRequest{Seats: seats}, &created); err != nil {
		logger.Fatal("create game", "error", err)
	}
	logger.Info("game created", "game", created.GameID)

	// use 127.0.0.1 in -url to prefer IPv4 (avoid resolving to [::1])
	wsURL := strings.Replace(*base, "http", "ws", 1) + "/ws?token=" + created.Seats[0].Token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		logger.Fatal("dial", "error", err)
	}
	defer conn.Close()

	var p game.Participant = participant.NewRobot(*seat, nil)
	if *interactive {
		p = participant.NewConsole(*seat)
	} else {
		p = &printing{Participant: p}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	played := make(chan error, 1)
	go func() { played <- ws.Play(ctx, conn, p) }()

	if err := postJSON(*base+"/api/v1/games/"+created.GameID+"/start", nil, nil); err != nil {
		logger.Fatal("start game", "error", err)
	}

	if err := <-played; err != nil {
		logger.Fatal("play", "error", err)
	}

	var snap lobby.Snapshot
	if err := getJSON(*base+"/api/v1/games/"+created.GameID, &snap); err != nil {
		logger.Fatal("status", "error", err)
	}
	logger.Info("smoke test finished", "status", snap.Status, "winner", snap.Winner, "days", snap.Day)
}

// printing logs the public feed of a robot seat.
type printing struct {
	game.Participant
}

func (p *printing) Receive(a game.Announcement) {
	logger.Info(a.Message, "style", a.Style.Prefix())
	p.Participant.Receive(a)
}

var httpClient = &http.Client{Timeout: 10 * time.Second}

func postJSON(url string, body, out any) error {
	var b []byte
	if body != nil {
		var err error
		if b, err = json.Marshal(body); err != nil {
			return err
		}
	}
	res, err := httpClient.Post(url, "application/json", bytes.NewReader(b))
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		return fmt.Errorf("%s: status %d", url, res.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func getJSON(url string, out any) error {
	res, err := httpClient.Get(url)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		return fmt.Errorf("%s: status %d", url, res.StatusCode)
	}
	return json.NewDecoder(res.Body).Decode(out)
}
