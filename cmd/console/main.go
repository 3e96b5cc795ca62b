package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/Sigma-Eleven/model/internal/config"
	"github.com/Sigma-Eleven/model/internal/game"
	"github.com/Sigma-Eleven/model/internal/logger"
	"github.com/Sigma-Eleven/model/internal/participant"
	"github.com/Sigma-Eleven/model/internal/sink"
	"github.com/Sigma-Eleven/model/internal/variant/elimination"

	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"
)

var robotNames = []string{"Ada", "Boris", "Chen", "Dana", "Eli", "Fay", "Gus", "Hana", "Ivo", "Juno", "Kai"}

// maxPlayers is the largest table the robots can fill next to the named seat.
func maxPlayers(name string) int {
	if name == "" {
		return len(robotNames)
	}
	n := len(robotNames) + 1
	if slices.Contains(robotNames, name) {
		n--
	}
	return n
}

func main() {
	name := flag.String("name", "", "your seat name; empty watches a robot-only game")
	players := flag.Int("players", 6, "total number of seats")
	infiltrators := flag.Int("infiltrators", 0, "number of infiltrators (0 picks a quarter of the table)")
	seedFlag := flag.Uint64("seed", 0, "random seed (0 uses GAME_SEED or a random one)")
	flag.Parse()

	cfg := config.LoadConsole()

	pterm.DefaultLogger.Level = logLevel(cfg.LogLevel)
	logger.Use(slog.New(pterm.NewSlogHandler(&pterm.DefaultLogger)))

	title, err := pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("Infil", pterm.FgDarkGray.ToStyle()),
		putils.LettersFromStringWithStyle("trators", pterm.FgRed.ToStyle()),
	).Srender()
	if err == nil {
		pterm.DefaultCenter.Println(title)
	}

	if limit := maxPlayers(*name); *players < elimination.MinPlayers || *players > limit {
		fmt.Fprintf(os.Stderr, "players must be between %d and %d\n", elimination.MinPlayers, limit)
		os.Exit(2)
	}

	seed := *seedFlag
	if seed == 0 {
		seed = cfg.Seed
	}
	rng := game.NewRand(seed)

	var sinks []game.Sink
	if *name == "" {
		sinks = append(sinks, sink.NewConsoleSink())
	}
	table := game.NewTable(game.WithRand(rng), game.WithLogger(logger.Get()), game.WithSinks(sinks...))

	robots := *players
	if *name != "" {
		if err := table.Roster.Register(*name, participant.NewConsole(*name)); err != nil {
			logger.Fatal("seat", "error", err)
		}
		robots--
	}
	for _, n := range robotNames {
		if robots == 0 {
			break
		}
		if n == *name {
			continue
		}
		if err := table.Roster.Register(n, participant.NewRobot(n, game.NewRand(rng.Uint64()))); err != nil {
			logger.Fatal("seat", "error", err)
		}
		robots--
	}

	g, err := elimination.Setup(table, elimination.Settings{
		Infiltrators: *infiltrators,
		NightRounds:  cfg.DiscussionMaxRounds,
		VoteRetries:  cfg.VoteMaxRetries,
	})
	if err != nil {
		logger.Fatal("setup", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	finished := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			g.Stop()
		case <-finished:
		}
	}()

	st, err := g.Run(context.Background())
	close(finished)
	if err != nil {
		logger.Fatal("game failed", "error", err)
	}
	if st == game.StatusGameOver {
		pterm.Success.Printfln("The %s win after %d day(s).", g.Winner(), g.Day())
	}
}

func logLevel(level string) pterm.LogLevel {
	switch level {
	case "debug":
		return pterm.LogLevelDebug
	case "info":
		return pterm.LogLevelInfo
	case "error":
		return pterm.LogLevelError
	default:
		return pterm.LogLevelWarn
	}
}
