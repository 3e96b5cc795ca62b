package sink

import (
	"log/slog"

	"github.com/Sigma-Eleven/model/internal/game"
)

// LogSink writes every announcement to a structured logger; it is the
// game master's view of a game.
type LogSink struct {
	log *slog.Logger
}

func NewLogSink(log *slog.Logger) *LogSink {
	if log == nil {
		log = slog.Default()
	}
	return &LogSink{log: log}
}

func (s *LogSink) Emit(a game.Announcement) error {
	args := []any{"seq", a.Seq, "style", string(a.Style)}
	if !a.Public() {
		args = append(args, "visible_to", a.VisibleTo)
	}
	args = append(args, "message", a.Message)
	s.log.Info("announcement", args...)
	return nil
}
