package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/Sigma-Eleven/model/internal/game"

	"github.com/gorilla/websocket"
)

// Play drives a seat from the player's side of the socket: every request is
// answered by p and every announcement is handed to p.Receive. It returns nil
// once the server closes the socket at the end of the game.
func Play(ctx context.Context, conn *websocket.Conn, p game.Participant) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		_, msg, err := conn.ReadMessage()
		if err != nil {
			var ce *websocket.CloseError
			if errors.As(err, &ce) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}

		var head struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(msg, &head); err != nil {
			continue
		}

		switch head.Type {
		case MsgAnnounce:
			var a AnnouncePayload
			if json.Unmarshal(msg, &a) == nil {
				p.Receive(a.Announcement)
			}
		case MsgSpeak, MsgChoose:
			var req RequestPayload
			if err := json.Unmarshal(msg, &req); err != nil {
				continue
			}
			var value string
			if req.Type == MsgSpeak {
				value, err = p.Speak(ctx, req.Prompt)
			} else {
				value, err = p.Choose(ctx, req.Prompt, req.Candidates, req.AllowSkip)
			}
			if err != nil {
				return err
			}
			if err := conn.WriteJSON(ReplyPayload{Type: MsgReply, ID: req.ID, Value: value}); err != nil {
				return fmt.Errorf("write reply: %w", err)
			}
		}
	}
}
