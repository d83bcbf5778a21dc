package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"ideaforge/internal/generation"
	"ideaforge/internal/types"
)

const (
	screenWSWriteWait = 10 * time.Second
	screenWSPongWait  = 60 * time.Second
	screenWSPingEvery = (screenWSPongWait * 9) / 10
)

var screenWSUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

// screenWSRequest is the first (and only) client frame: the screens to
// render plus generation options.
type screenWSRequest struct {
	Screens      []types.ScreenDescription `json:"screens"`
	UserComments string                    `json:"user_comments,omitempty"`
	Quality      string                    `json:"quality,omitempty"`
}

// screenWSFrame is pushed once per completed screen ("progress"), then
// once with the full ordered array ("done"), or once on failure ("error").
type screenWSFrame struct {
	Type    string   `json:"type"`
	Index   int      `json:"index,omitempty"`
	Code    string   `json:"code,omitempty"`
	Codes   []string `json:"codes,omitempty"`
	Message string   `json:"message,omitempty"`
}

// handleScreenStream generates wireframes for all screens concurrently
// and pushes one frame per completion, in completion order.
func (s *apiServer) handleScreenStream(w http.ResponseWriter, r *http.Request) {
	conn, err := screenWSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	if err := conn.SetReadDeadline(time.Now().Add(screenWSPongWait)); err != nil {
		log.Printf("screen ws set read deadline failed: %v", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(screenWSPongWait))
	})

	writeCh := make(chan screenWSFrame, 32)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		ticker := time.NewTicker(screenWSPingEvery)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case frame := <-writeCh:
				if err := conn.SetWriteDeadline(time.Now().Add(screenWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteJSON(frame); err != nil {
					return
				}
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(screenWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	var req screenWSRequest
	if err := conn.ReadJSON(&req); err != nil {
		cancel()
		<-writerDone
		return
	}

	// Cancel the generation when the client goes away. Started only
	// after the request frame is consumed; gorilla allows one reader.
	go func() {
		for {
			if _, _, err := conn.NextReader(); err != nil {
				cancel()
				return
			}
		}
	}()
	if len(req.Screens) == 0 {
		pushScreenFrame(ctx, writeCh, screenWSFrame{Type: "error", Message: "screens are required"})
		cancel()
		<-writerDone
		return
	}
	quality := generation.QualityFast
	if req.Quality == string(generation.QualityHigh) {
		quality = generation.QualityHigh
	}

	codes, genErr := s.svc.GenerateUICodesStreaming(ctx, req.Screens, req.UserComments, quality,
		func(codes []string, index int, code string) {
			pushScreenFrame(ctx, writeCh, screenWSFrame{
				Type:  "progress",
				Index: index,
				Code:  code,
				Codes: codes,
			})
		})
	if genErr != nil {
		pushScreenFrame(ctx, writeCh, screenWSFrame{Type: "error", Message: genErr.Error()})
	} else {
		pushScreenFrame(ctx, writeCh, screenWSFrame{Type: "done", Codes: codes})
	}

	// Drain the write queue before closing the connection.
	deadline := time.NewTimer(screenWSWriteWait)
	defer deadline.Stop()
	for len(writeCh) > 0 {
		select {
		case <-deadline.C:
			cancel()
			<-writerDone
			return
		case <-time.After(10 * time.Millisecond):
		}
	}
	cancel()
	<-writerDone
}

func pushScreenFrame(ctx context.Context, writeCh chan screenWSFrame, frame screenWSFrame) {
	select {
	case writeCh <- frame:
	case <-ctx.Done():
	}
}
