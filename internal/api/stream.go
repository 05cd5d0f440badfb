package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/commandhub/audio-studio/internal/observability"
	"github.com/commandhub/audio-studio/internal/studio"
)

const (
	writeWait          = 10 * time.Second
	pongWait           = 60 * time.Second
	pingPeriod         = (pongWait * 9) / 10
	maxInFlightPerConn = 4
)

var upgrader = websocket.Upgrader{
	// The hub is served from a different origin than the API in development
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  4096,
	WriteBufferSize: 64 * 1024,
}

// StreamSession is one websocket connection from the audio room. Requests are
// generated concurrently and replies carry the client's id, so they may
// arrive out of order.
type StreamSession struct {
	conn *websocket.Conn
	gen  AudioGenerator

	// gorilla/websocket allows one concurrent writer
	writeMu sync.Mutex

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	sem    chan struct{}

	correlationID string
	logger        zerolog.Logger
}

// NewStreamSession creates a session bound to conn; it ends when parent is done
// or the connection closes.
func NewStreamSession(parent context.Context, conn *websocket.Conn, gen AudioGenerator) *StreamSession {
	ctx, cancel := context.WithCancel(parent)
	correlationID := observability.NewCorrelationID()
	return &StreamSession{
		conn:          conn,
		gen:           gen,
		ctx:           ctx,
		cancel:        cancel,
		sem:           make(chan struct{}, maxInFlightPerConn),
		correlationID: correlationID,
		logger: observability.WithContext(map[string]interface{}{
			"correlation_id": correlationID,
			"remote_addr":    conn.RemoteAddr().String(),
		}),
	}
}

// HandleStream serves GET /v1/audio/stream
func HandleStream(gen AudioGenerator, maxMessageBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade has already written an error response
			logger := observability.GetLogger()
			logger.Warn().Err(err).Msg("Failed to upgrade connection to WebSocket")
			return
		}
		defer conn.Close()

		conn.SetReadLimit(maxMessageBytes)

		session := NewStreamSession(r.Context(), conn, gen)
		session.Run()
	}
}

// Run reads requests until the connection closes, then waits for in-flight work
func (s *StreamSession) Run() {
	observability.StreamOpened()
	defer observability.StreamClosed()

	s.logger.Info().Msg("Audio stream opened")

	go s.keepAlive()

	s.processIncomingMessages()

	s.cancel()
	s.wg.Wait()

	s.logger.Info().Msg("Audio stream closed")
}

// processIncomingMessages handles all incoming frames
func (s *StreamSession) processIncomingMessages() {
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		msgType, message, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warn().Err(err).Msg("Audio stream read failed")
			}
			return
		}
		if msgType != websocket.TextMessage {
			s.reply(AudioResponse{Error: "expected a JSON text frame"})
			continue
		}

		var req AudioRequest
		if err := json.Unmarshal(message, &req); err != nil {
			s.reply(AudioResponse{Error: "invalid JSON message"})
			continue
		}

		select {
		case s.sem <- struct{}{}:
		case <-s.ctx.Done():
			return
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer func() { <-s.sem }()
			s.handleRequest(req)
		}()
	}
}

func (s *StreamSession) handleRequest(req AudioRequest) {
	requestID := req.ID
	if requestID == "" {
		requestID = observability.NewCorrelationID()
	}

	res, err := s.gen.Generate(s.ctx, studio.GenerateRequest{
		Script:     req.Script,
		Voice:      req.Voice,
		SampleRate: req.SampleRate,
		RequestID:  s.correlationID + ":" + requestID,
	})
	if err != nil {
		if s.ctx.Err() != nil {
			return // Client is gone
		}
		_, msg := errorStatus(err)
		s.reply(AudioResponse{ID: req.ID, Error: msg})
		return
	}

	resp := newAudioResponse(res)
	resp.ID = req.ID
	s.reply(resp)
}

// reply serializes writes to the connection
func (s *StreamSession) reply(resp AudioResponse) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteJSON(resp); err != nil {
		s.logger.Warn().Err(err).Str("id", resp.ID).Msg("Failed to send audio reply")
		s.cancel()
	}
}

// keepAlive pings the client so dead connections are noticed
func (s *StreamSession) keepAlive() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.writeMu.Lock()
			err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			s.writeMu.Unlock()
			if err != nil {
				s.cancel()
				return
			}
		}
	}
}
