package stt

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	ws "github.com/gorilla/websocket"
)

// ServerRecognizer streams frames to a remote vosk-server over a websocket.
// The wire protocol: a JSON config message on connect, binary PCM frames
// afterwards, and one JSON reply per frame carrying either "partial" or
// "text". Sending {"eof":1} flushes the final result.
type ServerRecognizer struct {
	url  string
	conn *ws.Conn
}

type serverConfig struct {
	Config struct {
		SampleRate int `json:"sample_rate"`
	} `json:"config"`
}

type serverReply struct {
	Partial *string `json:"partial"`
	Text    *string `json:"text"`
}

func NewServer(url string) (*ServerRecognizer, error) {
	if url == "" {
		return nil, errors.New("empty recognition server url")
	}
	s := &ServerRecognizer{url: url}
	if err := s.dial(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *ServerRecognizer) dial() error {
	dialer := ws.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.Dial(s.url, nil)
	if err != nil {
		return fmt.Errorf("dial recognition server %s: %w", s.url, err)
	}

	var cfg serverConfig
	cfg.Config.SampleRate = SampleRate
	payload, _ := json.Marshal(cfg)
	if err := conn.WriteMessage(ws.TextMessage, payload); err != nil {
		conn.Close()
		return fmt.Errorf("send server config: %w", err)
	}

	s.conn = conn
	return nil
}

func (s *ServerRecognizer) Feed(frame []byte) (Event, error) {
	if s.conn == nil {
		return Event{}, errors.New("recognition server connection closed")
	}
	if err := s.conn.WriteMessage(ws.BinaryMessage, frame); err != nil {
		return Event{}, fmt.Errorf("send frame: %w", err)
	}

	reply, err := s.read()
	if err != nil {
		return Event{}, err
	}
	if reply.Text != nil {
		return Event{Kind: KindFinal, Text: *reply.Text}, nil
	}
	if reply.Partial != nil {
		return Event{Kind: KindPartial, Text: *reply.Partial}, nil
	}
	return Event{Kind: KindPartial}, nil
}

func (s *ServerRecognizer) FinalResult() (string, error) {
	if s.conn == nil {
		return "", errors.New("recognition server connection closed")
	}
	if err := s.conn.WriteMessage(ws.TextMessage, []byte(`{"eof" : 1}`)); err != nil {
		return "", fmt.Errorf("send eof: %w", err)
	}
	reply, err := s.read()
	if err != nil {
		return "", err
	}
	if reply.Text != nil {
		return *reply.Text, nil
	}
	return "", nil
}

// Reset reconnects. vosk-server resets its recognizer after an eof, but a
// fresh connection also covers the case where the previous attempt died
// mid-stream.
func (s *ServerRecognizer) Reset() {
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
	if err := s.dial(); err != nil {
		// Left disconnected; the next Feed reports the failure.
		s.conn = nil
	}
}

func (s *ServerRecognizer) Close() error {
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	if err != nil && !isClosed(err) {
		return err
	}
	return nil
}

func (s *ServerRecognizer) read() (serverReply, error) {
	_, msg, err := s.conn.ReadMessage()
	if err != nil {
		if isClosed(err) {
			return serverReply{}, fmt.Errorf("recognition server closed connection: %w", err)
		}
		return serverReply{}, fmt.Errorf("read server reply: %w", err)
	}
	var reply serverReply
	if err := json.Unmarshal(msg, &reply); err != nil {
		return serverReply{}, fmt.Errorf("parse server reply: %w (raw: %s)", err, msg)
	}
	return reply, nil
}

func isClosed(err error) bool {
	return ws.IsCloseError(err,
		ws.CloseNormalClosure,
		ws.CloseGoingAway,
		ws.CloseAbnormalClosure)
}
