// Package ipc is the unix-socket control channel for the running daemon.
// voicecart-ctl connects, sends one JSON command and reads one JSON reply.
package ipc

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
)

// SocketPath is where the daemon listens.
const SocketPath = "/tmp/voicecart.sock"

// ControlMessage is one command from the control client.
type ControlMessage struct {
	Cmd string `json:"cmd"`
}

// Reply is the daemon's answer.
type Reply struct {
	Ok   bool   `json:"ok"`
	Info string `json:"info,omitempty"`
}

// Handler processes one command and produces the reply.
type Handler func(ControlMessage) Reply

// StartServer listens on SocketPath and dispatches commands to handler. It
// returns after the listener is up; connections are served in the
// background for the life of the process.
func StartServer(handler Handler) error {
	os.Remove(SocketPath)

	ln, err := net.Listen("unix", SocketPath)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				continue
			}
			go handleConn(conn, handler)
		}
	}()

	return nil
}

func handleConn(conn net.Conn, handler Handler) {
	defer conn.Close()

	var msg ControlMessage
	if err := json.NewDecoder(conn).Decode(&msg); err != nil {
		return
	}
	reply := handler(msg)
	json.NewEncoder(conn).Encode(reply)
}

// SendCommand connects to a running daemon, sends cmd and returns the reply.
func SendCommand(cmd string) (Reply, error) {
	conn, err := net.Dial("unix", SocketPath)
	if err != nil {
		return Reply{}, err
	}
	defer conn.Close()

	if err := json.NewEncoder(conn).Encode(ControlMessage{Cmd: cmd}); err != nil {
		return Reply{}, err
	}

	var reply Reply
	if err := json.NewDecoder(conn).Decode(&reply); err != nil {
		return Reply{}, err
	}
	return reply, nil
}
