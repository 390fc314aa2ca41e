// Package ipc is the unix-socket control surface of the daemon. One
// JSON request per connection, one JSON reply back.
package ipc

import (
	"encoding/json"
	"fmt"
	log "log/slog"
	"net"
	"os"
	"time"

	"matrix/internal/command"
)

const DefaultSocketPath = "/tmp/matrix.sock"

// Control commands understood by the daemon.
const (
	CmdTrigger = "trigger" // wake the assistant as if the wake word was heard
	CmdSay     = "say"     // speak the argument aloud
	CmdFile    = "file"    // transcribe an audio file and run it as a command
	CmdStats   = "stats"   // dump dispatch statistics
	CmdSleep   = "sleep"   // put an active session back to standby
	CmdStop    = "stop"    // shut the daemon down
)

type Request struct {
	Cmd string `json:"cmd"`
	Arg string `json:"arg,omitempty"`
}

type Reply struct {
	OK      bool           `json:"ok"`
	Message string         `json:"message,omitempty"`
	Stats   *command.Stats `json:"stats,omitempty"`
}

// Server answers control requests on a unix socket.
type Server struct {
	ln net.Listener
}

func StartServer(socketPath string, handler func(Request) Reply) (*Server, error) {
	if socketPath == "" {
		socketPath = DefaultSocketPath
	}
	os.Remove(socketPath)

	ln, err := net.Listen("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("listen: %w", err)
	}

	s := &Server{ln: ln}
	go s.serve(handler)

	return s, nil
}

func (s *Server) serve(handler func(Request) Reply) {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		go handleConn(conn, handler)
	}
}

func (s *Server) Close() error {
	return s.ln.Close()
}

func handleConn(conn net.Conn, handler func(Request) Reply) {
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(5 * time.Second))

	var req Request
	if err := json.NewDecoder(conn).Decode(&req); err != nil {
		log.Warn("Bad control request", "err", err)
		return
	}

	reply := handler(req)
	if err := json.NewEncoder(conn).Encode(reply); err != nil {
		log.Warn("Control reply failed", "err", err)
	}
}

// Send delivers one request to a running daemon and waits for the
// reply.
func Send(socketPath string, req Request) (Reply, error) {
	if socketPath == "" {
		socketPath = DefaultSocketPath
	}

	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return Reply{}, err
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(5 * time.Second))

	if err := json.NewEncoder(conn).Encode(req); err != nil {
		return Reply{}, err
	}

	var reply Reply
	if err := json.NewDecoder(conn).Decode(&reply); err != nil {
		return Reply{}, fmt.Errorf("read reply: %w", err)
	}
	return reply, nil
}
