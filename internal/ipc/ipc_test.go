package ipc

import (
	"path/filepath"
	"testing"

	"matrix/internal/command"
)

func TestRoundTrip(t *testing.T) {
	socket := filepath.Join(t.TempDir(), "matrix.sock")

	srv, err := StartServer(socket, func(req Request) Reply {
		switch req.Cmd {
		case CmdSay:
			return Reply{OK: true, Message: "said " + req.Arg}
		case CmdStats:
			return Reply{OK: true, Stats: &command.Stats{TotalProcessed: 3, Successful: 2, Failed: 1}}
		default:
			return Reply{OK: false, Message: "unknown command"}
		}
	})
	if err != nil {
		t.Fatalf("StartServer: %v", err)
	}
	defer srv.Close()

	reply, err := Send(socket, Request{Cmd: CmdSay, Arg: "hello"})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if !reply.OK || reply.Message != "said hello" {
		t.Errorf("reply = %+v", reply)
	}

	reply, err = Send(socket, Request{Cmd: CmdStats})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if reply.Stats == nil || reply.Stats.TotalProcessed != 3 {
		t.Errorf("stats reply = %+v", reply)
	}

	reply, err = Send(socket, Request{Cmd: "bogus"})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if reply.OK {
		t.Error("bogus command accepted")
	}
}

func TestSendNoDaemon(t *testing.T) {
	socket := filepath.Join(t.TempDir(), "nobody-home.sock")
	if _, err := Send(socket, Request{Cmd: CmdStats}); err == nil {
		t.Error("Send succeeded without a server")
	}
}
