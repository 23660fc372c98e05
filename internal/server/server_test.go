package server

import (
	"bytes"
	"context"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	gossh "golang.org/x/crypto/ssh"

	"github.com/hailam/chessview/internal/protocol"
	"github.com/hailam/chessview/internal/storage"
)

func startServer(t *testing.T, opts ...protocol.Option) string {
	t.Helper()
	srv, err := New(Config{Addr: "127.0.0.1:0"}, nil, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	done := make(chan error, 1)
	go func() { done <- srv.Serve(l) }()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
		if err := <-done; err != nil {
			t.Errorf("Serve: %v", err)
		}
	})
	return l.Addr().String()
}

// play opens a shell session, sends script and returns the output.
func play(t *testing.T, addr, user, script string) string {
	t.Helper()
	client, err := gossh.Dial("tcp", addr, &gossh.ClientConfig{
		User:            user,
		HostKeyCallback: gossh.InsecureIgnoreHostKey(),
		Timeout:         5 * time.Second,
	})
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer client.Close()

	sess, err := client.NewSession()
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	defer sess.Close()

	var out bytes.Buffer
	sess.Stdout = &out
	stdin, err := sess.StdinPipe()
	if err != nil {
		t.Fatalf("StdinPipe: %v", err)
	}
	if err := sess.Shell(); err != nil {
		t.Fatalf("Shell: %v", err)
	}
	if _, err := io.WriteString(stdin, script); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := sess.Wait(); err != nil {
		t.Fatalf("Wait: %v\n%s", err, out.String())
	}
	return out.String()
}

func TestSessionPlaysGame(t *testing.T) {
	addr := startServer(t)
	out := play(t, addr, "ana", "move e2e4\nmove e7e5\nlog\nquit\n")

	for _, want := range []string{"event setValue e4 p white", "log 1. e4 e5", "bye"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("colors sent to a session without a terminal")
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	addr := startServer(t)
	play(t, addr, "ana", "move e2e4\nquit\n")

	// A second session starts from the initial position.
	out := play(t, addr, "ben", "move e2e4\nlog\nquit\n")
	if !strings.Contains(out, "log 1. e4\n") {
		t.Errorf("second session did not get a fresh game:\n%s", out)
	}
}

func TestSessionsShareStorage(t *testing.T) {
	st, err := storage.Open(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	defer st.Close()

	addr := startServer(t, protocol.WithStorage(st))
	play(t, addr, "ana", "move d2d4\nsave\nquit\n")

	out := play(t, addr, "ben", "games\nquit\n")
	if !strings.Contains(out, "games 1") {
		t.Errorf("saved game not visible to another session:\n%s", out)
	}
}

func TestHostKeyFileMissing(t *testing.T) {
	if _, err := New(Config{HostKeyFile: t.TempDir() + "/missing"}, nil); err == nil {
		t.Error("New accepted a missing host key file")
	}
}
