package main

import (
	"bytes"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/hailam/chessview/internal/storage"
)

func TestWelcomeOnce(t *testing.T) {
	st, err := storage.Open(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	defer st.Close()

	var out bytes.Buffer
	welcome(st, &out, zap.NewNop())
	if out.String() != "welcome to chessview\n" {
		t.Errorf("first launch printed %q", out.String())
	}

	out.Reset()
	welcome(st, &out, zap.NewNop())
	if out.Len() != 0 {
		t.Errorf("second launch printed %q", out.String())
	}
}

func TestWelcomeLogsStorageErrors(t *testing.T) {
	st, err := storage.Open(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	st.Close()

	core, logs := observer.New(zap.WarnLevel)
	var out bytes.Buffer
	welcome(st, &out, zap.New(core))
	if logs.Len() == 0 {
		t.Error("storage error on a closed database was not logged")
	}
}

func TestWelcomeWithoutStorage(t *testing.T) {
	var out bytes.Buffer
	welcome(nil, &out, zap.NewNop())
	if out.Len() != 0 {
		t.Errorf("printed %q without storage", out.String())
	}
}
