package router

import (
	"bytes"
	"io"
	"testing"

	"github.com/leandrodaf/midi-router/internal/transport/serial"
	"github.com/leandrodaf/midi-router/sdk/contracts"
)

type loopPort struct {
	*bytes.Buffer
}

func (loopPort) Close() error { return nil }

func newLoopPort() io.ReadWriteCloser {
	return loopPort{new(bytes.Buffer)}
}

func TestNewRouterAppliesDefaults(t *testing.T) {
	r, err := NewRouter()
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	if err := r.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer r.Close()

	cfg := contracts.DefaultRouterConfig()
	if r.GetFilter(contracts.Serial) != cfg.Filters[contracts.Serial] {
		t.Errorf("expected default filter, got %+v", r.GetFilter(contracts.Serial))
	}
}

func TestAttachSerialWiresReceiveAndRoute(t *testing.T) {
	r, err := NewRouter()
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	if err := r.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer r.Close()

	port := newLoopPort()
	tr := serial.Open(nil, port, nil)
	r.AttachSerial(tr)
	if tr.Receive == nil {
		t.Fatal("expected AttachSerial to wire the transport's Receive callback")
	}
	r.SetRoute(contracts.Serial, contracts.USB, true)

	if !r.GetRoute(contracts.Serial, contracts.USB) {
		t.Fatal("expected Serial->USB route to be enabled")
	}
}
