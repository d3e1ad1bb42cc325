package main

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kevmo314/go-raw10/pkg/decode"
	"github.com/kevmo314/go-raw10/pkg/source"
	"golang.org/x/sync/errgroup"
)

func TestPlay_BadFrame(t *testing.T) {
	dec, err := decode.NewRaw10Decoder(4, 2, decode.WithMosaic())
	if err != nil {
		t.Fatalf("NewRaw10Decoder failed: %v", err)
	}
	// The second frame is one byte short.
	src, err := source.NewReaderSource(bytes.NewReader(make([]byte, 2*dec.FrameSize()-1)), dec.FrameSize())
	if err != nil {
		t.Fatalf("NewReaderSource failed: %v", err)
	}
	v := &streamView{name: "left"}

	err = play(context.Background(), decode.NewSourceDecoder(src, dec), v, 1, time.Millisecond)
	if err == nil {
		t.Fatal("play succeeded, want error")
	}
	if v.preview.Load() == nil {
		t.Error("first frame was not shown")
	}
}

func TestPlayer_StreamFailure(t *testing.T) {
	errBroken := errors.New("broken stream")
	g, ctx := errgroup.WithContext(context.Background())
	g.Go(func() error { return errBroken })
	g.Go(func() error {
		<-ctx.Done()
		return ctx.Err()
	})
	<-ctx.Done()

	p := &Player{ctx: ctx, wait: g.Wait}
	if err := p.Update(); !errors.Is(err, errBroken) {
		t.Errorf("Update() = %v, want %v", err, errBroken)
	}
}

func TestPlayer_StreamsRunning(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p := &Player{ctx: ctx, wait: func() error { return nil }}
	if err := p.streamErr(); err != nil {
		t.Errorf("streamErr() = %v, want nil", err)
	}
}
