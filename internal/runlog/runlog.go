// Package runlog persists episode output: a compressed append-only event
// log, one JSON object per line, and compressed state snapshots.
package runlog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"github.com/elektrokombinacija/warehouse-sim/internal/sim"
)

// EventWriter streams events for one episode into a .jsonl.zst file.
type EventWriter struct {
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
}

func NewEventWriter(path string) (*EventWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &EventWriter{f: f, enc: enc, w: bufio.NewWriterSize(enc, 128*1024)}, nil
}

// Write appends one event line.
func (ew *EventWriter) Write(ev sim.Event) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if _, err := ew.w.Write(b); err != nil {
		return err
	}
	return ew.w.WriteByte('\n')
}

// WriteAll appends every event of one tick.
func (ew *EventWriter) WriteAll(events []sim.Event) error {
	for _, ev := range events {
		if err := ew.Write(ev); err != nil {
			return err
		}
	}
	return nil
}

func (ew *EventWriter) Close() error {
	var err error
	if ew.w != nil {
		err = ew.w.Flush()
		ew.w = nil
	}
	if ew.enc != nil {
		if cerr := ew.enc.Close(); err == nil {
			err = cerr
		}
		ew.enc = nil
	}
	if ew.f != nil {
		if cerr := ew.f.Close(); err == nil {
			err = cerr
		}
		ew.f = nil
	}
	return err
}

// ReadEvents loads a full event log back, for replay tooling.
func ReadEvents(path string) ([]sim.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var events []sim.Event
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var ev sim.Event
		if err := json.Unmarshal(line, &ev); err != nil {
			return nil, fmt.Errorf("event log %s: %w", path, err)
		}
		events = append(events, ev)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// WriteSnapshot stores one engine snapshot as compressed JSON.
func WriteSnapshot(path string, snap sim.Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	if err := json.NewEncoder(enc).Encode(snap); err != nil {
		_ = enc.Close()
		return err
	}
	return enc.Close()
}

// ReadSnapshot loads a snapshot written by WriteSnapshot.
func ReadSnapshot(path string) (sim.Snapshot, error) {
	var snap sim.Snapshot
	f, err := os.Open(path)
	if err != nil {
		return snap, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return snap, err
	}
	defer dec.Close()

	b, err := io.ReadAll(dec.IOReadCloser())
	if err != nil {
		return snap, err
	}
	if err := json.Unmarshal(b, &snap); err != nil {
		return snap, fmt.Errorf("snapshot %s: %w", path, err)
	}
	return snap, nil
}
