package simulator

import (
	"bufio"
	"encoding/json"
	"testing"
	"time"
)

type line struct {
	Type      string  `json:"type"`
	Value     float64 `json:"value"`
	Timestamp float64 `json:"timestamp"`
}

func TestListReportsVirtualDevice(t *testing.T) {
	sim := NewSimulator()
	ports, err := sim.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(ports) != 1 || ports[0] != "sim://rangefinder" {
		t.Fatalf("unexpected port list: %v", ports)
	}
}

func TestOpenRejectsUnknownPath(t *testing.T) {
	sim := NewSimulator()
	if _, err := sim.Open("/dev/ttyUSB0", 9600); err == nil {
		t.Fatalf("expected an error for a non-virtual path")
	}
}

func TestEmitsProtocolLines(t *testing.T) {
	sim := NewSimulator(
		WithInterval(5*time.Millisecond),
		WithMotion(100, 50),
		WithNoiseSigma(0),
		WithErrorRate(0),
		WithSeed(1),
	)

	port, err := sim.Open("sim://rangefinder", 9600)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer port.Close()

	scanner := bufio.NewScanner(port)
	var lines []line
	for scanner.Scan() && len(lines) < 5 {
		var l line
		if err := json.Unmarshal(scanner.Bytes(), &l); err != nil {
			t.Fatalf("malformed protocol line %q: %v", scanner.Text(), err)
		}
		lines = append(lines, l)
	}
	if len(lines) < 5 {
		t.Fatalf("device stopped early: %d lines", len(lines))
	}

	prevTS := -1.0
	for _, l := range lines {
		if l.Type != "distance" {
			t.Fatalf("unexpected line type %q", l.Type)
		}
		if l.Value < 100 {
			t.Fatalf("reflector moved backwards: %v", l.Value)
		}
		if l.Timestamp <= prevTS {
			t.Fatalf("timestamps must be monotonic: %v after %v", l.Timestamp, prevTS)
		}
		prevTS = l.Timestamp
	}
}

func TestCloseStopsDevice(t *testing.T) {
	sim := NewSimulator(WithInterval(5 * time.Millisecond))
	port, err := sim.Open("sim://rangefinder", 9600)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := port.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	buf := make([]byte, 64)
	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, err := port.Read(buf); err != nil {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("port still readable after Close")
		}
	}
}
