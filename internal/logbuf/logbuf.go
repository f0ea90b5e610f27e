// Package logbuf keeps the most recent log lines in memory for the on-screen log panel.
package logbuf

import (
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

// Capacity is the number of lines the log panel can show.
const Capacity = 5

// Ring is a bounded, newest-first list of log lines. It is an io.Writer so it can sit
// behind the standard logger.
type Ring struct {
	mu      sync.RWMutex
	lines   []string
	partial string
}

func NewRing() *Ring { return &Ring{} }

func (r *Ring) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	text := r.partial + string(p)
	parts := strings.Split(text, "\n")
	r.partial = parts[len(parts)-1]
	for _, line := range parts[:len(parts)-1] {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		r.lines = append([]string{line}, r.lines...)
		if len(r.lines) > Capacity {
			r.lines = r.lines[:Capacity]
		}
	}
	return len(p), nil
}

// Lines returns a snapshot, newest first.
func (r *Ring) Lines() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.lines...)
}

func (r *Ring) Reset() {
	r.mu.Lock()
	r.lines = nil
	r.partial = ""
	r.mu.Unlock()
}

var std = NewRing()

// Lines returns the process-wide log buffer, newest first.
func Lines() []string { return std.Lines() }

// Setup points the standard logger at the process-wide buffer and, when logfile is set,
// appends to that file as well. The returned closer releases the file.
func Setup(logfile string) (io.Closer, error) {
	log.SetFlags(log.Ltime)
	if strings.TrimSpace(logfile) == "" {
		log.SetOutput(std)
		return nopCloser{}, nil
	}
	f, err := os.OpenFile(logfile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		log.SetOutput(std)
		return nopCloser{}, err
	}
	log.SetOutput(io.MultiWriter(std, f))
	return f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
