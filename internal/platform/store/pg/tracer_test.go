package pg

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"

	"bookable/internal/platform/logger"

	"github.com/rs/zerolog"
)

func TestCompact(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   string
		want string
	}{
		{"select 1", "select 1"},
		{"  select   1  ", "select 1"},
		{"SELECT\t*\nFROM\r\ttable WHERE  a =  1", "SELECT * FROM table WHERE a = 1"},
		{"", ""},
	}
	for i, c := range cases {
		if got := compact(c.in); got != c.want {
			t.Fatalf("case %d: compact(%q) = %q, want %q", i, c.in, got, c.want)
		}
	}
}

type logLine struct {
	Level     string  `json:"level"`
	ElapsedMS float64 `json:"elapsed_ms"`
	Slow      bool    `json:"slow"`
	SQL       string  `json:"sql"`
	Args      int     `json:"args"`
	Error     string  `json:"error"`
	Message   string  `json:"message"`
	Component string  `json:"component"`
	RequestID string  `json:"request_id"`
}

func emit(t *testing.T, ctx context.Context, ev QueryEvent) logLine {
	t.Helper()
	var buf bytes.Buffer
	Tracer(zerolog.New(&buf)).OnQuery(ctx, ev)
	var line logLine
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line); err != nil {
		t.Fatalf("unmarshal: %v\nraw=%s", err, buf.String())
	}
	return line
}

func TestTracer_Levels(t *testing.T) {
	t.Parallel()
	base := QueryEvent{SQL: "SELECT  *\n FROM  providers\tWHERE id = $1", Args: []any{"x"}, ElapsedUS: 12345}

	cases := []struct {
		name  string
		slow  bool
		err   error
		level string
	}{
		{"normal", false, nil, "info"},
		{"slow", true, nil, "warn"},
		{"error wins over slow", true, errors.New("boom"), "error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ev := base
			ev.Slow, ev.Err = tc.slow, tc.err
			line := emit(t, context.Background(), ev)
			if line.Level != tc.level {
				t.Fatalf("level = %q, want %q", line.Level, tc.level)
			}
			if line.SQL != "SELECT * FROM providers WHERE id = $1" || line.Args != 1 {
				t.Fatalf("fields: %+v", line)
			}
			if math.Abs(line.ElapsedMS-12.345) > 0.0005 || line.Component != "pg" || line.Message != "pg query" {
				t.Fatalf("fields: %+v", line)
			}
			if tc.err != nil && line.Error != "boom" {
				t.Fatalf("error: %q", line.Error)
			}
		})
	}
}

func TestTracer_RequestID(t *testing.T) {
	t.Parallel()
	ctx := logger.WithRequest(context.Background(), "req-9")
	line := emit(t, ctx, QueryEvent{SQL: "SELECT 1"})
	if line.RequestID != "req-9" {
		t.Fatalf("request_id = %q", line.RequestID)
	}
}
