package repo

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"bookable/internal/platform/store"
	"bookable/internal/services/searchlog/domain"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

type fakeCH struct {
	table string
	rows  [][]any
	err   error
}

func (f *fakeCH) Insert(_ context.Context, table string, rows [][]any) error {
	f.table, f.rows = table, rows
	return f.err
}

func (f *fakeCH) Query(context.Context, string, ...any) (store.Rows, error) { return nil, nil }
func (f *fakeCH) Close() error                                              { return nil }

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	f.msgs = append(f.msgs, msgs...)
	return f.err
}

func (f *fakeWriter) Close() error { f.closed = true; return nil }

func sampleEvent() domain.Event {
	lat, lng := 52.52, 13.405
	return domain.Event{
		ID:         uuid.MustParse("6f1c2a3e-4b5d-4e6f-8a9b-0c1d2e3f4a5b"),
		At:         time.Date(2026, 3, 2, 10, 0, 0, 0, time.FixedZone("CET", 3600)),
		RequestID:  "req-1",
		Query:      "massage",
		Lat:        &lat,
		Lng:        &lng,
		RadiusKm:   10,
		SortBy:     "distance",
		SortOrder:  "asc",
		Limit:      20,
		Offset:     40,
		Total:      77,
		Returned:   20,
		ElapsedMs:  3.5,
		Carrier:    map[string]string{"traceparent": "00-abc-def-01"},
		CategoryID: "wellness",
	}
}

func TestClickhouseSink_Write(t *testing.T) {
	t.Parallel()
	db := &fakeCH{}
	s := NewClickhouse(db, "")
	if s.Name() != "clickhouse" {
		t.Fatalf("name = %q", s.Name())
	}
	if err := s.Write(context.Background(), []domain.Event{sampleEvent()}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if db.table != "search_events" {
		t.Fatalf("table = %q", db.table)
	}
	if len(db.rows) != 1 || len(db.rows[0]) != 16 {
		t.Fatalf("rows = %+v", db.rows)
	}
	row := db.rows[0]
	if at := row[1].(time.Time); at.Location() != time.UTC || at.Hour() != 9 {
		t.Fatalf("at not normalised to utc: %v", at)
	}
	if row[11] != uint16(20) || row[12] != uint32(40) || row[13] != uint32(77) || row[14] != uint16(20) {
		t.Fatalf("paging columns: %v", row[11:15])
	}
}

func TestClickhouseSink_PropagatesError(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	s := NewClickhouse(&fakeCH{err: boom}, "events")
	if err := s.Write(context.Background(), []domain.Event{sampleEvent()}); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}

func TestKafkaSink_Write(t *testing.T) {
	t.Parallel()
	w := &fakeWriter{}
	s := NewKafka(w)
	ev := sampleEvent()
	if err := s.Write(context.Background(), []domain.Event{ev}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if len(w.msgs) != 1 {
		t.Fatalf("msgs = %d", len(w.msgs))
	}
	m := w.msgs[0]
	if string(m.Key) != ev.ID.String() {
		t.Fatalf("key = %s", m.Key)
	}
	headers := map[string]string{}
	for _, h := range m.Headers {
		headers[h.Key] = string(h.Value)
	}
	if headers["event_type"] != domain.EventType || headers["event_id"] != ev.ID.String() {
		t.Fatalf("headers = %v", headers)
	}
	if headers["traceparent"] != "00-abc-def-01" {
		t.Fatalf("trace header missing: %v", headers)
	}
	var got map[string]any
	if err := json.Unmarshal(m.Value, &got); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if _, leaked := got["Carrier"]; leaked {
		t.Fatalf("carrier must not be serialised: %v", got)
	}
	if got["query"] != "massage" {
		t.Fatalf("payload = %v", got)
	}
	if err := s.Close(); err != nil || !w.closed {
		t.Fatalf("close: %v closed=%v", err, w.closed)
	}
}

func TestTraceHeaders_Overwrites(t *testing.T) {
	t.Parallel()
	hs := []kafka.Header{{Key: "traceparent", Value: []byte("old")}}
	out := traceHeaders(hs, map[string]string{"traceparent": "new", "tracestate": "x=1"})
	if len(out) != 2 {
		t.Fatalf("headers = %+v", out)
	}
	if string(out[0].Value) != "new" {
		t.Fatalf("not overwritten: %+v", out)
	}
}

func TestKafkaReady_NoBrokers(t *testing.T) {
	t.Parallel()
	if err := KafkaReady(nil).Ping(context.Background()); err == nil {
		t.Fatal("expected error without brokers")
	}
}
