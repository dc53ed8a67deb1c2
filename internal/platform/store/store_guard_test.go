package store

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// silentPG runs transactions but cannot be pinged
type silentPG struct{}

func (silentPG) Tx(context.Context, func(q RowQuerier) error) error       { return nil }
func (silentPG) Exec(context.Context, string, ...any) (CommandTag, error) { return nil, nil }
func (silentPG) Query(context.Context, string, ...any) (Rows, error)      { return nil, nil }
func (silentPG) QueryRow(context.Context, string, ...any) Row             { return nil }

type pingablePG struct {
	silentPG
	err error
}

func (p pingablePG) Ping(context.Context) error { return p.err }

func TestGuard(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name  string
		store *Store
		want  []string // substrings of the joined error; nil means healthy
	}{
		{"nil store", nil, []string{"nil store"}},
		{"nothing configured", &Store{}, nil},
		{"pg without ping is skipped", &Store{PG: silentPG{}}, nil},
		{"pg healthy", &Store{PG: pingablePG{}}, nil},
		{"pg down", &Store{PG: pingablePG{err: errors.New("connection refused")}}, []string{"pg: connection refused"}},
		{
			"every failure reported",
			&Store{
				PG: pingablePG{err: errors.New("too many clients")},
				CH: newCHAdapter(&fakeCH{pingErr: errors.New("code 516")}),
			},
			[]string{"pg: too many clients", "clickhouse: code 516"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.store.Guard(context.Background())
			if tc.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			for _, w := range tc.want {
				if !strings.Contains(err.Error(), w) {
					t.Fatalf("error %q missing %q", err, w)
				}
			}
		})
	}
}
