package postgres

import (
	"context"
	"testing"
)

func TestNewStore_ConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"empty dsn", Config{}},
		{"bad table", Config{DSN: "postgres://localhost/db", Table: "a;drop"}},
		{"bad column", Config{DSN: "postgres://localhost/db", VectorColumn: "x y"}},
		{"bad dsn", Config{DSN: "postgres://localhost:notaport/db"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewStore(context.Background(), tc.cfg); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
