package repository

import (
	"testing"
	"time"
)

func TestRedisPresence_ExclusiveMaxScore(t *testing.T) {
	cutoff := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC) // unix 1704888000

	got := exclusiveMaxScore(cutoff)
	if got != "(1704888000" {
		t.Fatalf("bound = %q, want (1704888000", got)
	}
	// Граница строгая: отметка ровно на cutoff должна пережить чистку.
	if got[0] != '(' {
		t.Fatalf("bound %q is not exclusive", got)
	}
}

func TestRedisPresence_Member(t *testing.T) {
	if got := presenceMember(42); got != "42" {
		t.Fatalf("member = %q, want 42", got)
	}
	if got := presenceMember(-7); got != "-7" {
		t.Fatalf("member = %q, want -7", got)
	}
}
