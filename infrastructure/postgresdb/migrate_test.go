package postgresdb

import (
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
)

func TestShouldApplyMissingRowMeansPending(t *testing.T) {
	apply, err := shouldApply("001_create_tasks.sql", "", "abc123", pgx.ErrNoRows)
	if err != nil {
		t.Fatalf("shouldApply: %v", err)
	}
	if !apply {
		t.Error("an untracked migration should be applied")
	}
}

func TestShouldApplyMatchingChecksumSkips(t *testing.T) {
	apply, err := shouldApply("001_create_tasks.sql", "abc123", "abc123", nil)
	if err != nil {
		t.Fatalf("shouldApply: %v", err)
	}
	if apply {
		t.Error("an already applied migration must not re-run")
	}
}

func TestShouldApplyChecksumMismatchFails(t *testing.T) {
	apply, err := shouldApply("001_create_tasks.sql", "abc123", "def456", nil)
	if err == nil {
		t.Fatal("expected a checksum mismatch error")
	}
	if apply {
		t.Error("a modified migration must not run")
	}
	if !strings.Contains(err.Error(), "001_create_tasks.sql") {
		t.Errorf("error %q should name the migration", err)
	}
}

func TestShouldApplyLookupFailureDoesNotRerun(t *testing.T) {
	lookupErr := errors.New("connection reset by peer")

	apply, err := shouldApply("001_create_tasks.sql", "", "abc123", lookupErr)
	if err == nil {
		t.Fatal("a failed status lookup must surface, not look like pending")
	}
	if !errors.Is(err, lookupErr) {
		t.Errorf("err = %v, want the lookup error wrapped", err)
	}
	if apply {
		t.Error("a failed status lookup must not trigger a re-run")
	}
}
