package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsUniqueViolationOn(t *testing.T) {
	activePlate := &pgconn.PgError{Code: "23505", ConstraintName: "idx_parking_sessions_active_plate"}
	sessionNumber := &pgconn.PgError{Code: "23505", ConstraintName: "parking_sessions_session_number_key"}

	if !IsUniqueViolationOn(activePlate, "idx_parking_sessions_active_plate") {
		t.Fatalf("matching constraint must be reported")
	}
	if IsUniqueViolationOn(sessionNumber, "idx_parking_sessions_active_plate") {
		t.Fatalf("a different unique constraint must not match")
	}

	// Works through wrapping, like the repo's fmt.Errorf chains.
	wrapped := fmt.Errorf("session repo: Create: %w", activePlate)
	if !IsUniqueViolationOn(wrapped, "idx_parking_sessions_active_plate") {
		t.Fatalf("wrapped pg error must still match")
	}

	fk := &pgconn.PgError{Code: "23503", ConstraintName: "idx_parking_sessions_active_plate"}
	if IsUniqueViolationOn(fk, "idx_parking_sessions_active_plate") {
		t.Fatalf("non-unique violation must not match even with the same name")
	}

	if IsUniqueViolationOn(nil, "idx_parking_sessions_active_plate") {
		t.Fatalf("nil error must not match")
	}
	if IsUniqueViolationOn(errors.New("plain"), "idx_parking_sessions_active_plate") {
		t.Fatalf("non-pg error must not match")
	}
}

func TestIsUniqueViolation(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505"}
	if !IsUniqueViolation(unique) {
		t.Fatalf("23505 must be reported as a unique violation")
	}
	if IsUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Fatalf("23503 is a foreign key violation, not unique")
	}
}
