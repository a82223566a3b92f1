package repository

import (
	"testing"

	"registry_backend/platform/apperr"
)

func TestBuildOrderClauseMapsAPIColumns(t *testing.T) {
	tests := []struct {
		column string
		sort   string
		want   string
	}{
		{"id", "asc", "id ASC"},
		{"name", "desc", "name DESC"},
		{"postalCode", "asc", "postal_code ASC"},
		{"active", "desc", "active DESC"},
	}

	for _, tc := range tests {
		got, err := buildOrderClause(Order{Column: tc.column, Sort: tc.sort})
		if err != nil {
			t.Fatalf("buildOrderClause(%s, %s) failed: %v", tc.column, tc.sort, err)
		}
		if got != tc.want {
			t.Fatalf("buildOrderClause(%s, %s) = %q, want %q", tc.column, tc.sort, got, tc.want)
		}
	}
}

func TestBuildOrderClauseRejectsUnknownColumn(t *testing.T) {
	_, err := buildOrderClause(Order{Column: "created_at; DROP TABLE people", Sort: "asc"})
	if apperr.GetKind(err) != apperr.KindBadRequest {
		t.Fatalf("expected bad request for unknown column, got %v", err)
	}
}

func TestBuildOrderClauseRejectsUnknownDirection(t *testing.T) {
	_, err := buildOrderClause(Order{Column: "name", Sort: "sideways"})
	if apperr.GetKind(err) != apperr.KindBadRequest {
		t.Fatalf("expected bad request for unknown direction, got %v", err)
	}
}
