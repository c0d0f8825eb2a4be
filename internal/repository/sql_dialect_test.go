package repository

import (
	"strings"
	"testing"
)

func TestBuildSearchLikeConditionSQLite(t *testing.T) {
	condition, argCount := buildSearchLikeConditionByDialect("sqlite", []string{"slug", "name", ""})
	if argCount != 2 {
		t.Fatalf("arg count want 2 got %d", argCount)
	}
	if condition != "slug LIKE ? OR name LIKE ?" {
		t.Fatalf("unexpected condition: %s", condition)
	}
}

func TestBuildSearchLikeConditionPostgres(t *testing.T) {
	condition, argCount := buildSearchLikeConditionByDialect("postgres", []string{"email", "display_name"})
	if argCount != 2 {
		t.Fatalf("arg count want 2 got %d", argCount)
	}
	if !strings.Contains(condition, "email ILIKE ?") {
		t.Fatalf("postgres condition should use ILIKE, got %s", condition)
	}
}

func TestLikeOperatorByDialectFallback(t *testing.T) {
	if op := likeOperatorByDialect("  PostgreSQL "); op != "ILIKE" {
		t.Fatalf("want ILIKE got %s", op)
	}
	if op := likeOperatorByDialect("mysql"); op != "LIKE" {
		t.Fatalf("want LIKE got %s", op)
	}
}

func TestRepeatLikeArgs(t *testing.T) {
	args := repeatLikeArgs("%tea%", 3)
	if len(args) != 3 {
		t.Fatalf("args len want 3 got %d", len(args))
	}
	for idx, arg := range args {
		if arg != "%tea%" {
			t.Fatalf("args[%d] want %%tea%% got %v", idx, arg)
		}
	}
}
