package repository

import (
	"errors"
	"fmt"
	"testing"

	"gorm.io/gorm"
)

func TestBuildLikeConditionByDialectSQLite(t *testing.T) {
	condition, argCount := buildLikeConditionByDialect("sqlite", []string{"title", " slug ", ""})
	if argCount != 2 {
		t.Fatalf("arg count want 2 got %d", argCount)
	}
	want := `(title LIKE ? ESCAPE '\' OR slug LIKE ? ESCAPE '\')`
	if condition != want {
		t.Fatalf("condition want %s got %s", want, condition)
	}
}

func TestBuildLikeConditionByDialectPostgres(t *testing.T) {
	condition, argCount := buildLikeConditionByDialect("postgres", []string{"title"})
	if argCount != 1 || condition != `(title ILIKE ? ESCAPE '\')` {
		t.Fatalf("unexpected postgres condition %s (%d)", condition, argCount)
	}
}

func TestBuildLikeConditionEmpty(t *testing.T) {
	condition, argCount := buildLikeCondition(nil, nil)
	if condition != "" || argCount != 0 {
		t.Fatalf("empty columns should produce empty condition, got %q %d", condition, argCount)
	}
}

func TestRepeatLikeArgs(t *testing.T) {
	args := repeatLikeArgs("%test%", 3)
	if len(args) != 3 {
		t.Fatalf("args len want 3 got %d", len(args))
	}
	for idx, arg := range args {
		if arg != "%test%" {
			t.Fatalf("args[%d] want %%test%% got %v", idx, arg)
		}
	}
}

func TestLikePatternEscapesWildcards(t *testing.T) {
	if got := likePattern(" 50%_off "); got != "%50\\%\\_off%" {
		t.Fatalf("unexpected like pattern %s", got)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{gorm.ErrDuplicatedKey, true},
		{fmt.Errorf("wrap: %w", gorm.ErrDuplicatedKey), true},
		{errors.New("UNIQUE constraint failed: revisions.post_id, revisions.locale, revisions.version"), true},
		{errors.New(`ERROR: duplicate key value violates unique constraint "uk_revision_post_locale_version" (SQLSTATE 23505)`), true},
		{errors.New("no such table: revisions"), false},
	}
	for _, tc := range cases {
		if got := IsUniqueViolation(tc.err); got != tc.want {
			t.Fatalf("IsUniqueViolation(%v) want %v got %v", tc.err, tc.want, got)
		}
	}
}
