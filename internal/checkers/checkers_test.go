package checkers_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/go-ports/eg/internal/checkers"
)

const doc = `{"program": "tar", "labels": ["archive", "compress"], "count": 2, "nested": {"ok": true}}`

func TestJSONPathEquals_HappyPath(t *testing.T) {
	c := qt.New(t)

	c.Assert(doc, checkers.JSONPathEquals("$.program"), "tar")
	c.Assert([]byte(doc), checkers.JSONPathEquals("$.labels"), []string{"archive", "compress"})
	c.Assert(doc, checkers.JSONPathEquals("$.labels[1]"), "compress")
	c.Assert(doc, checkers.JSONPathEquals("$.count"), 2)
	c.Assert(doc, checkers.JSONPathEquals("$.nested.ok"), true)
}

func TestJSONPathEquals_FailurePath(t *testing.T) {
	c := qt.New(t)

	checker := checkers.JSONPathEquals("$.program")
	noop := func(string, any) {}

	c.Assert(checker.Check(doc, []any{"zip"}, noop), qt.ErrorMatches, "values are not equal")
	c.Assert(checker.Check("not json", []any{"tar"}, noop), qt.ErrorMatches, "invalid JSON: .*")
	c.Assert(checker.Check(42, []any{"tar"}, noop), qt.ErrorMatches, "bad check: first argument is not JSON text: int")

	missing := checkers.JSONPathEquals("$.absent")
	c.Assert(missing.Check(doc, []any{"x"}, noop), qt.IsNotNil)
}
