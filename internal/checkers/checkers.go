// Package checkers provides quicktest checkers shared by the test suites.
package checkers

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	qt "github.com/frankban/quicktest"
	"github.com/yalp/jsonpath"
)

// JSONPathEquals returns a checker that evaluates path against the JSON
// document in got ([]byte or string) and compares the result with the wanted
// value. The wanted value is compared after a JSON round trip, so ints match
// JSON numbers and []string matches JSON arrays.
//
//	c.Assert(data, checkers.JSONPathEquals("$.mcpServers.eg.command"), "eg")
func JSONPathEquals(path string) qt.Checker {
	return &jsonPathChecker{path: path}
}

type jsonPathChecker struct {
	path string
}

func (c *jsonPathChecker) ArgNames() []string {
	return []string{"got", "want"}
}

func (c *jsonPathChecker) Check(got any, args []any, note func(key string, value any)) error {
	var data []byte
	switch v := got.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return qt.BadCheckf("first argument is not JSON text: %T", got)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	value, err := jsonpath.Read(doc, c.path)
	if err != nil {
		return fmt.Errorf("path %s: %w", c.path, err)
	}
	note("path", c.path)
	note("value", value)

	want, err := normalize(args[0])
	if err != nil {
		return qt.BadCheckf("cannot encode wanted value: %v", err)
	}
	if !reflect.DeepEqual(value, want) {
		return errors.New("values are not equal")
	}
	return nil
}

func normalize(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}
