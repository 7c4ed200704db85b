// Package filter compiles expr expressions into predicates over tracker
// torrents, used by the CLI to narrow listings, e.g.
//
//	Format == "FLAC" && Seeders > 5
//	Remastered && contains(RemasterTitle, "deluxe")
package filter

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/s0up4200/gazellectl/gazelle"
)

// ReleaseFilter is a compiled filter expression.
type ReleaseFilter struct {
	program *vm.Program
	expr    string
}

// Compile compiles a filter expression. The expression environment
// exposes the torrent's fields plus a few string helpers.
func Compile(expression string) (*ReleaseFilter, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, fmt.Errorf("empty filter expression")
	}

	program, err := expr.Compile(expression,
		expr.Env(buildEnv(gazelle.Torrent{})),
		expr.AllowUndefinedVariables(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compile filter expression: %w", err)
	}

	return &ReleaseFilter{program: program, expr: expression}, nil
}

// Match evaluates the filter against a torrent. Evaluation errors and
// non-boolean results count as no match.
func (f *ReleaseFilter) Match(t gazelle.Torrent) bool {
	result, err := expr.Run(f.program, buildEnv(t))
	if err != nil {
		return false
	}
	b, ok := result.(bool)
	return ok && b
}

// String returns the original expression.
func (f *ReleaseFilter) String() string {
	return f.expr
}

// New compiles an expression and returns it as a plain predicate. An
// empty expression matches everything.
func New(expression string) (func(gazelle.Torrent) bool, error) {
	if strings.TrimSpace(expression) == "" {
		return func(gazelle.Torrent) bool { return true }, nil
	}
	f, err := Compile(expression)
	if err != nil {
		return nil, err
	}
	return f.Match, nil
}

func buildEnv(t gazelle.Torrent) map[string]interface{} {
	return map[string]interface{}{
		// torrent fields
		"ID":            t.ID,
		"Media":         t.Media,
		"Format":        t.Format,
		"Encoding":      t.Encoding,
		"Remastered":    t.Remastered,
		"RemasterYear":  t.RemasterYear,
		"RemasterTitle": t.RemasterTitle,
		"Scene":         t.Scene,
		"HasLog":        t.HasLog,
		"HasCue":        t.HasCue,
		"LogScore":      t.LogScore,
		"FileCount":     t.FileCount,
		"Size":          t.Size,
		"Seeders":       t.Seeders,
		"Leechers":      t.Leechers,
		"Snatched":      t.Snatched,
		"FreeTorrent":   t.FreeTorrent,

		// helpers
		"contains": func(str, substr string) bool {
			return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
		},
		"startsWith": func(str, prefix string) bool {
			return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
		},
		"endsWith": func(str, suffix string) bool {
			return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
		},
		"lower": strings.ToLower,
		"upper": strings.ToUpper,

		"canTranscode": func() bool {
			return len(gazelle.AllowedTranscodes(t)) > 0
		},
	}
}
