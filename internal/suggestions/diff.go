package suggestions

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/jonathan/ats-matcher/internal/types"
)

// WordDiff returns the word-level edit script that turns original into
// suggestion. Adjacent operations of the same kind are merged.
func WordDiff(original, suggestion string) []types.DiffOp {
	a := strings.Fields(original)
	b := strings.Fields(suggestion)

	var ops []types.DiffOp
	emit := func(kind types.DiffKind, words []string) {
		if len(words) == 0 {
			return
		}
		text := strings.Join(words, " ")
		if n := len(ops); n > 0 && ops[n-1].Kind == kind {
			ops[n-1].Text += " " + text
			return
		}
		ops = append(ops, types.DiffOp{Kind: kind, Text: text})
	}

	matcher := difflib.NewMatcher(a, b)
	for _, op := range matcher.GetOpCodes() {
		switch op.Tag {
		case 'e':
			emit(types.DiffEqual, a[op.I1:op.I2])
		case 'd':
			emit(types.DiffDelete, a[op.I1:op.I2])
		case 'i':
			emit(types.DiffInsert, b[op.J1:op.J2])
		case 'r':
			emit(types.DiffDelete, a[op.I1:op.I2])
			emit(types.DiffInsert, b[op.J1:op.J2])
		}
	}
	return ops
}
