// FILE: sensormerge/src/internal/verify/verify.go
package verify

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"

	"sensormerge/src/internal/core"

	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/crypto/blake2b"
)

// Report is the outcome of comparing a merged result with the expected fixture
type Report struct {
	Match bool

	// Pretty-printed documents, populated on mismatch
	Result   []byte
	Expected []byte

	// Unified diff from expected to result, populated on mismatch
	Diff string
}

// Compare checks result against expected with JSON value semantics: object key
// order is ignored and numbers compare by value.
func Compare(result, expected []core.Entry) (Report, error) {
	got, err := decodeGeneric(result)
	if err != nil {
		return Report{}, fmt.Errorf("result: %w", err)
	}
	want, err := decodeGeneric(expected)
	if err != nil {
		return Report{}, fmt.Errorf("expected: %w", err)
	}

	if equal(got, want) {
		return Report{Match: true}, nil
	}

	report := Report{}
	if report.Result, err = pretty(result); err != nil {
		return Report{}, err
	}
	if report.Expected, err = pretty(expected); err != nil {
		return Report{}, err
	}

	report.Diff, err = difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(report.Expected)),
		B:        difflib.SplitLines(string(report.Result)),
		FromFile: "expected",
		ToFile:   "result",
		Context:  3,
	})
	if err != nil {
		return Report{}, fmt.Errorf("failed to build diff: %w", err)
	}

	return report, nil
}

// Digest returns the hex BLAKE2b-256 sum of a document
func Digest(doc []byte) string {
	sum := blake2b.Sum256(doc)
	return hex.EncodeToString(sum[:])
}

func pretty(entries []core.Entry) ([]byte, error) {
	if entries == nil {
		entries = []core.Entry{}
	}
	out, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(out, '\n'), nil
}

func decodeGeneric(entries []core.Entry) (any, error) {
	if entries == nil {
		entries = []core.Entry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func equal(a, b any) bool {
	switch av := a.(type) {
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			w, ok := bv[k]
			if !ok || !equal(v, w) {
				return false
			}
		}
		return true
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case json.Number:
		bv, ok := b.(json.Number)
		return ok && numbersEqual(av, bv)
	default:
		return a == b
	}
}

func numbersEqual(a, b json.Number) bool {
	if a == b {
		return true
	}
	x, okA := new(big.Rat).SetString(string(a))
	y, okB := new(big.Rat).SetString(string(b))
	return okA && okB && x.Cmp(y) == 0
}
