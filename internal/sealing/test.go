package sealing

import (
	"fmt"
	"strings"

	"tb-go/internal/tb"
)

const testPrefix = "sealed:"

// TestSealer is a deterministic, reversible sealer for tests. It reverses
// the plaintext and adds a marker prefix, so sealed values are visibly
// different from the input.
type TestSealer struct{}

var _ tb.Sealer = TestSealer{}

// NewTestSealer creates a TestSealer.
func NewTestSealer() TestSealer { return TestSealer{} }

func (TestSealer) Seal(plaintext string) (string, error) {
	return testPrefix + reverse(plaintext), nil
}

func (TestSealer) Open(sealed string) (string, error) {
	if !strings.HasPrefix(sealed, testPrefix) {
		return "", fmt.Errorf("value is not test-sealed")
	}
	return reverse(strings.TrimPrefix(sealed, testPrefix)), nil
}

func reverse(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}
