package sealing

import "tb-go/internal/tb"

// NoneSealer stores credentials as plaintext.
type NoneSealer struct{}

var _ tb.Sealer = NoneSealer{}

func (NoneSealer) Seal(plaintext string) (string, error) { return plaintext, nil }

func (NoneSealer) Open(sealed string) (string, error) { return sealed, nil }
