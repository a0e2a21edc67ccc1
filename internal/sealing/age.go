// Package sealing protects credential strings before they reach a snapshot
// backend.
package sealing

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"filippo.io/age"
	"filippo.io/age/armor"

	"tb-go/internal/tb"
)

// ErrNotConfigured is returned when the identity file has not been created yet.
var ErrNotConfigured = errors.New("age identity not configured, run `tb config init`")

// AgeSealer implements tb.Sealer using filippo.io/age with an X25519
// identity kept in a single owner-only file. Sealed values are ASCII-armored
// so they can live inside the JSON snapshot.
type AgeSealer struct {
	identityPath string

	once     sync.Once
	identity *age.X25519Identity
	loadErr  error
}

var _ tb.Sealer = (*AgeSealer)(nil)

// NewAgeSealer creates an AgeSealer reading its identity from identityPath.
func NewAgeSealer(identityPath string) *AgeSealer {
	return &AgeSealer{identityPath: identityPath}
}

// Setup generates a new X25519 identity and writes it to the identity path.
// It refuses to overwrite an existing identity, since that would make every
// previously sealed key unreadable.
func (s *AgeSealer) Setup() error {
	if s.IsConfigured() {
		return fmt.Errorf("age identity already exists at %s", s.identityPath)
	}

	identity, err := age.GenerateX25519Identity()
	if err != nil {
		return fmt.Errorf("generating identity: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.identityPath), 0700); err != nil {
		return fmt.Errorf("creating identity directory: %w", err)
	}

	content := fmt.Sprintf("# public key: %s\n%s\n", identity.Recipient(), identity)
	if err := os.WriteFile(s.identityPath, []byte(content), 0600); err != nil {
		return fmt.Errorf("writing identity: %w", err)
	}
	return nil
}

// IsConfigured returns true if the identity file exists.
func (s *AgeSealer) IsConfigured() bool {
	_, err := os.Stat(s.identityPath)
	return err == nil
}

// Seal encrypts plaintext to the identity's recipient.
func (s *AgeSealer) Seal(plaintext string) (string, error) {
	identity, err := s.load()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	aw := armor.NewWriter(&buf)
	w, err := age.Encrypt(aw, identity.Recipient())
	if err != nil {
		return "", fmt.Errorf("creating encrypted writer: %w", err)
	}
	if _, err := io.WriteString(w, plaintext); err != nil {
		return "", fmt.Errorf("encrypting: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalizing encryption: %w", err)
	}
	if err := aw.Close(); err != nil {
		return "", fmt.Errorf("finalizing armor: %w", err)
	}
	return buf.String(), nil
}

// Open decrypts a value produced by Seal.
func (s *AgeSealer) Open(sealed string) (string, error) {
	identity, err := s.load()
	if err != nil {
		return "", err
	}

	r, err := age.Decrypt(armor.NewReader(strings.NewReader(sealed)), identity)
	if err != nil {
		return "", fmt.Errorf("decrypting: %w", err)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading decrypted value: %w", err)
	}
	return string(data), nil
}

func (s *AgeSealer) load() (*age.X25519Identity, error) {
	s.once.Do(func() {
		data, err := os.ReadFile(s.identityPath)
		if err != nil {
			if os.IsNotExist(err) {
				s.loadErr = ErrNotConfigured
				return
			}
			s.loadErr = fmt.Errorf("reading identity file: %w", err)
			return
		}

		identities, err := age.ParseIdentities(bytes.NewReader(data))
		if err != nil {
			s.loadErr = fmt.Errorf("parsing identity file: %w", err)
			return
		}
		for _, id := range identities {
			if x, ok := id.(*age.X25519Identity); ok {
				s.identity = x
				return
			}
		}
		s.loadErr = fmt.Errorf("no X25519 identity found in %s", s.identityPath)
	})
	return s.identity, s.loadErr
}
