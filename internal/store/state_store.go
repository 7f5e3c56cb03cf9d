package store

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/samchan0221/mh-coding-task-2/internal/domain"
)

const (
	stateFile       = "state.json"
	sealedStateFile = "state.enc"
)

// StateFileStore keeps the client state in the home directory, as plain
// JSON or, when a passphrase is given, sealed with scrypt and
// ChaCha20-Poly1305. Only one of the two files exists at a time.
type StateFileStore struct {
	dir string
	kdf KDF
	mu  sync.Mutex
}

func NewStateFileStore(dir string) *StateFileStore {
	return &StateFileStore{dir: dir, kdf: DefaultKDF}
}

// WithKDF overrides the scrypt cost for files sealed from now on.
func (s *StateFileStore) WithKDF(kdf KDF) *StateFileStore {
	s.kdf = kdf
	return s
}

func (s *StateFileStore) SaveState(passphrase string, st domain.ClientState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	plainPath := filepath.Join(s.dir, stateFile)
	sealedPath := filepath.Join(s.dir, sealedStateFile)

	if passphrase == "" {
		if err := writeFile(plainPath, raw, 0o600); err != nil {
			return fmt.Errorf("write state: %w", err)
		}
		return removeFile(sealedPath)
	}

	b, err := seal(passphrase, raw, s.kdf)
	if err != nil {
		return fmt.Errorf("seal state: %w", err)
	}
	if err := writeFile(sealedPath, b, 0o600); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return removeFile(plainPath)
}

// LoadState returns the saved state. The boolean is false when nothing has
// been saved yet.
func (s *StateFileStore) LoadState(passphrase string) (domain.ClientState, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var st domain.ClientState
	b, err := readFile(filepath.Join(s.dir, sealedStateFile))
	if err != nil {
		return st, false, err
	}
	if b != nil {
		if passphrase == "" {
			return st, false, ErrPassphraseRequired
		}
		if b, err = open(passphrase, b); err != nil {
			return st, false, err
		}
	} else {
		if b, err = readFile(filepath.Join(s.dir, stateFile)); err != nil {
			return st, false, err
		}
		if b == nil {
			return st, false, nil
		}
	}

	if err := json.Unmarshal(b, &st); err != nil {
		return domain.ClientState{}, false, fmt.Errorf("decode state: %w", err)
	}
	return st, true, nil
}

var _ domain.StateStore = (*StateFileStore)(nil)
