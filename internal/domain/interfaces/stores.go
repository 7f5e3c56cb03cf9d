package interfaces

import domaintypes "github.com/samchan0221/mh-coding-task-2/internal/domain/types"

// StateStore persists client state between process runs.
type StateStore interface {
	SaveState(passphrase string, state domaintypes.ClientState) error
	LoadState(passphrase string) (domaintypes.ClientState, bool, error)
}
