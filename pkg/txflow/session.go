package txflow

import (
	"errors"
	"time"

	"github.com/gagliardetto/solana-go"
)

type State string

const (
	StateIdle                State = "idle"
	StateFetchingTransaction State = "fetching-transaction"
	StateSigning             State = "signing"
	StateConfirming          State = "confirming"
	StateSuccessful          State = "successful"
	StateFailed              State = "failed"
)

// DefaultCooldown is how long a failed session stays failed.
const DefaultCooldown = 3 * time.Second

var (
	ErrBusy          = errors.New("a transaction is already in progress")
	ErrNoTransaction = errors.New("no transaction was returned")
	ErrNotConfirmed  = errors.New("transaction was not confirmed")
	ErrNotSuccessful = errors.New("no successful transaction to acknowledge")
)

// Session is a snapshot of one attempt. Signature is nil until the wallet
// returns one and is dropped again on failure.
type Session struct {
	State                State
	Blockhash            solana.Hash
	LastValidBlockHeight uint64
	Signature            *solana.Signature
	AssetID              solana.PublicKey
	Err                  error
}

func (s Session) clone() Session {
	if s.Signature != nil {
		signature := *s.Signature
		s.Signature = &signature
	}
	return s
}

// Policy tunes failure recovery.
type Policy struct {
	Cooldown time.Duration
	// ResetAfterFetchFailure schedules the cooldown when fetching the
	// transaction fails. Later failures always schedule it.
	ResetAfterFetchFailure bool
}

func DefaultPolicy() Policy {
	return Policy{Cooldown: DefaultCooldown, ResetAfterFetchFailure: true}
}
