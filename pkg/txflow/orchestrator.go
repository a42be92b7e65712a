package txflow

import (
	"context"
	"fmt"
	"sync"

	"github.com/etched-id/etched-go/pkg/shared"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

// Prepared is a decoded transaction handed out by the builder service.
type Prepared struct {
	Transaction          *solana.Transaction
	Blockhash            solana.Hash
	LastValidBlockHeight uint64
}

type Fetcher interface {
	FetchTransaction(ctx context.Context) (*Prepared, error)
}

// Wallet signs transaction with the user's key and submits it.
type Wallet interface {
	SignAndSend(ctx context.Context, transaction *solana.Transaction) (solana.Signature, error)
}

type ConfirmRequest struct {
	Signature            solana.Signature
	Blockhash            solana.Hash
	LastValidBlockHeight uint64
}

// Confirmer reports whether a submitted transaction landed before its
// blockhash expired.
type Confirmer interface {
	Confirm(ctx context.Context, request ConfirmRequest) (bool, error)
}

// Deriver extracts the minted asset id from a confirmed transaction.
type Deriver interface {
	DeriveAssetID(ctx context.Context, signature solana.Signature) (solana.PublicKey, error)
}

type Config struct {
	Fetcher   Fetcher
	Wallet    Wallet
	Confirmer Confirmer
	Deriver   Deriver
	Clock     Clock
	Policy    *Policy
	Logger    *zap.Logger
}

// Orchestrator owns a single session. Run drives it through the states in
// order; the cooldown timer is the only other writer.
type Orchestrator struct {
	fetcher   Fetcher
	wallet    Wallet
	confirmer Confirmer
	deriver   Deriver
	clock     Clock
	policy    Policy
	logger    *zap.Logger

	mu          sync.Mutex
	session     Session
	cooldown    Timer
	generation  uint64
	subscribers map[int]func(Session)
	nextID      int
}

func NewOrchestrator(config Config) (*Orchestrator, error) {
	if config.Fetcher == nil {
		return nil, fmt.Errorf("fetcher is required")
	}
	if config.Wallet == nil {
		return nil, fmt.Errorf("wallet is required")
	}
	if config.Confirmer == nil {
		return nil, fmt.Errorf("confirmer is required")
	}
	clock := config.Clock
	if clock == nil {
		clock = systemClock{}
	}
	policy := DefaultPolicy()
	if config.Policy != nil {
		policy = *config.Policy
		if policy.Cooldown <= 0 {
			policy.Cooldown = DefaultCooldown
		}
	}

	return &Orchestrator{
		fetcher:     config.Fetcher,
		wallet:      config.Wallet,
		confirmer:   config.Confirmer,
		deriver:     config.Deriver,
		clock:       clock,
		policy:      policy,
		logger:      shared.LoggerOrNop(config.Logger),
		session:     Session{State: StateIdle},
		subscribers: map[int]func(Session){},
	}, nil
}

// Session returns a snapshot of the current session.
func (o *Orchestrator) Session() Session {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.session.clone()
}

// Subscribe registers fn for every transition. Calls happen in transition
// order on the goroutine that caused them. The returned func unsubscribes.
func (o *Orchestrator) Subscribe(fn func(Session)) func() {
	o.mu.Lock()
	defer o.mu.Unlock()
	id := o.nextID
	o.nextID++
	o.subscribers[id] = fn
	return func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		delete(o.subscribers, id)
	}
}

// Run performs one attempt and returns the final session. It is accepted
// from idle and failed; a retry from failed cancels the pending cooldown.
func (o *Orchestrator) Run(ctx context.Context) (Session, error) {
	o.mu.Lock()
	if o.session.State != StateIdle && o.session.State != StateFailed {
		o.mu.Unlock()
		return o.Session(), ErrBusy
	}
	o.stopCooldownLocked()
	o.generation++
	attempt := o.generation
	o.session = Session{State: StateFetchingTransaction}
	snapshot, subscribers := o.snapshotLocked()
	o.mu.Unlock()
	notify(subscribers, snapshot)

	prepared, err := o.fetcher.FetchTransaction(ctx)
	if err == nil && (prepared == nil || prepared.Transaction == nil) {
		err = ErrNoTransaction
	}
	if err != nil {
		return o.fail(fmt.Errorf("failed to fetch transaction: %w", err), o.policy.ResetAfterFetchFailure)
	}

	o.transition(func(session *Session) {
		session.State = StateSigning
		session.Blockhash = prepared.Blockhash
		session.LastValidBlockHeight = prepared.LastValidBlockHeight
	})

	signature, err := o.wallet.SignAndSend(ctx, prepared.Transaction)
	if err != nil {
		return o.fail(fmt.Errorf("failed to sign transaction: %w", err), true)
	}

	o.transition(func(session *Session) {
		session.State = StateConfirming
		session.Signature = &signature
	})

	confirmed, err := o.confirmer.Confirm(ctx, ConfirmRequest{
		Signature:            signature,
		Blockhash:            prepared.Blockhash,
		LastValidBlockHeight: prepared.LastValidBlockHeight,
	})
	if err != nil {
		return o.fail(fmt.Errorf("failed to confirm transaction: %w", err), true)
	}
	if !confirmed {
		return o.fail(ErrNotConfirmed, true)
	}

	final := o.transition(func(session *Session) {
		session.State = StateSuccessful
	})
	o.logger.Info("transaction confirmed", zap.String("signature", signature.String()))
	if o.deriver == nil {
		return final, nil
	}

	assetID, err := o.deriver.DeriveAssetID(ctx, signature)
	derived := final.clone()
	if err != nil {
		err = fmt.Errorf("failed to derive asset id: %w", err)
		o.logger.Warn("asset id derivation failed", zap.String("signature", signature.String()), zap.Error(err))
		derived.Err = err
	} else {
		derived.AssetID = assetID
	}

	// The session may have been acknowledged while deriving; a later attempt
	// owns it then.
	published, ok := o.transitionFrom(attempt, StateSuccessful, func(session *Session) {
		session.AssetID = derived.AssetID
		session.Err = derived.Err
	})
	if !ok {
		o.logger.Debug("discarding asset id of an acknowledged attempt", zap.String("signature", signature.String()))
		return derived, err
	}
	return published, err
}

// Acknowledge returns a successful session to idle.
func (o *Orchestrator) Acknowledge() error {
	o.mu.Lock()
	if o.session.State != StateSuccessful {
		o.mu.Unlock()
		return ErrNotSuccessful
	}
	o.generation++
	o.session = Session{State: StateIdle}
	snapshot, subscribers := o.snapshotLocked()
	o.mu.Unlock()

	notify(subscribers, snapshot)
	return nil
}

// Close stops a pending cooldown timer.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.stopCooldownLocked()
}

func (o *Orchestrator) fail(err error, scheduleCooldown bool) (Session, error) {
	o.logger.Warn("transaction attempt failed", zap.Error(err))

	o.mu.Lock()
	o.session = Session{State: StateFailed, Err: err}
	if scheduleCooldown {
		generation := o.generation
		o.cooldown = o.clock.AfterFunc(o.policy.Cooldown, func() {
			o.resetAfterCooldown(generation)
		})
	}
	snapshot, subscribers := o.snapshotLocked()
	o.mu.Unlock()

	notify(subscribers, snapshot)
	return snapshot, err
}

func (o *Orchestrator) resetAfterCooldown(generation uint64) {
	o.mu.Lock()
	if generation != o.generation || o.session.State != StateFailed {
		o.mu.Unlock()
		return
	}
	o.cooldown = nil
	o.session = Session{State: StateIdle}
	snapshot, subscribers := o.snapshotLocked()
	o.mu.Unlock()

	notify(subscribers, snapshot)
}

func (o *Orchestrator) transition(update func(session *Session)) Session {
	o.mu.Lock()
	update(&o.session)
	snapshot, subscribers := o.snapshotLocked()
	o.mu.Unlock()

	notify(subscribers, snapshot)
	return snapshot
}

// transitionFrom applies update only while the session still belongs to
// generation and is in state.
func (o *Orchestrator) transitionFrom(generation uint64, state State, update func(session *Session)) (Session, bool) {
	o.mu.Lock()
	if o.generation != generation || o.session.State != state {
		o.mu.Unlock()
		return Session{}, false
	}
	update(&o.session)
	snapshot, subscribers := o.snapshotLocked()
	o.mu.Unlock()

	notify(subscribers, snapshot)
	return snapshot, true
}

func (o *Orchestrator) snapshotLocked() (Session, []func(Session)) {
	subscribers := make([]func(Session), 0, len(o.subscribers))
	for id := 0; id < o.nextID; id++ {
		if fn, ok := o.subscribers[id]; ok {
			subscribers = append(subscribers, fn)
		}
	}
	return o.session.clone(), subscribers
}

func (o *Orchestrator) stopCooldownLocked() {
	if o.cooldown != nil {
		o.cooldown.Stop()
		o.cooldown = nil
	}
}

func notify(subscribers []func(Session), session Session) {
	for _, fn := range subscribers {
		fn(session.clone())
	}
}
