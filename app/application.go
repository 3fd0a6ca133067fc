package app

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/lightningnetwork/lnd/clock"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/iov-one/paychan"
	"github.com/iov-one/paychan/errors"
	"github.com/iov-one/paychan/store"
)

// Application is the host every operation is submitted to. It serializes
// operations, gives each one a fresh cache over the deliver store and runs
// the effects of a successful operation after its changes were written.
type Application struct {
	mu sync.Mutex

	name    string
	store   *CommitStore
	handler paychan.Handler
	queries paychan.QueryRouter
	init    paychan.Initializer
	clock   clock.Clock
	logger  log.Logger

	chainID string
}

// NewApplication loads the latest committed state from given store. The
// clock is the source of block time for every operation.
func NewApplication(
	name string,
	db paychan.CommitKVStore,
	handler paychan.Handler,
	queries paychan.QueryRouter,
	init paychan.Initializer,
	clk clock.Clock,
	logger log.Logger,
) (*Application, error) {
	cs, err := NewCommitStore(db)
	if err != nil {
		return nil, errors.Wrap(err, "load store")
	}
	chainID, err := loadChainID(cs.DeliverStore())
	if err != nil {
		return nil, err
	}
	return &Application{
		name:    name,
		store:   cs,
		handler: handler,
		queries: queries,
		init:    init,
		clock:   clk,
		logger:  logger.With("module", name),
		chainID: chainID,
	}, nil
}

// ChainID returns the chain id set at genesis, or an empty string.
func (a *Application) ChainID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.chainID
}

// InitChain stores the chain id and hands the app state to the
// initializers. It can be called only once for a given store.
func (a *Application) InitChain(gen *Genesis) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	cache := a.store.DeliverStore().CacheWrap()
	if err := saveChainID(cache, gen.ChainID); err != nil {
		cache.Discard()
		return err
	}
	if err := a.init.FromGenesis(gen.AppState, cache); err != nil {
		cache.Discard()
		return errors.Wrap(err, "genesis")
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	a.chainID = gen.ChainID
	a.logger.Info("chain initialized", "chain_id", gen.ChainID)
	return nil
}

// Check runs the handler validation against a throw away cache. Nothing
// is written.
func (a *Application) Check(tx *Tx) (res *paychan.CheckResult, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	ctx, err := a.context(tx)
	if err != nil {
		return nil, err
	}
	cache := a.store.DeliverStore().CacheWrap()
	defer cache.Discard()

	defer errors.Recover(&err)
	return a.handler.Check(ctx, cache, tx)
}

// Deliver processes a single operation. On failure no state change is
// applied. On success the operation changes are written first and then
// every produced effect is executed in order, each one atomically. A
// failing effect is reported in the result and does not revert anything.
func (a *Application) Deliver(tx *Tx) (*TxResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	ctx, err := a.context(tx)
	if err != nil {
		return nil, err
	}
	logger := paychan.GetLogger(ctx)

	cache := a.store.DeliverStore().CacheWrap()
	db := store.NewRecordingStore(cache)
	res, err := a.deliver(ctx, db, tx)
	if err != nil {
		cache.Discard()
		logger.Info("operation rejected", "path", paychan.GetPath(tx), "err", err)
		return nil, err
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}

	result := &TxResult{
		Data:    res.Data,
		Log:     res.Log,
		Changed: store.ChangedKeys(db),
	}
	logger.Debug("operation delivered", "path", paychan.GetPath(tx), "changed", len(result.Changed))
	for _, e := range res.Effects {
		result.Effects = append(result.Effects, a.execute(ctx, e))
	}
	return result, nil
}

func (a *Application) deliver(ctx paychan.Context, db paychan.KVStore, tx *Tx) (res *paychan.DeliverResult, err error) {
	defer errors.Recover(&err)
	return a.handler.Deliver(ctx, db, tx)
}

func (a *Application) execute(ctx paychan.Context, e paychan.Effect) EffectResult {
	res := EffectResult{Description: fmt.Sprint(e)}
	cache := a.store.DeliverStore().CacheWrap()
	if err := runEffect(ctx, cache, e); err != nil {
		cache.Discard()
		res.Err = err
		paychan.GetLogger(ctx).Error("effect failed", "effect", res.Description, "err", err)
		return res
	}
	if err := cache.Write(); err != nil {
		res.Err = errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return res
}

func runEffect(ctx paychan.Context, db paychan.KVStore, e paychan.Effect) (err error) {
	defer errors.Recover(&err)
	return e.Execute(ctx, db)
}

// context builds the context of a single operation.
func (a *Application) context(tx *Tx) (paychan.Context, error) {
	if a.chainID == "" {
		return nil, errors.Wrap(errors.ErrState, "chain not initialized")
	}
	info, err := a.store.CommitInfo()
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	ctx := context.Background()
	ctx = paychan.WithBlockTime(ctx, a.clock.Now().UTC())
	ctx = paychan.WithLogger(ctx, a.logger.With("height", info.Version+1))
	if tx.Caller != "" {
		ctx = paychan.WithCaller(ctx, tx.Caller)
	}
	return ctx, nil
}

// Query runs the query handler registered for the path against the last
// committed state. Anything after a question mark is passed to the handler
// as a modifier, for example "/channels?prefix".
func (a *Application) Query(path string, data []byte) ([]paychan.Model, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	path, mod := splitPath(path)
	qh := a.queries.Handler(path)
	if qh == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "unexpected query path: %s", path)
	}
	return qh.Query(a.store.ReadStore(), mod, data)
}

// splitPath splits out the real path along with the query
// modifier (everything after the ?)
func splitPath(path string) (string, string) {
	var mod string
	chunks := strings.SplitN(path, "?", 2)
	if len(chunks) == 2 {
		path = chunks[0]
		mod = chunks[1]
	}
	return path, mod
}

// Commit persists all delivered operations.
func (a *Application) Commit() (paychan.CommitID, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	id, err := a.store.Commit()
	if err != nil {
		return id, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	a.logger.Debug("commit synced",
		"height", id.Version,
		"hash", fmt.Sprintf("%X", id.Hash),
	)
	return id, nil
}
