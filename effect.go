package paychan

// Effect is a deferred action produced by a successful operation. Effects
// are executed by the host after the operation's state change was committed,
// each in its own atomic unit and strictly in the order they were produced.
// A failing effect does not revert the operation that produced it.
type Effect interface {
	Execute(ctx Context, db KVStore) error
}

// Transferer creates effects that move native tokens held by the contract
// account to the given account.
type Transferer interface {
	Transfer(to AccountID, amount Amount) Effect
}
