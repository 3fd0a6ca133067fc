package paychan

import (
	"encoding/json"
)

// Handler is a core engine that can process a few specific messages
// This could represent "open a channel", or "withdraw against a claim"
type Handler interface {
	Checker
	Deliverer
}

// Checker is a subset of Handler to verify the validity of a transaction.
// It must not have side effects that survive the call.
type Checker interface {
	Check(ctx Context, store KVStore, tx Tx) (*CheckResult, error)
}

// Deliverer is a subset of Handler to execute a transaction.
// All state changes are written to the given store. Value transfers are
// never executed directly, they are returned as effects instead.
type Deliverer interface {
	Deliver(ctx Context, store KVStore, tx Tx) (*DeliverResult, error)
}

// CheckResult captures any non-error information of a Check call.
type CheckResult struct {
	// Log is human-readable informational string
	Log string
}

// DeliverResult captures any non-error information of a Deliver call.
type DeliverResult struct {
	// Data is a machine-parseable return value, like the id of a new
	// object
	Data []byte
	// Log is human-readable informational string
	Log string
	// Effects is the ordered list of deferred transfers produced by the
	// operation. The host executes them after the state change is
	// committed, strictly in order.
	Effects []Effect
}

// Registry is an interface to register your handler,
// the setup side of a Router
type Registry interface {
	Handle(path string, h Handler)
}

// Options are the app options
// Each extension can look up it's key and parse the json as desired
type Options map[string]json.RawMessage

// ReadOptions reads the values stored under a given key,
// and parses the json into the given obj.
// Returns an error if it cannot parse.
// Noop and no error if key is missing
func (o Options) ReadOptions(key string, obj interface{}) error {
	msg := o[key]
	if len(msg) == 0 {
		return nil
	}
	return json.Unmarshal(msg, obj)
}

// Initializer implementations are used to initialize
// extensions from genesis file contents
type Initializer interface {
	FromGenesis(Options, KVStore) error
}

// ChainInitializers lets you initialize many extensions with one function
func ChainInitializers(inits ...Initializer) Initializer {
	return chainInitializer{inits}
}

type chainInitializer struct {
	inits []Initializer
}

// FromGenesis will pass opts and db to all Initializers in order, stopping
// at the first error.
func (c chainInitializer) FromGenesis(opts Options, db KVStore) error {
	for _, i := range c.inits {
		if err := i.FromGenesis(opts, db); err != nil {
			return err
		}
	}
	return nil
}
