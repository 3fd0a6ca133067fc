package weavetest

import "github.com/iov-one/paychan"

// Handler is a paychan.Handler mock that returns configured results and
// counts calls.
type Handler struct {
	checkCall   int
	CheckResult paychan.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult paychan.DeliverResult
	DeliverErr    error
}

var _ paychan.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx paychan.Context, db paychan.KVStore, tx paychan.Tx) (*paychan.CheckResult, error) {
	h.checkCall++
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx paychan.Context, db paychan.KVStore, tx paychan.Tx) (*paychan.DeliverResult, error) {
	h.deliverCall++
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}

// Effect is a paychan.Effect mock. It writes Value under Key when
// executed, unless Err is set.
type Effect struct {
	Key   []byte
	Value []byte
	Err   error
	calls int
}

var _ paychan.Effect = (*Effect)(nil)

func (e *Effect) Execute(ctx paychan.Context, db paychan.KVStore) error {
	e.calls++
	if e.Key != nil {
		if err := db.Set(e.Key, e.Value); err != nil {
			return err
		}
	}
	return e.Err
}

// CallCount returns how many times the effect was executed.
func (e *Effect) CallCount() int {
	return e.calls
}
