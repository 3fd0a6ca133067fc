package ownership

import (
	"github.com/iov-one/paychan"
	"github.com/iov-one/paychan/errors"
	"github.com/iov-one/paychan/gconf"
	"github.com/iov-one/paychan/x"
	"github.com/iov-one/paychan/x/auth"
)

// RegisterRoutes registers handlers for ownership message processing.
func RegisterRoutes(r paychan.Registry, authn x.Authenticator, ctrl *Controller) {
	r.Handle(pathUpdateMsg, &updateHandler{auth: authn, ctrl: ctrl})
	r.Handle(pathWithdrawMsg, &withdrawHandler{auth: authn, ctrl: ctrl})
}

// RegisterQuery registers the ownership record for queries under the
// "/ownership" path.
func RegisterQuery(qr paychan.QueryRouter) {
	qr.Register("/ownership", queryHandler{})
}

type updateHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

var _ paychan.Handler = (*updateHandler)(nil)

func (h *updateHandler) Check(ctx paychan.Context, db paychan.KVStore, tx paychan.Tx) (*paychan.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &paychan.CheckResult{}, nil
}

func (h *updateHandler) Deliver(ctx paychan.Context, db paychan.KVStore, tx paychan.Tx) (*paychan.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.Update(db, msg.Owner, msg.Fee); err != nil {
		return nil, err
	}
	if msg.Owner == nil {
		return &paychan.DeliverResult{Log: "ownership removed"}, nil
	}
	return &paychan.DeliverResult{Log: "owner " + msg.Owner.String() + " fee " + msg.Fee.String()}, nil
}

func (h *updateHandler) validate(ctx paychan.Context, db paychan.KVStore, tx paychan.Tx) (*UpdateMsg, error) {
	var msg UpdateMsg
	if err := paychan.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := paychan.RequireNoDeposit(tx); err != nil {
		return nil, err
	}
	if err := auth.RequireContract(ctx, db, h.auth); err != nil {
		return nil, err
	}
	return &msg, nil
}

type withdrawHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

var _ paychan.Handler = (*withdrawHandler)(nil)

func (h *withdrawHandler) Check(ctx paychan.Context, db paychan.KVStore, tx paychan.Tx) (*paychan.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &paychan.CheckResult{}, nil
}

func (h *withdrawHandler) Deliver(ctx paychan.Context, db paychan.KVStore, tx paychan.Tx) (*paychan.DeliverResult, error) {
	o, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	effects, err := h.ctrl.Withdraw(db)
	if err != nil {
		return nil, err
	}
	return &paychan.DeliverResult{
		Log:     "withdraw " + o.Balance.String() + " to " + o.Owner.String(),
		Effects: effects,
	}, nil
}

// validate allows the owner and the contract account to withdraw.
func (h *withdrawHandler) validate(ctx paychan.Context, db paychan.KVStore, tx paychan.Tx) (*Ownership, error) {
	var msg WithdrawMsg
	if err := paychan.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := paychan.RequireNoDeposit(tx); err != nil {
		return nil, err
	}
	o, err := h.ctrl.Owner(db)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, errors.Wrap(errors.ErrNotFound, "no owner")
	}
	contract, err := auth.ContractAccount(db)
	if err != nil {
		return nil, err
	}
	if !x.HasAnyAccount(ctx, h.auth, o.Owner, contract) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "owner or contract account required")
	}
	return o, nil
}

type queryHandler struct{}

var _ paychan.QueryHandler = queryHandler{}

// Query returns the raw ownership record or nothing if none is set. The
// data and mod are ignored.
func (queryHandler) Query(db paychan.ReadOnlyKVStore, mod string, data []byte) ([]paychan.Model, error) {
	key := gconf.Key(pkgName)
	value, err := db.Get(key)
	if err != nil {
		return nil, err
	}
	if value == nil {
		return nil, nil
	}
	return []paychan.Model{paychan.Pair(key, value)}, nil
}
