package channel

import (
	"github.com/iov-one/paychan"
	"github.com/iov-one/paychan/errors"
	"github.com/iov-one/paychan/x/bank"
)

// RegisterRoutes registers handlers for channel message processing.
func RegisterRoutes(r paychan.Registry, ctrl *Controller, bankCtrl bank.Controller) {
	r.Handle(pathOpenChannelMsg, &openChannelHandler{ctrl: ctrl, bank: bankCtrl})
	r.Handle(pathTopupMsg, &topupHandler{ctrl: ctrl, bank: bankCtrl})
	r.Handle(pathWithdrawMsg, &withdrawHandler{ctrl: ctrl})
	r.Handle(pathCloseMsg, &closeHandler{ctrl: ctrl})
	r.Handle(pathWithdrawAndCloseMsg, &withdrawAndCloseHandler{ctrl: ctrl})
	r.Handle(pathForceCloseStartMsg, &forceCloseStartHandler{ctrl: ctrl})
	r.Handle(pathForceCloseFinishMsg, &forceCloseFinishHandler{ctrl: ctrl})
}

// RegisterQuery registers channels for queries under the "/channels" path.
func RegisterQuery(qr paychan.QueryRouter) {
	NewBucket().Register(qr)
}

// loadMsg loads the message of a transaction that must not carry a
// deposit.
func loadMsg(tx paychan.Tx, msg paychan.Msg) error {
	if err := paychan.LoadMsg(tx, msg); err != nil {
		return errors.Wrap(err, "load msg")
	}
	return paychan.RequireNoDeposit(tx)
}

type openChannelHandler struct {
	ctrl *Controller
	bank bank.Controller
}

var _ paychan.Handler = (*openChannelHandler)(nil)

func (h *openChannelHandler) Check(ctx paychan.Context, db paychan.KVStore, tx paychan.Tx) (*paychan.CheckResult, error) {
	if _, err := h.deliver(ctx, db, tx); err != nil {
		return nil, err
	}
	return &paychan.CheckResult{}, nil
}

func (h *openChannelHandler) Deliver(ctx paychan.Context, db paychan.KVStore, tx paychan.Tx) (*paychan.DeliverResult, error) {
	msg, err := h.deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return &paychan.DeliverResult{Data: []byte(msg.ChannelID)}, nil
}

// deliver captures the deposit and opens the channel. Check runs it too, the
// caller discards the changes.
func (h *openChannelHandler) deliver(ctx paychan.Context, db paychan.KVStore, tx paychan.Tx) (*OpenChannelMsg, error) {
	var msg OpenChannelMsg
	if err := paychan.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	deposit, err := bank.CaptureDeposit(ctx, db, h.bank, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.OpenChannel(ctx, db, msg.ChannelID, msg.Receiver, msg.Sender, deposit); err != nil {
		return nil, err
	}
	return &msg, nil
}

type topupHandler struct {
	ctrl *Controller
	bank bank.Controller
}

var _ paychan.Handler = (*topupHandler)(nil)

func (h *topupHandler) Check(ctx paychan.Context, db paychan.KVStore, tx paychan.Tx) (*paychan.CheckResult, error) {
	if err := h.deliver(ctx, db, tx); err != nil {
		return nil, err
	}
	return &paychan.CheckResult{}, nil
}

func (h *topupHandler) Deliver(ctx paychan.Context, db paychan.KVStore, tx paychan.Tx) (*paychan.DeliverResult, error) {
	if err := h.deliver(ctx, db, tx); err != nil {
		return nil, err
	}
	return &paychan.DeliverResult{}, nil
}

func (h *topupHandler) deliver(ctx paychan.Context, db paychan.KVStore, tx paychan.Tx) error {
	var msg TopupMsg
	if err := paychan.LoadMsg(tx, &msg); err != nil {
		return errors.Wrap(err, "load msg")
	}
	deposit, err := bank.CaptureDeposit(ctx, db, h.bank, tx)
	if err != nil {
		return err
	}
	return h.ctrl.Topup(ctx, db, msg.ChannelID, deposit)
}

type withdrawHandler struct {
	ctrl *Controller
}

var _ paychan.Handler = (*withdrawHandler)(nil)

func (h *withdrawHandler) Check(ctx paychan.Context, db paychan.KVStore, tx paychan.Tx) (*paychan.CheckResult, error) {
	if _, err := h.Deliver(ctx, db, tx); err != nil {
		return nil, err
	}
	return &paychan.CheckResult{}, nil
}

func (h *withdrawHandler) Deliver(ctx paychan.Context, db paychan.KVStore, tx paychan.Tx) (*paychan.DeliverResult, error) {
	var msg WithdrawMsg
	if err := loadMsg(tx, &msg); err != nil {
		return nil, err
	}
	effects, err := h.ctrl.Withdraw(ctx, db, &msg.Claim)
	if err != nil {
		return nil, err
	}
	return &paychan.DeliverResult{Effects: effects}, nil
}

type closeHandler struct {
	ctrl *Controller
}

var _ paychan.Handler = (*closeHandler)(nil)

func (h *closeHandler) Check(ctx paychan.Context, db paychan.KVStore, tx paychan.Tx) (*paychan.CheckResult, error) {
	if _, err := h.Deliver(ctx, db, tx); err != nil {
		return nil, err
	}
	return &paychan.CheckResult{}, nil
}

func (h *closeHandler) Deliver(ctx paychan.Context, db paychan.KVStore, tx paychan.Tx) (*paychan.DeliverResult, error) {
	var msg CloseMsg
	if err := loadMsg(tx, &msg); err != nil {
		return nil, err
	}
	effects, err := h.ctrl.Close(ctx, db, &msg.Claim)
	if err != nil {
		return nil, err
	}
	return &paychan.DeliverResult{Effects: effects}, nil
}

type withdrawAndCloseHandler struct {
	ctrl *Controller
}

var _ paychan.Handler = (*withdrawAndCloseHandler)(nil)

func (h *withdrawAndCloseHandler) Check(ctx paychan.Context, db paychan.KVStore, tx paychan.Tx) (*paychan.CheckResult, error) {
	if _, err := h.Deliver(ctx, db, tx); err != nil {
		return nil, err
	}
	return &paychan.CheckResult{}, nil
}

func (h *withdrawAndCloseHandler) Deliver(ctx paychan.Context, db paychan.KVStore, tx paychan.Tx) (*paychan.DeliverResult, error) {
	var msg WithdrawAndCloseMsg
	if err := loadMsg(tx, &msg); err != nil {
		return nil, err
	}
	effects, err := h.ctrl.WithdrawAndClose(ctx, db, &msg.Withdraw, &msg.Close)
	if err != nil {
		return nil, err
	}
	return &paychan.DeliverResult{Effects: effects}, nil
}

type forceCloseStartHandler struct {
	ctrl *Controller
}

var _ paychan.Handler = (*forceCloseStartHandler)(nil)

func (h *forceCloseStartHandler) Check(ctx paychan.Context, db paychan.KVStore, tx paychan.Tx) (*paychan.CheckResult, error) {
	if _, err := h.Deliver(ctx, db, tx); err != nil {
		return nil, err
	}
	return &paychan.CheckResult{}, nil
}

func (h *forceCloseStartHandler) Deliver(ctx paychan.Context, db paychan.KVStore, tx paychan.Tx) (*paychan.DeliverResult, error) {
	var msg ForceCloseStartMsg
	if err := loadMsg(tx, &msg); err != nil {
		return nil, err
	}
	if err := h.ctrl.ForceCloseStart(ctx, db, msg.ChannelID); err != nil {
		return nil, err
	}
	return &paychan.DeliverResult{}, nil
}

type forceCloseFinishHandler struct {
	ctrl *Controller
}

var _ paychan.Handler = (*forceCloseFinishHandler)(nil)

func (h *forceCloseFinishHandler) Check(ctx paychan.Context, db paychan.KVStore, tx paychan.Tx) (*paychan.CheckResult, error) {
	if _, err := h.Deliver(ctx, db, tx); err != nil {
		return nil, err
	}
	return &paychan.CheckResult{}, nil
}

func (h *forceCloseFinishHandler) Deliver(ctx paychan.Context, db paychan.KVStore, tx paychan.Tx) (*paychan.DeliverResult, error) {
	var msg ForceCloseFinishMsg
	if err := loadMsg(tx, &msg); err != nil {
		return nil, err
	}
	effects, err := h.ctrl.ForceCloseFinish(ctx, db, msg.ChannelID)
	if err != nil {
		return nil, err
	}
	return &paychan.DeliverResult{Effects: effects}, nil
}
