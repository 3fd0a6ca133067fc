package channel

import (
	"github.com/iov-one/paychan"
	"github.com/iov-one/paychan/errors"
)

const (
	pathOpenChannelMsg      = "channel/open"
	pathTopupMsg            = "channel/topup"
	pathWithdrawMsg         = "channel/withdraw"
	pathCloseMsg            = "channel/close"
	pathWithdrawAndCloseMsg = "channel/withdraw_and_close"
	pathForceCloseStartMsg  = "channel/force_close_start"
	pathForceCloseFinishMsg = "channel/force_close_finish"
)

// OpenChannelMsg opens a channel funded with the attached deposit.
type OpenChannelMsg struct {
	_         struct{} `cbor:",toarray"`
	ChannelID string   `json:"channel_id"`
	Receiver  Account  `json:"receiver"`
	Sender    Account  `json:"sender"`
}

var _ paychan.Msg = (*OpenChannelMsg)(nil)

func (OpenChannelMsg) Path() string {
	return pathOpenChannelMsg
}

func (m *OpenChannelMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "ChannelID", validateChannelID(m.ChannelID))
	errs = errors.AppendField(errs, "Receiver", m.Receiver.Validate())
	errs = errors.AppendField(errs, "Sender", m.Sender.Validate())
	return errs
}

// TopupMsg adds the attached deposit to a channel.
type TopupMsg struct {
	_         struct{} `cbor:",toarray"`
	ChannelID string   `json:"channel_id"`
}

var _ paychan.Msg = (*TopupMsg)(nil)

func (TopupMsg) Path() string {
	return pathTopupMsg
}

func (m *TopupMsg) Validate() error {
	return errors.AppendField(nil, "ChannelID", validateChannelID(m.ChannelID))
}

// WithdrawMsg withdraws funds to the receiver using a claim signed by the
// sender.
type WithdrawMsg struct {
	_     struct{}    `cbor:",toarray"`
	Claim SignedClaim `json:"claim"`
}

var _ paychan.Msg = (*WithdrawMsg)(nil)

func (WithdrawMsg) Path() string {
	return pathWithdrawMsg
}

func (m *WithdrawMsg) Validate() error {
	return errors.AppendField(nil, "Claim", m.Claim.Validate())
}

// CloseMsg closes a channel using a zero spend claim signed by the
// receiver.
type CloseMsg struct {
	_     struct{}    `cbor:",toarray"`
	Claim SignedClaim `json:"claim"`
}

var _ paychan.Msg = (*CloseMsg)(nil)

func (CloseMsg) Path() string {
	return pathCloseMsg
}

func (m *CloseMsg) Validate() error {
	return errors.AppendField(nil, "Claim", m.Claim.Validate())
}

// WithdrawAndCloseMsg withdraws and closes in a single operation.
type WithdrawAndCloseMsg struct {
	_        struct{}    `cbor:",toarray"`
	Withdraw SignedClaim `json:"withdraw"`
	Close    SignedClaim `json:"close"`
}

var _ paychan.Msg = (*WithdrawAndCloseMsg)(nil)

func (WithdrawAndCloseMsg) Path() string {
	return pathWithdrawAndCloseMsg
}

func (m *WithdrawAndCloseMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Withdraw", m.Withdraw.Validate())
	errs = errors.AppendField(errs, "Close", m.Close.Validate())
	return errs
}

// ForceCloseStartMsg starts a unilateral close by the sender.
type ForceCloseStartMsg struct {
	_         struct{} `cbor:",toarray"`
	ChannelID string   `json:"channel_id"`
}

var _ paychan.Msg = (*ForceCloseStartMsg)(nil)

func (ForceCloseStartMsg) Path() string {
	return pathForceCloseStartMsg
}

func (m *ForceCloseStartMsg) Validate() error {
	return errors.AppendField(nil, "ChannelID", validateChannelID(m.ChannelID))
}

// ForceCloseFinishMsg finishes a unilateral close after the timeout.
type ForceCloseFinishMsg struct {
	_         struct{} `cbor:",toarray"`
	ChannelID string   `json:"channel_id"`
}

var _ paychan.Msg = (*ForceCloseFinishMsg)(nil)

func (ForceCloseFinishMsg) Path() string {
	return pathForceCloseFinishMsg
}

func (m *ForceCloseFinishMsg) Validate() error {
	return errors.AppendField(nil, "ChannelID", validateChannelID(m.ChannelID))
}
