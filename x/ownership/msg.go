package ownership

import (
	"github.com/iov-one/paychan"
	"github.com/iov-one/paychan/errors"
)

const (
	pathUpdateMsg   = "ownership/update"
	pathWithdrawMsg = "ownership/withdraw"
)

// UpdateMsg sets or removes the owner and the fee rate.
type UpdateMsg struct {
	_ struct{} `cbor:",toarray"`
	// Owner is the new owner. Leave empty to remove the ownership.
	Owner *paychan.AccountID `json:"owner,omitempty"`
	Fee   paychan.Fraction   `json:"fee"`
}

var _ paychan.Msg = (*UpdateMsg)(nil)

func (UpdateMsg) Path() string {
	return pathUpdateMsg
}

func (m *UpdateMsg) Validate() error {
	var errs error
	if m.Owner != nil {
		errs = errors.AppendField(errs, "Owner", m.Owner.Validate())
	}
	if err := m.Fee.Validate(); err != nil {
		errs = errors.AppendField(errs, "Fee", err)
	} else if !m.Fee.IsLessThanOne() {
		errs = errors.Append(errs,
			errors.Field("Fee", errors.ErrInvalidFee, "fee must be less than one"))
	}
	return errs
}

// WithdrawMsg pays the accrued fees out to the owner.
type WithdrawMsg struct {
	_ struct{} `cbor:",toarray"`
}

var _ paychan.Msg = (*WithdrawMsg)(nil)

func (WithdrawMsg) Path() string {
	return pathWithdrawMsg
}

func (WithdrawMsg) Validate() error {
	return nil
}
