package ownership

import (
	"github.com/iov-one/paychan"
	"github.com/iov-one/paychan/errors"
)

// Controller manages the ownership record.
type Controller struct {
	transfer paychan.Transferer
}

// NewController returns a controller paying out accrued fees with given
// transferer.
func NewController(t paychan.Transferer) *Controller {
	return &Controller{transfer: t}
}

// Owner returns the current ownership record or nil if none is set.
func (c *Controller) Owner(db paychan.ReadOnlyKVStore) (*Ownership, error) {
	return Load(db)
}

// Update sets the owner and the fee rate. The fee is stored in its reduced
// form. The accrued balance is carried over. A nil owner removes the record, which is allowed only with a zero fee
// and nothing accrued.
func (c *Controller) Update(db paychan.KVStore, newOwner *paychan.AccountID, fee paychan.Fraction) error {
	if err := fee.Validate(); err != nil {
		return errors.Wrap(errors.ErrInvalidFee, err.Error())
	}
	if !fee.IsLessThanOne() {
		return errors.Wrapf(errors.ErrInvalidFee, "fee %s must be less than one", fee)
	}
	current, err := Load(db)
	if err != nil {
		return err
	}
	var balance paychan.Amount
	if current != nil {
		balance = current.Balance
	}

	if newOwner == nil {
		if !fee.IsZero() {
			return errors.Wrap(errors.ErrInvalidFee, "fee must be zero when removing the owner")
		}
		if !balance.IsZero() {
			return errors.Wrapf(errors.ErrInvalidFee, "owner balance of %s must be withdrawn first", balance)
		}
		return removeOwnership(db)
	}

	return saveOwnership(db, &Ownership{
		Owner:   *newOwner,
		Fee:     fee.Normalize(),
		Balance: balance,
	})
}

// Withdraw zeroes the accrued balance and returns the effect paying it to
// the owner.
func (c *Controller) Withdraw(db paychan.KVStore) ([]paychan.Effect, error) {
	o, err := Load(db)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, errors.Wrap(errors.ErrNotFound, "no owner")
	}
	if o.Balance.IsZero() {
		return nil, errors.Wrap(errors.ErrNothingToWithdraw, "no balance to withdraw")
	}
	amount := o.Balance
	o.Balance = paychan.Amount{}
	if err := saveOwnership(db, o); err != nil {
		return nil, err
	}
	return []paychan.Effect{c.transfer.Transfer(o.Owner, amount)}, nil
}

// CollectFee takes the configured cut of given amount and adds it to the
// owner balance. The remaining amount is returned. Without an owner the
// amount is returned unchanged.
func (c *Controller) CollectFee(db paychan.KVStore, amount paychan.Amount) (paychan.Amount, error) {
	o, err := Load(db)
	if err != nil || o == nil {
		return amount, err
	}
	fee := o.Fee.Apply(amount)
	o.Balance = o.Balance.SaturatingAdd(fee)
	if err := saveOwnership(db, o); err != nil {
		return paychan.Amount{}, err
	}
	return amount.SaturatingSub(fee), nil
}
