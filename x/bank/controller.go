package bank

import (
	"github.com/iov-one/paychan"
	"github.com/iov-one/paychan/errors"
	"github.com/iov-one/paychan/orm"
)

// Controller is the functionality needed by other extensions to access
// account balances.
type Controller interface {
	// Balance returns the amount held by given account. An unknown account
	// holds nothing.
	Balance(db paychan.ReadOnlyKVStore, acct paychan.AccountID) (paychan.Amount, error)

	// MoveCoins moves the given amount from src to dest.
	// If src doesn't have sufficient coins, it fails.
	MoveCoins(db paychan.KVStore, src, dest paychan.AccountID, amount paychan.Amount) error

	// IssueCoins adds the given amount to the destination account. Fails
	// if it overflows the balance.
	IssueCoins(db paychan.KVStore, dest paychan.AccountID, amount paychan.Amount) error
}

// BaseController is the default Controller implementation.
type BaseController struct {
	bucket orm.ModelBucket
}

var _ Controller = BaseController{}

// NewController returns a controller operating on the balances bucket.
func NewController() BaseController {
	return BaseController{bucket: NewBucket()}
}

func (c BaseController) Balance(db paychan.ReadOnlyKVStore, acct paychan.AccountID) (paychan.Amount, error) {
	var b Balance
	switch err := c.bucket.One(db, []byte(acct), &b); {
	case err == nil:
		return b.Amount, nil
	case errors.ErrNotFound.Is(err):
		return paychan.Amount{}, nil
	default:
		return paychan.Amount{}, errors.Wrapf(err, "balance of %s", acct)
	}
}

func (c BaseController) MoveCoins(db paychan.KVStore, src, dest paychan.AccountID, amount paychan.Amount) error {
	if amount.IsZero() {
		return nil
	}
	if err := src.Validate(); err != nil {
		return errors.Wrap(err, "source")
	}
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}

	have, err := c.Balance(db, src)
	if err != nil {
		return err
	}
	left, err := have.Sub(amount)
	if err != nil {
		return errors.Wrapf(errors.ErrInsufficientAmount, "%s holds %s, needs %s", src, have, amount)
	}
	if src.Equals(dest) {
		return nil
	}

	recv, err := c.Balance(db, dest)
	if err != nil {
		return err
	}
	total, err := recv.Add(amount)
	if err != nil {
		return errors.Wrapf(err, "balance of %s", dest)
	}

	// save them and return
	if err := c.save(db, src, left); err != nil {
		return err
	}
	return c.save(db, dest, total)
}

func (c BaseController) IssueCoins(db paychan.KVStore, dest paychan.AccountID, amount paychan.Amount) error {
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	have, err := c.Balance(db, dest)
	if err != nil {
		return err
	}
	total, err := have.Add(amount)
	if err != nil {
		return errors.Wrapf(err, "balance of %s", dest)
	}
	return c.save(db, dest, total)
}

func (c BaseController) save(db paychan.KVStore, acct paychan.AccountID, amount paychan.Amount) error {
	return c.bucket.Put(db, []byte(acct), &Balance{Amount: amount})
}
