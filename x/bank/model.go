package bank

import (
	"github.com/iov-one/paychan"
	"github.com/iov-one/paychan/orm"
)

const bucketName = "bank"

// Balance is the amount of native tokens held by an account.
type Balance struct {
	_      struct{}       `cbor:",toarray"`
	Amount paychan.Amount `json:"amount"`
}

var _ orm.Model = (*Balance)(nil)

// Validate always succeeds, any amount is a valid balance.
func (b *Balance) Validate() error {
	return nil
}

// NewBucket returns the bucket keeping balances, indexed by account id.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(bucketName)
}

// RegisterQuery registers the balances bucket for queries under the
// "/balances" path.
func RegisterQuery(qr paychan.QueryRouter) {
	NewBucket().Register("balances", qr)
}
