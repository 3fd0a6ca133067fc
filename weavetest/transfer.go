package weavetest

import (
	"github.com/iov-one/paychan"
)

// Transferer is a paychan.Transferer mock. Effects it creates are Transfer
// values that can be compared in tests.
type Transferer struct{}

var _ paychan.Transferer = Transferer{}

func (Transferer) Transfer(to paychan.AccountID, amount paychan.Amount) paychan.Effect {
	return &Transfer{To: to, Amount: amount}
}

// Transfer is an effect that records its execution and changes nothing.
type Transfer struct {
	To       paychan.AccountID
	Amount   paychan.Amount
	executed int
}

var _ paychan.Effect = (*Transfer)(nil)

func (t *Transfer) Execute(paychan.Context, paychan.KVStore) error {
	t.executed++
	return nil
}

// CallCount returns the number of times this effect was executed.
func (t *Transfer) CallCount() int {
	return t.executed
}

// Transfers returns the transfers represented by given effects. It panics if
// any of the effects was not created by the Transferer mock.
func Transfers(effects []paychan.Effect) []Transfer {
	out := make([]Transfer, len(effects))
	for i, e := range effects {
		t := e.(*Transfer)
		out[i] = Transfer{To: t.To, Amount: t.Amount}
	}
	return out
}
