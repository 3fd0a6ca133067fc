package orm

import (
	"github.com/iov-one/paychan"
)

// ConsumeIterator will read all remaining data into an
// array and close the iterator
func ConsumeIterator(itr paychan.Iterator) ([]paychan.Model, error) {
	defer itr.Close()

	var res []paychan.Model
	for itr.Valid() {
		res = append(res, paychan.Pair(itr.Key(), itr.Value()))
		if err := itr.Next(); err != nil {
			return nil, err
		}
	}
	return res, nil
}
