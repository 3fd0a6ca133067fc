package channel

import (
	"github.com/iov-one/paychan"
	"github.com/iov-one/paychan/errors"
	"github.com/iov-one/paychan/migration"
	"github.com/iov-one/paychan/x/ownership"
)

const pkgName = "channel"

func init() {
	migration.MustRegister(pkgName, 2, migrateV2)
}

// migrateV2 moves to the layout with the ownership record. Every stored
// channel must decode with the current layout. An ownership record that
// already exists is kept together with its accrued balance.
func migrateV2(ctx paychan.Context, db paychan.KVStore) error {
	var n int
	err := NewBucket().Iterate(db, func(id string, ch *Channel) error {
		if err := ch.Validate(); err != nil {
			return errors.Wrapf(err, "channel %q", id)
		}
		n++
		return nil
	})
	if err != nil {
		return err
	}
	o, err := ownership.Load(db)
	if err != nil {
		return errors.Wrap(err, "load ownership")
	}
	if o != nil {
		if err := o.Validate(); err != nil {
			return errors.Wrap(err, "ownership")
		}
	}
	paychan.GetLogger(ctx).Info("channels migrated", "count", n, "owned", o != nil)
	return nil
}
