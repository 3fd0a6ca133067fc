package migration

import (
	"github.com/iov-one/paychan"
	"github.com/iov-one/paychan/errors"
)

const pathUpgradeSchemaMsg = "migration/upgrade"

// UpgradeSchemaMsg requests the upgrade of a package schema to the next
// version.
type UpgradeSchemaMsg struct {
	_         struct{} `cbor:",toarray"`
	Pkg       string   `json:"pkg"`
	ToVersion uint32   `json:"to_version"`
}

var _ paychan.Msg = (*UpgradeSchemaMsg)(nil)

func (msg *UpgradeSchemaMsg) Validate() error {
	var errs error
	if msg.Pkg == "" {
		errs = errors.AppendField(errs, "Pkg", errors.Wrap(errors.ErrEmpty, "pkg is required"))
	}
	if msg.ToVersion == 0 {
		errs = errors.AppendField(errs, "ToVersion", errors.Wrap(errors.ErrEmpty, "to version is required"))
	}
	return errs
}

func (UpgradeSchemaMsg) Path() string {
	return pathUpgradeSchemaMsg
}
