package migration

import (
	"github.com/iov-one/paychan"
	"github.com/iov-one/paychan/errors"
	"github.com/iov-one/paychan/x"
	"github.com/iov-one/paychan/x/auth"
)

// RegisterRoutes registers handlers for migration message processing.
func RegisterRoutes(r paychan.Registry, authn x.Authenticator) {
	r.Handle(pathUpgradeSchemaMsg, &upgradeSchemaHandler{
		bucket:     NewSchemaBucket(),
		auth:       authn,
		migrations: reg,
	})
}

type upgradeSchemaHandler struct {
	bucket     *SchemaBucket
	auth       x.Authenticator
	migrations *register
}

var _ paychan.Handler = (*upgradeSchemaHandler)(nil)

func (h *upgradeSchemaHandler) Check(ctx paychan.Context, db paychan.KVStore, tx paychan.Tx) (*paychan.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &paychan.CheckResult{}, nil
}

func (h *upgradeSchemaHandler) Deliver(ctx paychan.Context, db paychan.KVStore, tx paychan.Tx) (*paychan.DeliverResult, error) {
	msg, migrate, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := migrate(ctx, db); err != nil {
		return nil, errors.Wrapf(err, "migrate %s to version %d", msg.Pkg, msg.ToVersion)
	}
	if err := h.bucket.Create(db, &Schema{Pkg: msg.Pkg, Version: msg.ToVersion}); err != nil {
		return nil, errors.Wrap(err, "create schema version")
	}
	paychan.GetLogger(ctx).Info("schema upgraded", "pkg", msg.Pkg, "version", msg.ToVersion)
	return &paychan.DeliverResult{Data: schemaID(msg.Pkg, msg.ToVersion)}, nil
}

func (h *upgradeSchemaHandler) validate(ctx paychan.Context, db paychan.KVStore, tx paychan.Tx) (*UpgradeSchemaMsg, Migrator, error) {
	var msg UpgradeSchemaMsg
	if err := paychan.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	if err := paychan.RequireNoDeposit(tx); err != nil {
		return nil, nil, err
	}
	if err := auth.RequireContract(ctx, db, h.auth); err != nil {
		return nil, nil, err
	}

	ver, err := h.bucket.CurrentSchema(db, msg.Pkg)
	if err != nil {
		if !errors.ErrNotFound.Is(err) {
			return nil, nil, errors.Wrap(err, "current schema version")
		}
		return nil, nil, errors.Wrapf(errors.ErrSchema, "package %q schema not initialized", msg.Pkg)
	}
	if msg.ToVersion != ver+1 {
		return nil, nil, errors.Wrapf(errors.ErrSchema, "package %q is at version %d, cannot upgrade to %d", msg.Pkg, ver, msg.ToVersion)
	}
	migrate, err := h.migrations.Migrator(msg.Pkg, msg.ToVersion)
	if err != nil {
		return nil, nil, err
	}
	return &msg, migrate, nil
}
