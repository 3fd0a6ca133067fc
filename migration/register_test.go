package migration

import (
	"testing"

	"github.com/iov-one/paychan/errors"
	"github.com/iov-one/paychan/weavetest/assert"
)

func TestRegisterMigration(t *testing.T) {
	cases := map[string]struct {
		pkg     string
		version uint32
		fn      Migrator
		wantErr *errors.Error
	}{
		"version one cannot be migrated to": {
			pkg: "mypkg", version: 1, fn: NoModification, wantErr: errors.ErrInput,
		},
		"package is required": {
			pkg: "", version: 2, fn: NoModification, wantErr: errors.ErrInput,
		},
		"function is required": {
			pkg: "mypkg", version: 2, wantErr: errors.ErrInput,
		},
		"first migration": {
			pkg: "mypkg", version: 2, fn: NoModification,
		},
		"gaps are not allowed": {
			pkg: "mypkg", version: 4, fn: NoModification, wantErr: errors.ErrInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			reg := newRegister()
			assert.IsErr(t, tc.wantErr, reg.Register(tc.pkg, tc.version, tc.fn))
		})
	}
}

func TestRegisterMigrationMustBeSequential(t *testing.T) {
	reg := newRegister()

	reg.MustRegister("mypkg", 2, NoModification)
	reg.MustRegister("mypkg", 3, NoModification)
	if err := reg.Register("mypkg", 3, NoModification); !errors.ErrDuplicate.Is(err) {
		t.Fatalf("unexpected duplicate registration error: %s", err)
	}
	if err := reg.Register("mypkg", 5, NoModification); !errors.ErrInput.Is(err) {
		t.Fatalf("unexpected error when missing previous migration: %s", err)
	}

	_, err := reg.Migrator("mypkg", 3)
	assert.Nil(t, err)
	_, err = reg.Migrator("mypkg", 4)
	assert.IsErr(t, errors.ErrSchema, err)
	_, err = reg.Migrator("otherpkg", 2)
	assert.IsErr(t, errors.ErrSchema, err)
}
