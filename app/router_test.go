package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/paychan/errors"
	"github.com/iov-one/paychan/weavetest"
)

func TestRouter(t *testing.T) {
	r := NewRouter()

	good := &weavetest.Handler{}
	bad := &weavetest.Handler{DeliverErr: errors.ErrState}
	r.Handle("good", good)
	r.Handle("chan/bad_one", bad)

	// make sure invalid registrations panic
	assert.Panics(t, func() { r.Handle("good", good) })
	assert.Panics(t, func() { r.Handle("l:7", good) })
	assert.Panics(t, func() { r.Handle("Upper", good) })
	assert.Panics(t, func() { r.Handle("trailing/", good) })

	assert.Equal(t, []string{"chan/bad_one", "good"}, r.Paths())

	tx := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "good"}}
	_, err := r.Check(nil, nil, tx)
	require.NoError(t, err)
	_, err = r.Deliver(nil, nil, tx)
	require.NoError(t, err)
	assert.Equal(t, 2, good.CallCount())

	tx = &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "chan/bad_one"}}
	_, err = r.Deliver(nil, nil, tx)
	assert.True(t, errors.ErrState.Is(err))
	assert.Equal(t, 1, bad.DeliverCallCount())

	tx = &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "missing"}}
	_, err = r.Deliver(nil, nil, tx)
	assert.True(t, errors.ErrNotFound.Is(err))
	_, err = r.Check(nil, nil, tx)
	assert.True(t, errors.ErrNotFound.Is(err))
	assert.Equal(t, 2, good.CallCount())
}
