package client

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/paychan"
	"github.com/iov-one/paychan/errors"
)

func TestStorage(t *testing.T) {
	dir, err := ioutil.TempDir("", "paychan-storage-")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	s, err := NewStorage(dir)
	require.NoError(t, err)

	_, err = s.Get("missing")
	assert.True(t, errors.ErrNotFound.Is(err))
	assert.True(t, errors.ErrNotFound.Is(s.Delete("missing")))

	// ids are not required to be valid file names
	ids := []string{"b/../x", "a", "ünïcode channel"}
	for _, id := range ids {
		require.NoError(t, s.Create(&ChannelInfo{ID: id, Deposit: paychan.NewAmount(7)}))
	}
	err = s.Create(&ChannelInfo{ID: "a"})
	assert.True(t, errors.ErrDuplicate.Is(err))

	ok, err := s.Exists("b/../x")
	require.NoError(t, err)
	assert.True(t, ok)

	infos, err := s.List()
	require.NoError(t, err)
	require.Len(t, infos, 3)
	assert.Equal(t, "a", infos[0].ID)
	assert.Equal(t, "b/../x", infos[1].ID)

	require.NoError(t, s.UpdateSpent("a", paychan.NewAmount(3), nil))
	info, err := s.Get("a")
	require.NoError(t, err)
	assert.Equal(t, paychan.NewAmount(3), info.Spent)
	assert.Equal(t, paychan.NewAmount(7), info.Deposit)

	require.NoError(t, s.Delete("a"))
	ok, err = s.Exists("a")
	require.NoError(t, err)
	assert.False(t, ok)
}
