package client

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/iov-one/paychan"
	"github.com/iov-one/paychan/crypto"
	"github.com/iov-one/paychan/errors"
	"github.com/iov-one/paychan/x/channel"
)

// ChannelInfo is the local record of a channel. The sender side holds the
// signing key; the receiver side only the public keys.
type ChannelInfo struct {
	ID        string               `json:"id"`
	Sender    channel.Account      `json:"sender"`
	Receiver  channel.Account      `json:"receiver"`
	SenderKey *crypto.PrivateKey   `json:"sender_key,omitempty"`
	Deposit   paychan.Amount       `json:"deposit"`
	Spent     paychan.Amount       `json:"spent"`
	LastClaim *channel.SignedClaim `json:"last_claim,omitempty"`
}

// Storage keeps channel records in a directory.
type Storage struct {
	dir string
}

// NewStorage returns a storage using given directory, creating it if
// needed.
func NewStorage(dir string) (*Storage, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return &Storage{dir: dir}, nil
}

const fileExt = ".json"

// path maps a channel id to a file name. Channel ids are arbitrary strings
// of up to channel.MaxChannelIDLen bytes, so the name is their digest.
func (s *Storage) path(id string) string {
	sum := sha256.Sum256([]byte(id))
	return filepath.Join(s.dir, hex.EncodeToString(sum[:])+fileExt)
}

// Create stores a new record. It fails if a record with the same id exists.
func (s *Storage) Create(info *ChannelInfo) error {
	ok, err := s.Exists(info.ID)
	if err != nil {
		return err
	}
	if ok {
		return errors.Wrapf(errors.ErrDuplicate, "channel %q", info.ID)
	}
	return s.write(info)
}

// Exists returns true if a record for the channel is stored.
func (s *Storage) Exists(id string) (bool, error) {
	switch _, err := os.Stat(s.path(id)); {
	case err == nil:
		return true, nil
	case os.IsNotExist(err):
		return false, nil
	default:
		return false, errors.Wrap(errors.ErrDatabase, err.Error())
	}
}

// Get returns the record of given channel.
func (s *Storage) Get(id string) (*ChannelInfo, error) {
	info, err := readInfo(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ErrNotFound, "channel %q", id)
		}
		return nil, errors.Wrapf(err, "channel %q", id)
	}
	return info, nil
}

func readInfo(path string) (*ChannelInfo, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	var info ChannelInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return nil, errors.Wrap(errors.ErrModel, err.Error())
	}
	return &info, nil
}

// List returns all stored records ordered by channel id.
func (s *Storage) List() ([]*ChannelInfo, error) {
	files, err := ioutil.ReadDir(s.dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	var infos []*ChannelInfo
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), fileExt) {
			continue
		}
		info, err := readInfo(filepath.Join(s.dir, f.Name()))
		if err != nil {
			return nil, errors.Wrapf(err, "file %s", f.Name())
		}
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos, nil
}

// Delete removes the record of given channel.
func (s *Storage) Delete(id string) error {
	if err := os.Remove(s.path(id)); err != nil {
		if os.IsNotExist(err) {
			return errors.Wrapf(errors.ErrNotFound, "channel %q", id)
		}
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// UpdateSpent sets the spent amount of a channel together with the claim
// that authorizes it.
func (s *Storage) UpdateSpent(id string, spent paychan.Amount, claim *channel.SignedClaim) error {
	info, err := s.Get(id)
	if err != nil {
		return err
	}
	info.Spent = spent
	info.LastClaim = claim
	return s.write(info)
}

func (s *Storage) update(info *ChannelInfo) error {
	if _, err := s.Get(info.ID); err != nil {
		return err
	}
	return s.write(info)
}

// write replaces the record file atomically.
func (s *Storage) write(info *ChannelInfo) error {
	raw, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	tmp, err := ioutil.TempFile(s.dir, ".tmp-")
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if err := os.Rename(tmp.Name(), s.path(info.ID)); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}
