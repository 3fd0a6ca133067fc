package app

import (
	"encoding/json"
	"io/ioutil"

	"github.com/iov-one/paychan"
	"github.com/iov-one/paychan/errors"
)

// Genesis file format. AppState holds one entry per extension, each read by
// that extension's initializer.
type Genesis struct {
	ChainID  string          `json:"chain_id"`
	AppState paychan.Options `json:"app_state"`
}

// LoadGenesis reads and parses a genesis file.
func LoadGenesis(filePath string) (*Genesis, error) {
	raw, err := ioutil.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	var gen Genesis
	if err := json.Unmarshal(raw, &gen); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "genesis file: %s", err)
	}
	return &gen, nil
}

// SaveGenesis writes given genesis as indented JSON.
func SaveGenesis(filePath string, gen *Genesis) error {
	raw, err := json.MarshalIndent(gen, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if err := ioutil.WriteFile(filePath, raw, 0600); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}
