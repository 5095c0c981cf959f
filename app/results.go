package app

import (
	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
)

// ResultSet is the serialized form of query keys or query values. It is
// able to hold 0 to N entries.
type ResultSet struct {
	Results [][]byte
}

// ResultsFromKeys returns a ResultSet of all the model keys.
func ResultsFromKeys(models []tokenswap.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Key
	}
	return &ResultSet{Results: res}
}

// ResultsFromValues returns a ResultSet of all the model values.
func ResultsFromValues(models []tokenswap.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Value
	}
	return &ResultSet{Results: res}
}

// Marshal serializes the set using the amino binary encoding.
func (r *ResultSet) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(r)
}

// Unmarshal loads a set serialized with Marshal.
func (r *ResultSet) Unmarshal(raw []byte) error {
	// an empty set is serialized to no bytes at all
	if len(raw) == 0 {
		r.Results = nil
		return nil
	}
	if err := cdc.UnmarshalBinaryBare(raw, r); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return nil
}

// JoinResults zips keys and values back into models.
func JoinResults(keys, values *ResultSet) ([]tokenswap.Model, error) {
	if len(keys.Results) != len(values.Results) {
		return nil, errors.Wrapf(errors.ErrState, "%d keys for %d values", len(keys.Results), len(values.Results))
	}
	models := make([]tokenswap.Model, len(keys.Results))
	for i := range keys.Results {
		models[i] = tokenswap.Pair(keys.Results[i], values.Results[i])
	}
	return models, nil
}
