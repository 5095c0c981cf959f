package gconf

import (
	"sort"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
)

// Initializer fulfils the Initializer interface to load configurations from
// the genesis file. Each registered package must have its configuration
// declared under the "conf" genesis key.
type Initializer struct {
	confs map[string]func() Configuration
}

var _ tokenswap.Initializer = (*Initializer)(nil)

// NewInitializer returns an initializer that loads configuration of all
// given packages. Each constructor must return a new, empty configuration
// instance.
func NewInitializer(confs map[string]func() Configuration) *Initializer {
	return &Initializer{confs: confs}
}

// FromGenesis will parse configuration of every registered package from
// genesis and save it to the database.
func (i *Initializer) FromGenesis(opts tokenswap.Options, db tokenswap.KVStore) error {
	pkgs := make([]string, 0, len(i.confs))
	for pkg := range i.confs {
		pkgs = append(pkgs, pkg)
	}
	// deterministic order, maps are not
	sort.Strings(pkgs)

	for _, pkg := range pkgs {
		if err := InitConfig(db, opts, pkg, i.confs[pkg]()); err != nil {
			return errors.Wrapf(err, "package %q", pkg)
		}
	}
	return nil
}
