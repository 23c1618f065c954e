package gconf

import (
	"github.com/iov-one/barter"
	"github.com/iov-one/barter/errors"
)

// ReadStore is the part of barter.ReadOnlyKVStore needed to load a
// configuration.
type ReadStore interface {
	Get([]byte) ([]byte, error)
}

// Store is the part of barter.KVStore needed to save a configuration.
type Store interface {
	ReadStore
	Set([]byte, []byte) error
}

// Configuration is a serializable, self validating configuration entity.
// Protobuf messages with a Validate method implement it.
type Configuration interface {
	Marshal() ([]byte, error)
	Unmarshal([]byte) error
	Validate() error
}

// ValidMarshaler is what Save needs from a configuration.
type ValidMarshaler interface {
	Marshal() ([]byte, error)
	Validate() error
}

// Unmarshaler is what Load needs from a configuration.
type Unmarshaler interface {
	Unmarshal([]byte) error
}

// dbKey returns the key holding the configuration of pkg. The "_c:"
// prefix cannot be produced by an orm bucket.
func dbKey(pkg string) []byte {
	return []byte("_c:" + pkg)
}

// Save validates conf and stores it as the configuration of pkg,
// replacing any previous one.
func Save(db Store, pkg string, conf ValidMarshaler) error {
	if err := conf.Validate(); err != nil {
		return errors.Wrapf(err, "%s configuration", pkg)
	}
	raw, err := conf.Marshal()
	if err != nil {
		return errors.Wrapf(errors.ErrModel, "cannot serialize %s configuration: %s", pkg, err)
	}
	return db.Set(dbKey(pkg), raw)
}

// Load reads the configuration of pkg into dst. It fails with ErrNotFound
// when nothing was saved.
func Load(db ReadStore, pkg string, dst Unmarshaler) error {
	raw, err := db.Get(dbKey(pkg))
	switch {
	case err != nil:
		return errors.Wrap(errors.ErrDatabase, err.Error())
	case raw == nil:
		return errors.Wrapf(errors.ErrNotFound, "%s configuration", pkg)
	}
	if err := dst.Unmarshal(raw); err != nil {
		return errors.Wrapf(errors.ErrModel, "cannot deserialize %s configuration: %s", pkg, err)
	}
	return nil
}

// InitConfig reads the "conf.<pkg>" section of the genesis options into
// conf and saves it. A missing section is an ErrNotFound.
func InitConfig(db Store, opts barter.Options, pkg string, conf Configuration) error {
	var sections barter.Options
	if err := opts.ReadOptions("conf", &sections); err != nil {
		return errors.Wrap(err, "genesis conf section")
	}
	if _, ok := sections[pkg]; !ok {
		return errors.Wrapf(errors.ErrNotFound, "genesis has no %s configuration", pkg)
	}
	if err := sections.ReadOptions(pkg, conf); err != nil {
		return errors.Wrapf(err, "genesis %s configuration", pkg)
	}
	return Save(db, pkg, conf)
}
