package escrow

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/barter"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/gconf"
)

const confPkg = "escrow"

// Configuration holds the escrow policy that can be changed at runtime by
// its owner.
type Configuration struct {
	// Owner is allowed to update the configuration.
	Owner barter.Address `protobuf:"bytes,1,opt,name=owner,proto3,casttype=github.com/iov-one/barter.Address" json:"owner,omitempty"`
	// AllowSameAsset permits offers that trade a currency for itself.
	AllowSameAsset bool `protobuf:"varint,2,opt,name=allow_same_asset,json=allowSameAsset,proto3" json:"allow_same_asset,omitempty"`
}

var _ gconf.OwnedConfig = (*Configuration)(nil)

func (c *Configuration) GetOwner() barter.Address {
	if c != nil {
		return c.Owner
	}
	return nil
}

func (c *Configuration) Marshal() ([]byte, error) {
	return proto.Marshal((*configurationCodec)(c))
}

func (c *Configuration) Unmarshal(data []byte) error {
	return proto.Unmarshal(data, (*configurationCodec)(c))
}

type configurationCodec Configuration

func (m *configurationCodec) Reset()         { *m = configurationCodec{} }
func (m *configurationCodec) String() string { return proto.CompactTextString(m) }
func (*configurationCodec) ProtoMessage()    {}

func (c *Configuration) Validate() error {
	if len(c.Owner) == 0 {
		return nil
	}
	return errors.Field("Owner", c.Owner.Validate(), "")
}

// loadConfig returns the stored configuration or the default one if none
// was saved.
func loadConfig(db gconf.ReadStore) (Configuration, error) {
	var conf Configuration
	switch err := gconf.Load(db, confPkg, &conf); {
	case err == nil:
		return conf, nil
	case errors.ErrNotFound.Is(err):
		return Configuration{}, nil
	default:
		return conf, errors.Wrap(err, "load configuration")
	}
}
