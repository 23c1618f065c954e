package escrow

import (
	"bytes"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/barter"
	"github.com/iov-one/barter/coin"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/orm"
)

// BucketName is where the escrow records are stored.
const BucketName = "escrow"

// Escrow is a single offer: the maker deposited AssetA into the vault and
// wants ReceiveAmount of AssetB for it.
type Escrow struct {
	Seed          uint64         `protobuf:"varint,1,opt,name=seed,proto3" json:"seed,omitempty"`
	Maker         barter.Address `protobuf:"bytes,2,opt,name=maker,proto3,casttype=github.com/iov-one/barter.Address" json:"maker,omitempty"`
	AssetA        string         `protobuf:"bytes,3,opt,name=asset_a,json=assetA,proto3" json:"asset_a,omitempty"`
	AssetB        string         `protobuf:"bytes,4,opt,name=asset_b,json=assetB,proto3" json:"asset_b,omitempty"`
	ReceiveAmount *coin.Coin     `protobuf:"bytes,5,opt,name=receive_amount,json=receiveAmount,proto3" json:"receive_amount,omitempty"`
	// DerivationTag holds the seeds the escrow address is derived from.
	DerivationTag []byte `protobuf:"bytes,6,opt,name=derivation_tag,json=derivationTag,proto3" json:"derivation_tag,omitempty"`
}

var _ orm.Model = (*Escrow)(nil)

func (m *Escrow) GetSeed() uint64 {
	if m != nil {
		return m.Seed
	}
	return 0
}

func (m *Escrow) GetMaker() barter.Address {
	if m != nil {
		return m.Maker
	}
	return nil
}

func (m *Escrow) GetReceiveAmount() *coin.Coin {
	if m != nil {
		return m.ReceiveAmount
	}
	return nil
}

func (m *Escrow) Marshal() ([]byte, error) {
	return proto.Marshal((*escrowCodec)(m))
}

func (m *Escrow) Unmarshal(data []byte) error {
	return proto.Unmarshal(data, (*escrowCodec)(m))
}

type escrowCodec Escrow

func (m *escrowCodec) Reset()         { *m = escrowCodec{} }
func (m *escrowCodec) String() string { return proto.CompactTextString(m) }
func (*escrowCodec) ProtoMessage()    {}

// Validate ensures the escrow is valid
func (e *Escrow) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Maker", e.Maker.Validate())
	if !coin.IsCC(e.AssetA) {
		errs = errors.AppendField(errs, "AssetA", errors.ErrCurrency)
	}
	if !coin.IsCC(e.AssetB) {
		errs = errors.AppendField(errs, "AssetB", errors.ErrCurrency)
	}
	switch r := e.ReceiveAmount; {
	case coin.IsEmpty(r) || !r.IsPositive():
		errs = errors.AppendField(errs, "ReceiveAmount", errors.ErrAmount)
	case r.Ticker != e.AssetB:
		errs = errors.Append(errs, errors.Field("ReceiveAmount", errors.ErrCurrency, "must be %s", e.AssetB))
	default:
		errs = errors.AppendField(errs, "ReceiveAmount", r.Validate())
	}
	if !bytes.Equal(e.DerivationTag, DerivationSeeds(e.Maker, e.Seed)) {
		errs = errors.Append(errs, errors.Field("DerivationTag", errors.ErrState, "does not match maker and seed"))
	}
	return errs
}

// Condition returns the condition the escrow authorizes vault transfers
// with.
func (e *Escrow) Condition() barter.Condition {
	return Condition(e.DerivationTag)
}

// Address returns the address the escrow is stored under. It is also the
// authority of the vault.
func (e *Escrow) Address() barter.Address {
	return e.Condition().Address()
}

// Vault returns the address of the wallet holding the deposit.
func (e *Escrow) Vault() barter.Address {
	return DeriveVault(e.Address(), e.AssetA)
}

// NewBucket returns a bucket for storing escrow records. Records are
// indexed by their maker.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &Escrow{},
		orm.WithIndex("maker", makerIndex, false))
}

func makerIndex(obj orm.Object) ([]byte, error) {
	if obj == nil {
		return nil, errors.Wrap(errors.ErrHuman, "cannot take index of nil")
	}
	esc, ok := obj.Value().(*Escrow)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidType, "%T", obj.Value())
	}
	return esc.Maker, nil
}
