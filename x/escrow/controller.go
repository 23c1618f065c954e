package escrow

import (
	"sort"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/barter"
	"github.com/iov-one/barter/coin"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/orm"
	"github.com/iov-one/barter/x/cash"
)

// Offer is an open escrow together with what its vault holds.
type Offer struct {
	Address barter.Address `protobuf:"bytes,1,opt,name=address,proto3,casttype=github.com/iov-one/barter.Address" json:"address,omitempty"`
	Escrow  *Escrow        `protobuf:"bytes,2,opt,name=escrow,proto3" json:"escrow,omitempty"`
	Vault   barter.Address `protobuf:"bytes,3,opt,name=vault,proto3,casttype=github.com/iov-one/barter.Address" json:"vault,omitempty"`
	Deposit *coin.Coin     `protobuf:"bytes,4,opt,name=deposit,proto3" json:"deposit,omitempty"`
}

func (m *Offer) Marshal() ([]byte, error) {
	return proto.Marshal((*offerCodec)(m))
}

func (m *Offer) Unmarshal(data []byte) error {
	return proto.Unmarshal(data, (*offerCodec)(m))
}

type offerCodec Offer

func (m *offerCodec) Reset()         { *m = offerCodec{} }
func (m *offerCodec) String() string { return proto.CompactTextString(m) }
func (*offerCodec) ProtoMessage()    {}

// Controller lists open offers.
type Controller struct {
	bucket orm.ModelBucket
	cash   cash.Controller
}

// NewController returns a controller reading escrows from given bucket and
// vault balances through the cash controller.
func NewController(bucket orm.ModelBucket, cashctrl cash.Controller) Controller {
	return Controller{bucket: bucket, cash: cashctrl}
}

// Offers returns all open offers in descending seed order. When maker is
// not empty, only offers created by that maker are returned.
func (c Controller) Offers(db barter.ReadOnlyKVStore, maker barter.Address) ([]Offer, error) {
	escrows, err := c.escrows(db, maker)
	if err != nil {
		return nil, err
	}
	offers := make([]Offer, 0, len(escrows))
	for _, e := range escrows {
		o := Offer{
			Address: e.Address(),
			Escrow:  e,
			Vault:   e.Vault(),
		}
		switch balance, err := c.cash.Balance(db, o.Vault); {
		case err == nil:
			held := balance.Balance(e.AssetA)
			o.Deposit = &held
		case errors.ErrNotFound.Is(err):
			o.Deposit = coin.NewCoinp(0, 0, e.AssetA)
		default:
			return nil, errors.Wrapf(err, "vault of %s", o.Address)
		}
		offers = append(offers, o)
	}
	sort.SliceStable(offers, func(i, j int) bool {
		return offers[i].Escrow.Seed > offers[j].Escrow.Seed
	})
	return offers, nil
}

func (c Controller) escrows(db barter.ReadOnlyKVStore, maker barter.Address) ([]*Escrow, error) {
	if len(maker) != 0 {
		var escrows []*Escrow
		if _, err := c.bucket.ByIndex(db, "maker", maker, &escrows); err != nil {
			return nil, errors.Wrap(err, "by maker")
		}
		return escrows, nil
	}

	models, err := c.bucket.Query(db, barter.PrefixQueryMod, nil)
	if err != nil {
		return nil, errors.Wrap(err, "query")
	}
	escrows := make([]*Escrow, 0, len(models))
	for _, m := range models {
		var e Escrow
		if err := e.Unmarshal(m.Value); err != nil {
			return nil, errors.Wrap(errors.ErrModel, err.Error())
		}
		escrows = append(escrows, &e)
	}
	return escrows, nil
}

// offersQuery serves the offers of one maker, whose address is the query
// data, or of everybody when the data is empty. Results are keyed by the
// escrow address.
type offersQuery struct {
	ctrl Controller
}

func (q offersQuery) Query(db barter.ReadOnlyKVStore, mod string, data []byte) ([]barter.Model, error) {
	if mod != barter.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "unsupported query modifier %q", mod)
	}
	maker := barter.Address(data)
	if len(maker) != 0 {
		if err := maker.Validate(); err != nil {
			return nil, errors.Wrap(err, "maker")
		}
	}
	offers, err := q.ctrl.Offers(db, maker)
	if err != nil {
		return nil, err
	}
	models := make([]barter.Model, len(offers))
	for i := range offers {
		raw, err := offers[i].Marshal()
		if err != nil {
			return nil, errors.Wrap(err, "offer")
		}
		models[i] = barter.Pair(offers[i].Address, raw)
	}
	return models, nil
}
