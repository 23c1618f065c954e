package escrow

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/barter"
	"github.com/iov-one/barter/coin"
	"github.com/iov-one/barter/errors"
)

const (
	pathMakeMsg                = "escrow/make"
	pathTakeMsg                = "escrow/take"
	pathRefundMsg              = "escrow/refund"
	pathUpdateConfigurationMsg = "escrow/update_configuration"
)

var (
	_ barter.Msg = (*MakeMsg)(nil)
	_ barter.Msg = (*TakeMsg)(nil)
	_ barter.Msg = (*RefundMsg)(nil)
	_ barter.Msg = (*UpdateConfigurationMsg)(nil)
)

// MakeMsg creates an offer. The deposit is moved from the maker wallet to
// the vault.
type MakeMsg struct {
	// Maker defaults to the main signer if not set.
	Maker   barter.Address `protobuf:"bytes,1,opt,name=maker,proto3,casttype=github.com/iov-one/barter.Address" json:"maker,omitempty"`
	Seed    uint64         `protobuf:"varint,2,opt,name=seed,proto3" json:"seed,omitempty"`
	Deposit *coin.Coin     `protobuf:"bytes,3,opt,name=deposit,proto3" json:"deposit,omitempty"`
	Receive *coin.Coin     `protobuf:"bytes,4,opt,name=receive,proto3" json:"receive,omitempty"`
}

func (m *MakeMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*makeMsgCodec)(m))
}

func (m *MakeMsg) Unmarshal(data []byte) error {
	return proto.Unmarshal(data, (*makeMsgCodec)(m))
}

type makeMsgCodec MakeMsg

func (m *makeMsgCodec) Reset()         { *m = makeMsgCodec{} }
func (m *makeMsgCodec) String() string { return proto.CompactTextString(m) }
func (*makeMsgCodec) ProtoMessage()    {}

func (MakeMsg) Path() string {
	return pathMakeMsg
}

// Validate makes sure that this is sensible
func (m *MakeMsg) Validate() error {
	var errs error
	if len(m.Maker) != 0 {
		errs = errors.AppendField(errs, "Maker", m.Maker.Validate())
	}
	errs = errors.AppendField(errs, "Deposit", validAmount(m.Deposit))
	errs = errors.AppendField(errs, "Receive", validAmount(m.Receive))
	return errs
}

func validAmount(c *coin.Coin) error {
	if coin.IsEmpty(c) || !c.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "non-positive: %v", c)
	}
	return c.Validate()
}

// Locator points to a single escrow, either by its address or by the maker
// and seed it was created with.
type Locator struct {
	Escrow barter.Address `protobuf:"bytes,1,opt,name=escrow,proto3,casttype=github.com/iov-one/barter.Address" json:"escrow,omitempty"`
	Maker  barter.Address `protobuf:"bytes,2,opt,name=maker,proto3,casttype=github.com/iov-one/barter.Address" json:"maker,omitempty"`
	Seed   uint64         `protobuf:"varint,3,opt,name=seed,proto3" json:"seed,omitempty"`
}

// Key returns the escrow address.
func (l Locator) Key() barter.Address {
	if len(l.Escrow) != 0 {
		return l.Escrow
	}
	return Derive(l.Maker, l.Seed)
}

func (l Locator) validate() error {
	switch {
	case len(l.Escrow) == 0 && len(l.Maker) == 0:
		return errors.Field("Escrow", errors.ErrEmpty, "escrow address or maker is required")
	case len(l.Escrow) != 0 && len(l.Maker) == 0:
		return errors.Field("Escrow", l.Escrow.Validate(), "")
	case len(l.Escrow) == 0:
		return errors.Field("Maker", l.Maker.Validate(), "")
	}
	if err := l.Maker.Validate(); err != nil {
		return errors.Field("Maker", err, "")
	}
	if !l.Escrow.Equals(Derive(l.Maker, l.Seed)) {
		return errors.Field("Escrow", errors.ErrInvalidInput, "does not match maker and seed")
	}
	return nil
}

// TakeMsg fulfils an offer. The taker pays the receive amount to the maker
// and gets the whole vault.
type TakeMsg struct {
	Locator
	// Taker defaults to the main signer if not set.
	Taker barter.Address `protobuf:"bytes,4,opt,name=taker,proto3,casttype=github.com/iov-one/barter.Address" json:"taker,omitempty"`
}

func (m *TakeMsg) Marshal() ([]byte, error) {
	return proto.Marshal(&takeMsgCodec{
		Escrow: m.Escrow,
		Maker:  m.Maker,
		Seed:   m.Seed,
		Taker:  m.Taker,
	})
}

func (m *TakeMsg) Unmarshal(data []byte) error {
	var c takeMsgCodec
	if err := proto.Unmarshal(data, &c); err != nil {
		return err
	}
	*m = TakeMsg{
		Locator: Locator{Escrow: c.Escrow, Maker: c.Maker, Seed: c.Seed},
		Taker:   c.Taker,
	}
	return nil
}

type takeMsgCodec struct {
	Escrow []byte `protobuf:"bytes,1,opt,name=escrow,proto3"`
	Maker  []byte `protobuf:"bytes,2,opt,name=maker,proto3"`
	Seed   uint64 `protobuf:"varint,3,opt,name=seed,proto3"`
	Taker  []byte `protobuf:"bytes,4,opt,name=taker,proto3"`
}

func (m *takeMsgCodec) Reset()         { *m = takeMsgCodec{} }
func (m *takeMsgCodec) String() string { return proto.CompactTextString(m) }
func (*takeMsgCodec) ProtoMessage()    {}

func (TakeMsg) Path() string {
	return pathTakeMsg
}

// Validate makes sure that this is sensible
func (m *TakeMsg) Validate() error {
	errs := m.Locator.validate()
	if len(m.Taker) != 0 {
		errs = errors.AppendField(errs, "Taker", m.Taker.Validate())
	}
	return errs
}

// RefundMsg cancels an offer and returns the deposit to the maker.
type RefundMsg struct {
	Locator
}

func (m *RefundMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*locatorCodec)(&m.Locator))
}

func (m *RefundMsg) Unmarshal(data []byte) error {
	return proto.Unmarshal(data, (*locatorCodec)(&m.Locator))
}

type locatorCodec Locator

func (m *locatorCodec) Reset()         { *m = locatorCodec{} }
func (m *locatorCodec) String() string { return proto.CompactTextString(m) }
func (*locatorCodec) ProtoMessage()    {}

func (RefundMsg) Path() string {
	return pathRefundMsg
}

// Validate makes sure that this is sensible
func (m *RefundMsg) Validate() error {
	return m.Locator.validate()
}

// UpdateConfigurationMsg replaces the escrow configuration.
type UpdateConfigurationMsg struct {
	Patch *Configuration `protobuf:"bytes,1,opt,name=patch,proto3" json:"patch,omitempty"`
}

func (m *UpdateConfigurationMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*updateConfigurationMsgCodec)(m))
}

func (m *UpdateConfigurationMsg) Unmarshal(data []byte) error {
	return proto.Unmarshal(data, (*updateConfigurationMsgCodec)(m))
}

type updateConfigurationMsgCodec UpdateConfigurationMsg

func (m *updateConfigurationMsgCodec) Reset()         { *m = updateConfigurationMsgCodec{} }
func (m *updateConfigurationMsgCodec) String() string { return proto.CompactTextString(m) }
func (*updateConfigurationMsgCodec) ProtoMessage()    {}

func (UpdateConfigurationMsg) Path() string {
	return pathUpdateConfigurationMsg
}

// Validate checks the patch. An empty owner keeps the current one.
func (m *UpdateConfigurationMsg) Validate() error {
	if m.Patch == nil {
		return errors.Field("Patch", errors.ErrEmpty, "")
	}
	if len(m.Patch.Owner) != 0 {
		return errors.Field("Patch.Owner", m.Patch.Owner.Validate(), "")
	}
	return nil
}
