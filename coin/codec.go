package coin

import (
	"github.com/gogo/protobuf/proto"
)

// Coin can hold any amount of a single currency. The value is Whole plus
// Fractional / FracUnit and both parts carry the same sign.
type Coin struct {
	Whole      int64 `protobuf:"varint,1,opt,name=whole,proto3" json:"whole,omitempty"`
	Fractional int64 `protobuf:"varint,2,opt,name=fractional,proto3" json:"fractional,omitempty"`
	// Ticker is 3-4 upper-case letters and
	// all Coins of the same currency can be combined
	Ticker string `protobuf:"bytes,3,opt,name=ticker,proto3" json:"ticker,omitempty"`
}

func (m *Coin) GetWhole() int64 {
	if m != nil {
		return m.Whole
	}
	return 0
}

func (m *Coin) GetFractional() int64 {
	if m != nil {
		return m.Fractional
	}
	return 0
}

func (m *Coin) GetTicker() string {
	if m != nil {
		return m.Ticker
	}
	return ""
}

func (m *Coin) Marshal() ([]byte, error) {
	return proto.Marshal((*coinCodec)(m))
}

func (m *Coin) Unmarshal(data []byte) error {
	return proto.Unmarshal(data, (*coinCodec)(m))
}

type coinCodec Coin

func (m *coinCodec) Reset()         { *m = coinCodec{} }
func (m *coinCodec) String() string { return proto.CompactTextString(m) }
func (*coinCodec) ProtoMessage()    {}
