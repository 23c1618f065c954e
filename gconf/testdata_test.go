package gconf

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/barter"
	"github.com/iov-one/barter/errors"
)

type myconfig struct {
	Owner barter.Address `protobuf:"bytes,1,opt,name=owner,proto3,casttype=github.com/iov-one/barter.Address" json:"owner,omitempty"`
	Num   int64          `protobuf:"varint,2,opt,name=num,proto3" json:"num,omitempty"`
	Str   string         `protobuf:"bytes,3,opt,name=str,proto3" json:"str,omitempty"`
}

func (c *myconfig) GetOwner() barter.Address { return c.Owner }

func (c *myconfig) Validate() error {
	if c.Num < 0 {
		return errors.Wrap(errors.ErrInvalidInput, "negative num")
	}
	if len(c.Owner) != 0 {
		return c.Owner.Validate()
	}
	return nil
}

func (c *myconfig) Marshal() ([]byte, error) {
	return proto.Marshal((*myconfigCodec)(c))
}

func (c *myconfig) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*myconfigCodec)(c))
}

type myconfigCodec myconfig

func (m *myconfigCodec) Reset()         { *m = myconfigCodec{} }
func (m *myconfigCodec) String() string { return proto.CompactTextString(m) }
func (*myconfigCodec) ProtoMessage()    {}

type myconfigMsg struct {
	Patch *myconfig
}

var _ barter.Msg = (*myconfigMsg)(nil)

func (m *myconfigMsg) Path() string               { return "gconf/myconfig" }
func (m *myconfigMsg) Marshal() ([]byte, error)   { panic("not implemented") }
func (m *myconfigMsg) Unmarshal(raw []byte) error { panic("not implemented") }

func (m *myconfigMsg) Validate() error {
	if m.Patch == nil {
		return nil
	}
	return m.Patch.Validate()
}
