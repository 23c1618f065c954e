package orm

import (
	"encoding/binary"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/barter/errors"
)

// Counter is a minimal model used to exercise buckets and indexes.
type Counter struct {
	Count int64 `protobuf:"varint,1,opt,name=count,proto3" json:"count,omitempty"`
}

func NewCounter(count int64) *Counter {
	return &Counter{Count: count}
}

func (c *Counter) Validate() error {
	if c.Count < 0 {
		return errors.Wrap(errors.ErrAmount, "negative count")
	}
	return nil
}

func (c *Counter) Marshal() ([]byte, error) {
	return proto.Marshal((*counterCodec)(c))
}

func (c *Counter) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*counterCodec)(c))
}

type counterCodec Counter

func (m *counterCodec) Reset()         { *m = counterCodec{} }
func (m *counterCodec) String() string { return proto.CompactTextString(m) }
func (*counterCodec) ProtoMessage()    {}

// count indexes a Counter by its big-endian encoded value.
func count(obj Object) ([]byte, error) {
	if obj == nil {
		return nil, errors.Wrap(errors.ErrHuman, "cannot take index of nil")
	}
	cntr, ok := obj.Value().(*Counter)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidType, "%T", obj.Value())
	}
	return encodeCount(cntr.Count), nil
}

func encodeCount(n int64) []byte {
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, uint64(n))
	return raw
}
