package bartertest

import "github.com/iov-one/barter"

// Tx carries Msg. A set Err is returned by GetMsg together with Msg.
type Tx struct {
	Msg barter.Msg
	Err error
}

var _ barter.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (barter.Msg, error) {
	return tx.Msg, tx.Err
}

func (tx *Tx) Marshal() ([]byte, error) {
	panic("bartertest.Tx cannot be serialized")
}

func (tx *Tx) Unmarshal([]byte) error {
	panic("bartertest.Tx cannot be serialized")
}

// Msg routes to RoutePath. Serialized is what Marshal returns and what
// Unmarshal stores. A set Err fails validation and serialization.
type Msg struct {
	RoutePath  string
	Serialized []byte
	Err        error
}

var _ barter.Msg = (*Msg)(nil)

func (m *Msg) Path() string {
	return m.RoutePath
}

func (m *Msg) Validate() error {
	return m.Err
}

func (m *Msg) Marshal() ([]byte, error) {
	return m.Serialized, m.Err
}

func (m *Msg) Unmarshal(raw []byte) error {
	m.Serialized = raw
	return m.Err
}
