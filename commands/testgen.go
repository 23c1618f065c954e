// Package commands holds the command line actions shared by barter nodes.
package commands

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/errors"
)

// Example is an object written out in both encodings, as <Filename>.json
// and <Filename>.bin.
type Example struct {
	Filename string
	Obj      barter.Marshaller
}

// TestGenCmd writes the examples into the directory given as the first
// argument, "testdata" by default. Clients use the files to check their
// encoders against the node.
func TestGenCmd(examples []Example, args []string) error {
	dir := "testdata"
	if len(args) > 0 {
		dir = args[0]
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "create %s", dir)
	}
	for _, ex := range examples {
		if err := writeExample(dir, ex); err != nil {
			return errors.Wrap(err, ex.Filename)
		}
	}
	return nil
}

func writeExample(dir string, ex Example) error {
	js, err := json.Marshal(ex.Obj)
	if err != nil {
		return errors.Wrap(err, "json")
	}
	bin, err := ex.Obj.Marshal()
	if err != nil {
		return errors.Wrap(err, "protobuf")
	}
	base := filepath.Join(dir, ex.Filename)
	if err := ioutil.WriteFile(base+".json", js, 0644); err != nil {
		return err
	}
	return ioutil.WriteFile(base+".bin", bin, 0644)
}
