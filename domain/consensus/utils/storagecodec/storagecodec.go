// Package storagecodec provides the byte encoding datastructure stores
// use to round-trip domain objects through a model.DBContext. It
// deliberately uses the standard library's gob rather than a
// third-party codec: nothing outside this package ever reads these
// bytes, so there is no wire or cross-implementation compatibility
// concern a richer codec would serve.
package storagecodec

import (
	"bytes"
	"encoding/gob"

	"github.com/pkg/errors"
)

// Encode gob-encodes v.
func Encode(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, errors.Wrap(err, "encoding value")
	}
	return buf.Bytes(), nil
}

// Decode gob-decodes data into v.
func Decode(data []byte, v interface{}) error {
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(v); err != nil {
		return errors.Wrap(err, "decoding value")
	}
	return nil
}
