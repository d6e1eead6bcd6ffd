package offer

import (
	"github.com/google/uuid"
	"github.com/mr-tron/base58"
)

// NewPreAuthorizedCode returns a random UUID in short form: its 16 bytes in
// flickr base58.
func NewPreAuthorizedCode() string {
	id := uuid.New()
	return base58.EncodeAlphabet(id[:], base58.FlickrAlphabet)
}
