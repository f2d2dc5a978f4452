package crypto

import (
	"encoding/base64"
	"fmt"
)

// Envelope is one encrypted scalar split into its parts.
type Envelope struct {
	Salt       []byte
	Nonce      []byte
	Tag        []byte
	Ciphertext []byte
}

// Pack concatenates salt, nonce, tag and ciphertext in that order and
// returns the buffer as padded standard Base64.
func Pack(salt, nonce, tag, ciphertext []byte) string {
	buf := make([]byte, 0, len(salt)+len(nonce)+len(tag)+len(ciphertext))
	buf = append(buf, salt...)
	buf = append(buf, nonce...)
	buf = append(buf, tag...)
	buf = append(buf, ciphertext...)
	return base64.StdEncoding.EncodeToString(buf)
}

// Unpack decodes envelope text produced by Pack.
func Unpack(text string) (Envelope, error) {
	data, err := base64.StdEncoding.DecodeString(text)
	if err != nil {
		return Envelope{}, fmt.Errorf("%w: not valid base64", ErrMalformedEnvelope)
	}
	if len(data) < MinEnvelopeSize {
		return Envelope{}, fmt.Errorf("%w: %d bytes, need at least %d", ErrMalformedEnvelope, len(data), MinEnvelopeSize)
	}

	// full slice expressions keep appends to one part from spilling into the next
	return Envelope{
		Salt:       data[:SaltSize:SaltSize],
		Nonce:      data[SaltSize : SaltSize+NonceSize : SaltSize+NonceSize],
		Tag:        data[SaltSize+NonceSize : MinEnvelopeSize : MinEnvelopeSize],
		Ciphertext: data[MinEnvelopeSize:],
	}, nil
}
