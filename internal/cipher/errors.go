package cipher

import "errors"

var ErrInvalidCiphertext = errors.New("invalid ciphertext")
