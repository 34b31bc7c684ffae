package cache

import "errors"

var (
	ErrKeyNotFound        = errors.New("key not found")
	ErrKeyExpired         = errors.New("key expired")
	ErrUnsupportedBackend = errors.New("unsupported cache backend")
)

// IsMiss reports whether err means the key holds no value.
func IsMiss(err error) bool {
	return errors.Is(err, ErrKeyNotFound) || errors.Is(err, ErrKeyExpired)
}
