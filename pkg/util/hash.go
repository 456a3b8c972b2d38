package util

import "github.com/cespare/xxhash/v2"

// ContentHash returns the xxHash64 digest of data.
func ContentHash(data []byte) uint64 {
	return xxhash.Sum64(data)
}
