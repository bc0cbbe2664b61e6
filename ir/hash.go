package ir

import "github.com/minio/highwayhash"

// hashKey is fixed so identity hashes are stable across processes and runs,
// matching the stable-key requirement of visited-sets and dedup maps.
var hashKey = []byte("ICC-RESOLVER-STABLE-HASH-KEY-001")

// Hash returns a stable 64-bit digest of data. The call graph uses it to
// build compact edge-identity keys for its dedup set instead of
// concatenating strings on every lookup.
func Hash(data []byte) uint64 {
	h, err := highwayhash.New64(hashKey)
	if err != nil {
		// hashKey is a fixed 32-byte constant; New64 only fails on bad key length.
		panic(err)
	}
	_, _ = h.Write(data)
	return h.Sum64()
}

// HashStrings hashes a sequence of strings joined by a separator that cannot
// appear inside any single component, avoiding collisions between e.g.
// ("ab", "c") and ("a", "bc").
func HashStrings(parts ...string) uint64 {
	buf := make([]byte, 0, 64)
	for _, p := range parts {
		buf = append(buf, 0x1f) // unit separator
		buf = append(buf, p...)
	}
	return Hash(buf)
}
