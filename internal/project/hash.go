package project

import (
	"crypto/sha256"
	"encoding/binary"
	"strconv"
	"strings"
)

// Digest - фиксированный 256 битный хеш (совместим с source.File.Hash)
type Digest [32]byte

// Combine строит хеш: H( content || part1 || part2 ... ).
// Порядок parts должен быть детерминированным.
func Combine(content Digest, parts ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range parts {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// Fingerprint hashes every setting that changes what a file expands to.
// Cache entries keyed with it go stale when the config changes.
func (c Config) Fingerprint() Digest {
	h := sha256.New()
	writeStr := func(s string) {
		var n [8]byte
		binary.LittleEndian.PutUint64(n[:], uint64(len(s)))
		_, _ = h.Write(n[:])
		_, _ = h.Write([]byte(s))
	}
	writeStr(c.Engine().String())
	writeStr(strconv.Itoa(c.Expand.MaxDepth))
	writeStr(strings.Join(c.Scan.Attributes, "\x00"))
	writeStr(strings.Join(c.Scan.Functions, "\x00"))
	if c.Output.Merge {
		writeStr("merge")
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}
