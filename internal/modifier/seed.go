package modifier

import (
	"hash/fnv"
	"strconv"

	"github.com/gogpu/pixelsrc/internal/pixset"
)

// DeriveSeed returns the jitter seed of a region. An explicit seed is used
// as is; otherwise the seed hashes the sprite name, region name and
// declaration index.
func DeriveSeed(sprite, region string, index int, explicit *int64) uint64 {
	if explicit != nil {
		return uint64(*explicit)
	}
	h := fnv.New64a()
	h.Write([]byte(sprite))
	h.Write([]byte{0})
	h.Write([]byte(region))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(index)))
	return h.Sum64()
}

// pointKey packs a pixel position into a generator stream selector.
func pointKey(p pixset.Point) uint64 {
	return uint64(uint32(int32(p.X)))<<32 | uint64(uint32(int32(p.Y)))
}
