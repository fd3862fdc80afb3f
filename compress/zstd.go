package compress

// zstdLevel is the compression level of both zstd backends. Setup payloads
// are tiny, so the slowest level costs nothing noticeable.
const zstdLevel = 19

// ZstdCompressor compresses payloads as zstd frames.
//
// The backend is selected at build time: pure Go by default, libzstd with
// the gozstd build tag.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor.
//
// Example:
//
//	compressor := NewZstdCompressor()
//	compressed, err := compressor.Compress(payload)
//	if err != nil {
//		return err
//	}
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
