// Package compress provides the payload codecs used by setup codes.
//
// A setup code carries a small binary payload. Before it is checksummed and
// base64 encoded, the payload may be compressed with one of:
//   - None: payload stored as is
//   - Zstd: best ratio, the default for shared codes
//   - S2: fast, with a modest ratio
//   - LZ4: fast block compression
//
// The compression type is recorded in the setup code header, so a decoder
// picks the matching codec with GetCodec.
//
// Zstd uses the pure Go github.com/klauspost/compress/zstd by default. Building
// with the gozstd tag (and cgo) switches to the libzstd based
// github.com/valyala/gozstd. Both produce standard zstd frames and are
// interchangeable on the wire.
//
// Every decompressor refuses to produce more than MaxDecodedSize bytes, since
// setup codes are untrusted user input.
package compress
