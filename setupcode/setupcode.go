// Package setupcode encodes a calculation request into a short, URL safe
// string that can be shared and decoded back into the same request.
//
// Code layout before base64 (unpadded, URL alphabet):
//
//	+-------+---------+-------------+-----------------+--------------+
//	| "CR"  | version | compression | payload         | checksum u32 |
//	| 2B    | 1B      | 1B          | variable        | 4B LE        |
//	+-------+---------+-------------+-----------------+--------------+
//
// The payload is the request's binary form compressed with the named codec.
// The checksum is the low 32 bits of xxHash64 over header and payload.
package setupcode

import (
	"encoding/base64"
	"fmt"

	"github.com/arloliu/coilrate"
	"github.com/arloliu/coilrate/compress"
	"github.com/arloliu/coilrate/endian"
	"github.com/arloliu/coilrate/errs"
	"github.com/arloliu/coilrate/format"
	"github.com/arloliu/coilrate/internal/hash"
)

const (
	// Version is the current code layout version.
	Version = 1

	headerSize   = 4
	checksumSize = 4

	// MaxCodeLen bounds the accepted code length in characters.
	MaxCodeLen = 2048
)

var (
	magic    = [2]byte{'C', 'R'}
	encoding = base64.RawURLEncoding
	engine   = endian.GetLittleEndianEngine()

	// codecOrder is the order EncodeShortest tries codecs; ties keep the earlier one.
	codecOrder = []format.CompressionType{
		format.CompressionNone,
		format.CompressionS2,
		format.CompressionLZ4,
		format.CompressionZstd,
	}
)

// Encode returns the setup code of req using compression for the payload.
func Encode(req coilrate.Request, compression format.CompressionType) (string, error) {
	payload, err := req.MarshalBinary()
	if err != nil {
		return "", err
	}

	return encodePayload(payload, compression)
}

// EncodeShortest encodes req with every built-in codec and returns the
// shortest code with the compression that produced it.
func EncodeShortest(req coilrate.Request) (string, format.CompressionType, error) {
	payload, err := req.MarshalBinary()
	if err != nil {
		return "", 0, err
	}

	var (
		best     string
		bestType format.CompressionType
	)
	for _, ct := range codecOrder {
		code, err := encodePayload(payload, ct)
		if err != nil {
			return "", 0, err
		}
		if best == "" || len(code) < len(best) {
			best, bestType = code, ct
		}
	}

	return best, bestType, nil
}

func encodePayload(payload []byte, compression format.CompressionType) (string, error) {
	codec, err := compress.GetCodec(compression)
	if err != nil {
		return "", err
	}
	compressed, err := codec.Compress(payload)
	if err != nil {
		return "", fmt.Errorf("compress setup code payload: %w", err)
	}

	buf := make([]byte, 0, headerSize+len(compressed)+checksumSize)
	buf = append(buf, magic[0], magic[1], Version, byte(compression))
	buf = append(buf, compressed...)
	buf = engine.AppendUint32(buf, hash.Checksum32(buf))

	return encoding.EncodeToString(buf), nil
}

// Decode parses a setup code produced by Encode.
//
// Returns:
//   - coilrate.Request: the decoded request, not yet validated
//   - error: errs.ErrInvalidSetupCode for malformed codes,
//     errs.ErrChecksumMismatch for altered codes and
//     errs.ErrUnsupportedVersion for codes from a newer layout
func Decode(code string) (coilrate.Request, error) {
	var req coilrate.Request

	if len(code) > MaxCodeLen {
		return req, fmt.Errorf("%w: %d characters", errs.ErrInvalidSetupCode, len(code))
	}
	raw, err := encoding.DecodeString(code)
	if err != nil {
		return req, fmt.Errorf("%w: %w", errs.ErrInvalidSetupCode, err)
	}
	if len(raw) < headerSize+checksumSize || raw[0] != magic[0] || raw[1] != magic[1] {
		return req, errs.ErrInvalidSetupCode
	}

	body, sum := raw[:len(raw)-checksumSize], raw[len(raw)-checksumSize:]
	if hash.Checksum32(body) != engine.Uint32(sum) {
		return req, errs.ErrChecksumMismatch
	}
	if body[2] != Version {
		return req, fmt.Errorf("%w: %d", errs.ErrUnsupportedVersion, body[2])
	}

	codec, err := compress.GetCodec(format.CompressionType(body[3]))
	if err != nil {
		return req, fmt.Errorf("%w: %w", errs.ErrInvalidSetupCode, err)
	}
	payload, err := codec.Decompress(body[headerSize:])
	if err != nil {
		return req, fmt.Errorf("%w: %w", errs.ErrInvalidSetupCode, err)
	}

	if err := req.UnmarshalBinary(payload); err != nil {
		return coilrate.Request{}, err
	}

	return req, nil
}
