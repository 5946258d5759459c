package persist

import (
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
)

const lz4Extension = ".lz4"

// LZ4Codec wraps another codec in an LZ4 frame.
type LZ4Codec struct {
	// Inner produces the uncompressed payload.
	Inner Codec
	// Level is the compression level. The zero value is lz4.Fast.
	Level lz4.CompressionLevel
}

// NewLZ4Codec wraps inner with fast LZ4 compression.
func NewLZ4Codec(inner Codec) *LZ4Codec {
	return &LZ4Codec{Inner: inner, Level: lz4.Fast}
}

// Encode implements Codec.Encode by compressing the inner encoding.
func (c *LZ4Codec) Encode(w io.Writer, state any) error {
	zw := lz4.NewWriter(w)

	err := zw.Apply(lz4.CompressionLevelOption(c.Level))
	if err != nil {
		return fmt.Errorf("lz4 encode: %w", err)
	}

	err = c.Inner.Encode(zw, state)
	if err != nil {
		return err
	}

	err = zw.Close()
	if err != nil {
		return fmt.Errorf("lz4 encode: %w", err)
	}

	return nil
}

// Decode implements Codec.Decode by decompressing before the inner decoding.
func (c *LZ4Codec) Decode(r io.Reader, state any) error {
	err := c.Inner.Decode(lz4.NewReader(r), state)
	if err != nil {
		return fmt.Errorf("lz4 decode: %w", err)
	}

	return nil
}

// Extension implements Codec.Extension, e.g. ".json.lz4".
func (c *LZ4Codec) Extension() string {
	return c.Inner.Extension() + lz4Extension
}
