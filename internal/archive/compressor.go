package archive

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
	"rpd/internal/archive/interfaces"
)

// ZstdCompression squeezes archive snapshots before they hit disk. One
// encoder/decoder pair is shared for the process lifetime.
type ZstdCompression struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

func NewZstdCompressor() (interfaces.CompressorInterface, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	return &ZstdCompression{encoder: encoder, decoder: decoder}, nil
}

func (z *ZstdCompression) Compress(data []byte) ([]byte, error) {
	// JSON archives compress well, half the input is a generous guess.
	return z.encoder.EncodeAll(data, make([]byte, 0, len(data)/2)), nil
}

func (z *ZstdCompression) Decompress(data []byte) ([]byte, error) {
	return z.decoder.DecodeAll(data, nil)
}

func (z *ZstdCompression) Close() {
	_ = z.encoder.Close()
	z.decoder.Close()
}
