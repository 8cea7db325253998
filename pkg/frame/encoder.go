package frame

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"

	"github.com/klauspost/compress/zstd"
)

// Encode wraps payload in a data frame: magic + type + total length + flags
// + payload + CRC32. With FlagZstd the payload is compressed before framing.
func Encode(payload []byte, flags byte) ([]byte, error) {
	if flags&FlagZstd != 0 {
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
		if err != nil {
			return nil, err
		}
		payload = enc.EncodeAll(payload, nil)
		enc.Close()
	}

	buf := &bytes.Buffer{}
	buf.WriteByte(Magic0)
	buf.WriteByte(Magic1)
	buf.WriteByte(TypeData)

	// reserve length + flags
	binary.Write(buf, binary.LittleEndian, uint32(0)) // length placeholder
	buf.WriteByte(flags)
	buf.Write(payload)

	// fill in total length (everything up to and including the CRC)
	out := buf.Bytes()
	total := uint32(len(out) + trailerSize)
	binary.LittleEndian.PutUint32(out[3:], total)

	// CRC over the frame minus magic
	crc := crc32.ChecksumIEEE(out[2:])
	out = append(out, 0, 0, 0, 0)
	binary.LittleEndian.PutUint32(out[len(out)-4:], crc)
	return out, nil
}
