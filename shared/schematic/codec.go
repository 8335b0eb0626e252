package schematic

import (
	"encoding/binary"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// Células viajam comprimidas com zstd tanto no banco quanto no protocolo de
// rede: grades grandes são quase sempre repetição de poucos tipos.

var (
	cellEncoder, _ = zstd.NewWriter(nil)
	cellDecoder, _ = zstd.NewReader(nil)
)

// PackCells serializa o array de células em little-endian e comprime.
func PackCells(cells []int32) []byte {
	raw := make([]byte, 4*len(cells))
	for i, c := range cells {
		binary.LittleEndian.PutUint32(raw[i*4:], uint32(c))
	}
	return cellEncoder.EncodeAll(raw, nil)
}

// UnpackCells descomprime e decodifica um payload gerado por PackCells.
func UnpackCells(packed []byte) ([]int32, error) {
	raw, err := cellDecoder.DecodeAll(packed, nil)
	if err != nil {
		return nil, fmt.Errorf("schematic: payload de células corrompido: %w", err)
	}
	if len(raw)%4 != 0 {
		return nil, fmt.Errorf("schematic: payload de células com %d bytes (não múltiplo de 4)", len(raw))
	}
	cells := make([]int32, len(raw)/4)
	for i := range cells {
		cells[i] = int32(binary.LittleEndian.Uint32(raw[i*4:]))
	}
	return cells, nil
}
