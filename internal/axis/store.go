package axis

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"semaxis/internal/domain"
)

const float64Size = 8

// Save writes a as a flat little-endian float64 array, creating parent
// directories as needed. The dimension is the file length divided by 8.
func Save(path string, a Axis) error {
	if len(a) == 0 {
		return domain.NewEmptyInputError("axis")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	buf := make([]byte, len(a)*float64Size)
	for i, v := range a {
		binary.LittleEndian.PutUint64(buf[i*float64Size:], math.Float64bits(v))
	}
	return os.WriteFile(path, buf, 0o644)
}

// Load reads an axis written by Save. A missing file yields
// *domain.AxisNotFoundError; contents that are not a whole, non-empty
// float64 array yield *domain.AxisFormatError.
func Load(path string) (Axis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.NewAxisNotFoundError(path)
		}
		return nil, err
	}
	if len(data) == 0 {
		return nil, domain.NewAxisFormatError(path, "file is empty")
	}
	if len(data)%float64Size != 0 {
		return nil, domain.NewAxisFormatError(path, fmt.Sprintf("size %d is not a multiple of %d", len(data), float64Size))
	}
	a := make(Axis, len(data)/float64Size)
	for i := range a {
		a[i] = math.Float64frombits(binary.LittleEndian.Uint64(data[i*float64Size:]))
	}
	return a, nil
}
