// Package fieldstore persists generated scalar fields in a SQLite database.
package fieldstore

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/MeKo-Tech/terrainnoise/internal/field"
)

// Metadata describes the run that produced a store.
type Metadata struct {
	Name        string
	Description string
	Version     string
	Seed        int64
	Size        int
}

// ToMap converts Metadata to a map for database insertion.
func (m Metadata) ToMap() map[string]string {
	result := map[string]string{
		"seed": strconv.FormatInt(m.Seed, 10),
	}
	if m.Name != "" {
		result["name"] = m.Name
	}
	if m.Description != "" {
		result["description"] = m.Description
	}
	if m.Version != "" {
		result["version"] = m.Version
	}
	if m.Size > 0 {
		result["size"] = strconv.Itoa(m.Size)
	}
	return result
}

func metadataFromMap(values map[string]string) Metadata {
	meta := Metadata{
		Name:        values["name"],
		Description: values["description"],
		Version:     values["version"],
	}
	if v, ok := values["seed"]; ok {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			meta.Seed = i
		}
	}
	if v, ok := values["size"]; ok {
		if i, err := strconv.Atoi(v); err == nil {
			meta.Size = i
		}
	}
	return meta
}

// Entry identifies one stored field.
type Entry struct {
	Name string
	Seed int64
	Size int
}

func (e Entry) String() string {
	return fmt.Sprintf("%s seed=%d size=%d", e.Name, e.Seed, e.Size)
}

// encodeField packs cells as little-endian float64 bits and gzips them.
func encodeField(f *field.Scalar) ([]byte, error) {
	values := f.Values()
	raw := make([]byte, 8*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint64(raw[i*8:], math.Float64bits(v))
	}

	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	if _, err := gw.Write(raw); err != nil {
		gw.Close()
		return nil, err
	}
	if err := gw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeField reverses encodeField.
func decodeField(size int, data []byte) (*field.Scalar, error) {
	gr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer gr.Close()

	raw, err := io.ReadAll(gr)
	if err != nil {
		return nil, err
	}
	if len(raw) != 8*size*size {
		return nil, fmt.Errorf("%w: blob holds %d bytes, want %d", field.ErrShapeMismatch, len(raw), 8*size*size)
	}

	values := make([]float64, size*size)
	for i := range values {
		values[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[i*8:]))
	}
	return field.FromValues(size, values)
}
