// Package geometry holds the registry of known PNFS volume geometries and
// validates a host image against one before it's trusted.
//
// Today there's exactly one registered geometry, the fixed 250 block x 512
// byte volume spec'd for PNFS, but the registry is loaded from an embedded
// CSV table, so adding a second variant later is a one-line CSV addition,
// not a code change.
package geometry

import (
	_ "embed"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
)

//go:embed pnfs-geometry.csv
var rawGeometryCSV string

// Geometry describes one known PNFS volume layout.
type Geometry struct {
	Name        string `csv:"name"`
	Slug        string `csv:"slug"`
	BlockSize   uint   `csv:"block_size"`
	TotalBlocks uint   `csv:"total_blocks"`
	MagicHex    string `csv:"magic"`
}

// TotalSizeBytes gives the exact size a host image for this geometry must
// have.
func (g Geometry) TotalSizeBytes() int64 {
	return int64(g.BlockSize) * int64(g.TotalBlocks)
}

// Magic parses the registered magic number.
func (g Geometry) Magic() (uint32, error) {
	hex := strings.TrimPrefix(g.MagicHex, "0x")
	value, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("geometry %q: bad magic %q: %w", g.Slug, g.MagicHex, err)
	}
	return uint32(value), nil
}

var registry map[string]Geometry

func init() {
	registry = make(map[string]Geometry)
	reader := strings.NewReader(rawGeometryCSV)
	err := gocsv.UnmarshalToCallback(reader, func(row Geometry) error {
		if _, exists := registry[row.Slug]; exists {
			return fmt.Errorf("duplicate geometry slug %q", row.Slug)
		}
		registry[row.Slug] = row
		return nil
	})
	if err != nil && err != io.EOF {
		panic(fmt.Sprintf("geometry: failed to load embedded registry: %s", err))
	}
}

// Lookup returns the geometry registered under slug.
func Lookup(slug string) (Geometry, error) {
	g, ok := registry[slug]
	if !ok {
		return Geometry{}, fmt.Errorf("no registered geometry named %q", slug)
	}
	return g, nil
}

// Standard is the sole PNFS geometry: 250 blocks of 512 bytes each.
func Standard() Geometry {
	g, err := Lookup("pnfs-std")
	if err != nil {
		panic(err)
	}
	return g
}

// Validate checks that imageLen matches the geometry's expected size. It's
// used by restoreImage to reject a host file before even looking at the
// magic number baked into block 0.
func (g Geometry) Validate(imageLen int) error {
	expected := g.TotalSizeBytes()
	if int64(imageLen) != expected {
		return fmt.Errorf(
			"image is %d bytes, expected exactly %d for geometry %q",
			imageLen, expected, g.Slug,
		)
	}
	return nil
}
