package cmd

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/radforge/voxelstats/pkg/config"
	"github.com/radforge/voxelstats/pkg/volume"
)

// newGridVolume builds an empty volume on the configured grid.
func newGridVolume[T volume.Element](cfg *config.Config) (*volume.Volume3D[T], error) {
	g := cfg.Grid
	if g.DimX <= 0 || g.DimY <= 0 || g.DimZ <= 0 {
		return nil, fmt.Errorf("grid dimensions must be set in the config, got %dx%dx%d", g.DimX, g.DimY, g.DimZ)
	}
	v := volume.New[T](g.DimX, g.DimY, g.DimZ)
	v.Spacing = volume.Spacing{X: g.SpacingX, Y: g.SpacingY, Z: g.SpacingZ}
	return v, nil
}

// readRawMask loads a header-free uint8 mask. Any nonzero byte counts as
// foreground.
func readRawMask(path string, cfg *config.Config) (*volume.Volume3D[uint8], error) {
	v, err := newGridVolume[uint8](cfg)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading mask %s: %w", path, err)
	}
	if len(data) != v.Len() {
		return nil, fmt.Errorf("mask %s is %d bytes, grid wants %d", path, len(data), v.Len())
	}
	for i, b := range data {
		if b != 0 {
			v.Data[i] = volume.Foreground
		}
	}
	return v, nil
}

// readRawIntensity loads a header-free little-endian int16 intensity
// volume into float32.
func readRawIntensity(path string, cfg *config.Config) (*volume.Volume3D[float32], error) {
	v, err := newGridVolume[float32](cfg)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading intensity %s: %w", path, err)
	}
	if len(data) != 2*v.Len() {
		return nil, fmt.Errorf("intensity %s is %d bytes, grid wants %d", path, len(data), 2*v.Len())
	}
	for i := range v.Data {
		v.Data[i] = float32(int16(binary.LittleEndian.Uint16(data[2*i:])))
	}
	return v, nil
}

// writeRawMask dumps a mask back out as header-free uint8 bytes.
func writeRawMask(path string, v *volume.Volume3D[uint8]) error {
	if err := os.WriteFile(path, v.Data, 0644); err != nil {
		return fmt.Errorf("writing mask %s: %w", path, err)
	}
	return nil
}
