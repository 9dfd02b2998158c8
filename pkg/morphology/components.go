package morphology

import "github.com/radforge/voxelstats/pkg/volume"

// disjointSet is a union-find over linear voxel indices with path
// compression and union by rank.
type disjointSet struct {
	parent []int32
	rank   []uint8
}

func newDisjointSet(n int) *disjointSet {
	parent := make([]int32, n)
	for i := range parent {
		parent[i] = int32(i)
	}
	return &disjointSet{parent: parent, rank: make([]uint8, n)}
}

func (d *disjointSet) find(i int32) int32 {
	root := i
	for d.parent[root] != root {
		root = d.parent[root]
	}
	for d.parent[i] != root {
		d.parent[i], i = root, d.parent[i]
	}
	return root
}

func (d *disjointSet) unite(a, b int32) {
	ra, rb := d.find(a), d.find(b)
	if ra == rb {
		return
	}
	if d.rank[ra] < d.rank[rb] {
		ra, rb = rb, ra
	}
	d.parent[rb] = ra
	if d.rank[ra] == d.rank[rb] {
		d.rank[ra]++
	}
}

// ComponentSet is a 26-connected labeling of a binary mask. Labels run
// from 1 to Count; background voxels carry label 0.
type ComponentSet struct {
	Labels []int32
	Count  int

	// representatives holds, per component, the linear index of its first
	// voxel in scan order. Scan order makes it a surface voxel: its -Y
	// neighbor is background or outside the volume.
	representatives []int
}

// Representatives returns one surface-voxel linear index per component.
func (c *ComponentSet) Representatives() []int { return c.representatives }

// Components labels the 26-connected foreground components of mask.
func Components(mask *volume.Volume3D[uint8]) *ComponentSet {
	n := mask.Len()
	ds := newDisjointSet(n)

	// Half of the 26-neighborhood: neighbors already visited in scan order.
	prior := []Offset{
		{-1, 0, 0},
		{-1, -1, 0}, {0, -1, 0}, {1, -1, 0},
		{-1, -1, -1}, {0, -1, -1}, {1, -1, -1},
		{-1, 0, -1}, {0, 0, -1}, {1, 0, -1},
		{-1, 1, -1}, {0, 1, -1}, {1, 1, -1},
	}

	for z := 0; z < mask.DimZ; z++ {
		for y := 0; y < mask.DimY; y++ {
			for x := 0; x < mask.DimX; x++ {
				i := mask.Index(x, y, z)
				if mask.Data[i] == volume.Background {
					continue
				}
				for _, o := range prior {
					nx, ny, nz := x+o.DX, y+o.DY, z+o.DZ
					if !mask.IsValid(nx, ny, nz) {
						continue
					}
					j := mask.Index(nx, ny, nz)
					if mask.Data[j] != volume.Background {
						ds.unite(int32(i), int32(j))
					}
				}
			}
		}
	}

	cs := &ComponentSet{Labels: make([]int32, n)}
	rootLabel := make(map[int32]int32)
	for i := 0; i < n; i++ {
		if mask.Data[i] == volume.Background {
			continue
		}
		root := ds.find(int32(i))
		label, ok := rootLabel[root]
		if !ok {
			cs.Count++
			label = int32(cs.Count)
			rootLabel[root] = label
			cs.representatives = append(cs.representatives, i)
		}
		cs.Labels[i] = label
	}
	return cs
}
