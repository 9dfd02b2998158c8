package stats

import (
	"fmt"
	"sync"

	"github.com/radforge/voxelstats/pkg/morphology"
	"github.com/radforge/voxelstats/pkg/volume"
)

// Calculator computes the statistic table for one subject.
type Calculator struct {
	names     []string
	masks     []*volume.Volume3D[uint8]
	intensity *volume.Volume3D[float32]
	opts      Options
}

// structureData caches everything derived once per present structure.
type structureData struct {
	name        string
	mask        *volume.Volume3D[uint8]
	region      volume.Region3D
	info        *ExtremeInfo
	intensities []float64 // foreground intensity sample, nil without intensity volume
}

// NewCalculator validates the inputs and builds a calculator. names and
// masks are parallel lists; entries with a nil mask are treated as
// absent structures. All present masks, and the intensity volume when
// supplied, must share one grid.
func NewCalculator(names []string, masks []*volume.Volume3D[uint8],
	intensity *volume.Volume3D[float32], opts Options) (*Calculator, error) {
	if len(names) != len(masks) {
		return nil, &volume.InvalidArgumentError{
			Msg: fmt.Sprintf("%d structure names for %d masks", len(names), len(masks)),
		}
	}
	if len(masks) == 0 {
		return nil, &volume.InvalidArgumentError{Msg: "no structures supplied"}
	}
	if opts.GTAndSegmentation && len(masks) != 2 {
		return nil, &volume.InvalidArgumentError{
			Msg: fmt.Sprintf("ground-truth comparison expects 2 structures, got %d", len(masks)),
		}
	}
	var first *volume.Volume3D[uint8]
	for _, m := range masks {
		if m == nil {
			continue
		}
		if first == nil {
			first = m
			continue
		}
		if err := volume.CheckSameGrid(first, m); err != nil {
			return nil, err
		}
	}
	if first == nil {
		return nil, &volume.InvalidArgumentError{Msg: "all structures are absent"}
	}
	if intensity != nil {
		if err := volume.CheckSameGrid(first, intensity); err != nil {
			return nil, err
		}
	}
	if opts.ExternalName == "" {
		opts.ExternalName = DefaultExternalName
	}
	return &Calculator{names: names, masks: masks, intensity: intensity, opts: opts}, nil
}

// Compute produces the subject's statistic rows in deterministic order:
// whole-space rows, then per-structure rows in input order, then
// pairwise rows in input-pair order. Structures that are absent or
// empty, and statistics that cannot be computed, are omitted.
func (c *Calculator) Compute() []StatisticValue {
	structures := c.prepareStructures()

	var out []StatisticValue
	if !c.opts.GTAndSegmentation {
		out = append(out, c.wholeSpaceStats()...)
	}

	for i, s := range structures {
		if s == nil {
			continue
		}
		skipExtent := c.opts.GTAndSegmentation && i == 0
		out = append(out, c.structureStats(s, skipExtent)...)
	}

	if !c.opts.GTAndSegmentation {
		for i := range structures {
			for j := i + 1; j < len(structures); j++ {
				s1, s2 := structures[i], structures[j]
				if s1 == nil || s2 == nil {
					continue
				}
				if !c.opts.PairwiseExternal &&
					(s1.name == c.opts.ExternalName || s2.name == c.opts.ExternalName) {
					continue
				}
				out = append(out, c.pairStats(s1, s2)...)
			}
		}
	}
	return out
}

// prepareStructures computes regions, extreme info and intensity samples
// for every present structure, in parallel. Result order matches the
// input order; absent or empty structures are nil.
func (c *Calculator) prepareStructures() []*structureData {
	structures := make([]*structureData, len(c.masks))
	var wg sync.WaitGroup
	for i := range c.masks {
		if c.masks[i] == nil {
			continue
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			mask := c.masks[i]
			region := volume.InterestRegion(mask, volume.Foreground)
			if region.IsEmpty() {
				return
			}
			s := &structureData{
				name:   c.names[i],
				mask:   mask,
				region: region,
				info:   ComputeExtremeInfo(mask, region),
			}
			if c.intensity != nil {
				s.intensities = c.collectIntensities(mask, region)
			}
			structures[i] = s
		}(i)
	}
	wg.Wait()
	return structures
}

func (c *Calculator) collectIntensities(mask *volume.Volume3D[uint8], region volume.Region3D) []float64 {
	sample := make([]float64, 0, region.NumVoxels())
	for z := region.MinZ; z <= region.MaxZ; z++ {
		for y := region.MinY; y <= region.MaxY; y++ {
			for x := region.MinX; x <= region.MaxX; x++ {
				i := mask.Index(x, y, z)
				if mask.Data[i] != volume.Background {
					sample = append(sample, float64(c.intensity.Data[i]))
				}
			}
		}
	}
	return sample
}

// wholeSpaceStats emits per-subject rows: image size per axis, intensity
// moments over the whole volume, and over the background (space minus
// the union of all known masks). The grid comes from the masks, not the
// prepared structures, so size rows survive subjects whose structures
// are all empty.
func (c *Calculator) wholeSpaceStats() []StatisticValue {
	var grid *volume.Volume3D[uint8]
	present := make([]*volume.Volume3D[uint8], 0, len(c.masks))
	for _, m := range c.masks {
		if m != nil {
			present = append(present, m)
			if grid == nil {
				grid = m
			}
		}
	}
	if grid == nil {
		return nil
	}

	out := []StatisticValue{
		space(CodeImageSize+"x", float64(grid.DimX)*grid.Spacing.X),
		space(CodeImageSize+"y", float64(grid.DimY)*grid.Spacing.Y),
		space(CodeImageSize+"z", float64(grid.DimZ)*grid.Spacing.Z),
	}
	if c.intensity == nil {
		return out
	}

	all := make([]float64, len(c.intensity.Data))
	for i, v := range c.intensity.Data {
		all[i] = float64(v)
	}
	if mean, sd, ok := meanStdDev(all); ok {
		out = append(out, space(CodeMeanSpace, mean), space(CodeSDSpace, sd))
	}

	covered, err := volume.Union(present...)
	if err != nil {
		return out
	}
	background := make([]float64, 0, grid.Len())
	for i, v := range c.intensity.Data {
		if covered.Data[i] == volume.Background {
			background = append(background, float64(v))
		}
	}
	if mean, sd, ok := meanStdDev(background); ok {
		out = append(out, space(CodeMeanBG, mean), space(CodeSDBG, sd))
	}
	return out
}

func space(code string, v float64) StatisticValue {
	return StatisticValue{Code: code, Structure1: spaceName, Structure2: spaceName, Value: v}
}

// structureStats emits the single-structure rows in a fixed order.
func (c *Calculator) structureStats(s *structureData, skipExtent bool) []StatisticValue {
	one := func(code string, v float64) StatisticValue {
		return StatisticValue{Code: code, Structure1: s.name, Structure2: s.name, Value: v}
	}

	var out []StatisticValue
	if !skipExtent {
		for a := AxisX; a <= AxisZ; a++ {
			out = append(out, one(CodeExtent+a.String(), s.info.SizeMM[a]))
		}
	}

	var structureSD float64
	if mean, sd, ok := meanStdDev(s.intensities); ok {
		out = append(out, one(CodeMean, mean), one(CodeSD, sd))
		structureSD = sd
	}

	if c.intensity != nil && structureSD > 0 {
		sp := s.mask.Spacing
		scales := []struct {
			code    string
			offsets [][3]int
		}{
			{CodeHomog1px, inPlaneNeighborhood()},
			{CodeHomog3mm, neighborhoodAtDistance(sp, homogeneityNearMM)},
			{CodeHomog6mm, neighborhoodAtDistance(sp, homogeneityFarMM)},
		}
		for _, sc := range scales {
			if h, ok := homogeneity(s.mask, c.intensity, s.region, sc.offsets, structureSD); ok {
				out = append(out, one(sc.code, h))
			}
		}
	}

	if c.intensity != nil {
		if roc, ok := c.boundaryROC(s); ok {
			out = append(out, one(CodeBoundaryROC, roc))
		}
	}

	out = append(out, one(CodeCompactness, s.info.Compactness))
	if s.info.HasSphericality {
		out = append(out, one(CodeSpherical, s.info.Sphericality))
	}

	for a := AxisX; a <= AxisZ; a++ {
		up, down := StepHistograms(s.mask, s.region, a)
		if r, ok := EntropyRatio(up); ok {
			out = append(out, one(CodeStepUp+a.String(), r))
		}
		if r, ok := EntropyRatio(down); ok {
			out = append(out, one(CodeStepDown+a.String(), r))
		}
	}
	return out
}

// boundaryROC separates intensities just inside the structure boundary
// from those just outside. The exact mode extracts one-voxel shells by
// erosion and dilation; the approximate mode samples each surface voxel
// against its background 6-neighbors.
func (c *Calculator) boundaryROC(s *structureData) (float64, bool) {
	if c.opts.ExactBoundaryROC {
		return c.exactBoundaryROC(s)
	}
	return c.approxBoundaryROC(s)
}

func (c *Calculator) exactBoundaryROC(s *structureData) (float64, bool) {
	sp := s.mask.Spacing
	eroded, err := morphology.Erode(s.mask, sp.X, sp.Y, sp.Z, nil)
	if err != nil {
		return 0, false
	}
	dilated, err := morphology.Dilate(s.mask, sp.X, sp.Y, sp.Z, nil, nil)
	if err != nil {
		return 0, false
	}

	var inside, outside []float64
	for i, v := range s.mask.Data {
		switch {
		case v != volume.Background && eroded.Data[i] == volume.Background:
			inside = append(inside, float64(c.intensity.Data[i]))
		case v == volume.Background && dilated.Data[i] != volume.Background:
			outside = append(outside, float64(c.intensity.Data[i]))
		}
	}
	return AUC(inside, outside)
}

func (c *Calculator) approxBoundaryROC(s *structureData) (float64, bool) {
	mask := s.mask
	var inside, outside []float64
	neighbors := [6][3]int{{1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0}, {0, 0, 1}, {0, 0, -1}}
	for z := s.region.MinZ; z <= s.region.MaxZ; z++ {
		for y := s.region.MinY; y <= s.region.MaxY; y++ {
			for x := s.region.MinX; x <= s.region.MaxX; x++ {
				if mask.Get(x, y, z) == volume.Background {
					continue
				}
				surface := false
				for _, o := range neighbors {
					nx, ny, nz := x+o[0], y+o[1], z+o[2]
					if !mask.IsValid(nx, ny, nz) {
						surface = true
						continue
					}
					if mask.Data[mask.Index(nx, ny, nz)] == volume.Background {
						surface = true
						outside = append(outside, float64(c.intensity.Data[c.intensity.Index(nx, ny, nz)]))
					}
				}
				if surface {
					inside = append(inside, float64(c.intensity.Data[c.intensity.Index(x, y, z)]))
				}
			}
		}
	}
	return AUC(inside, outside)
}

// pairStats emits the rows for one unordered structure pair: per-axis
// bounding offsets, intensity ROC, and per-axis coordinate ROC.
func (c *Calculator) pairStats(s1, s2 *structureData) []StatisticValue {
	pair := func(code string, v float64) StatisticValue {
		return StatisticValue{Code: code, Structure1: s1.name, Structure2: s2.name, Value: v}
	}

	var out []StatisticValue
	for a := AxisX; a <= AxisZ; a++ {
		out = append(out,
			pair(CodeOffsetMin+a.String(), s1.info.MinMM[a]-s2.info.MinMM[a]),
			pair(CodeOffsetMax+a.String(), s1.info.MaxMM[a]-s2.info.MaxMM[a]),
			pair(CodeOffsetMid+a.String(), s1.info.MidMM(a)-s2.info.MidMM(a)),
		)
	}

	if roc, ok := AUC(s1.intensities, s2.intensities); ok {
		out = append(out, pair(CodeIntenROC, roc))
	}

	for a := AxisX; a <= AxisZ; a++ {
		h1 := coordinateHistogram(s1.mask, s1.region, a)
		h2 := coordinateHistogram(s2.mask, s2.region, a)
		if roc, ok := HistogramAUC(h1, h2); ok {
			out = append(out, pair(CodeCoordROC+a.String(), roc))
		}
	}
	return out
}

// coordinateHistogram counts foreground voxels per coordinate along an
// axis, over the full volume extent so histograms of co-registered
// structures align.
func coordinateHistogram(mask *volume.Volume3D[uint8], region volume.Region3D, axis Axis) []int {
	var dim int
	switch axis {
	case AxisX:
		dim = mask.DimX
	case AxisY:
		dim = mask.DimY
	default:
		dim = mask.DimZ
	}
	counts := make([]int, dim)
	for z := region.MinZ; z <= region.MaxZ; z++ {
		for y := region.MinY; y <= region.MaxY; y++ {
			for x := region.MinX; x <= region.MaxX; x++ {
				if mask.Get(x, y, z) == volume.Background {
					continue
				}
				switch axis {
				case AxisX:
					counts[x]++
				case AxisY:
					counts[y]++
				default:
					counts[z]++
				}
			}
		}
	}
	return counts
}
