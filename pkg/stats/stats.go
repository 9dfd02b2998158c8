// Package stats derives named scalar statistics from binary structure
// masks and an optional co-registered intensity volume: shape descriptors
// (compactness, sphericality, extents), intensity moments, homogeneity
// at several spatial scales, boundary and inter-structure ROC
// separation, step-entropy ratios, and pairwise structure offsets. The
// result table is used to flag annotation errors and dataset outliers.
//
// The calculator degrades gracefully: any single statistic that cannot
// be computed for a structure (too few voxels, missing intensity data,
// absent structure) is omitted from the result list rather than failing
// the subject.
package stats

// DefaultExternalName is the conventional name of the whole-body
// structure, excluded from pairwise statistics by default.
const DefaultExternalName = "external"

// spaceName labels whole-space rows in the result table.
const spaceName = "space"

// StatisticValue is one row of the result table. Structure2 equals
// Structure1 for single-structure statistics. Values are produced once
// and never mutated.
type StatisticValue struct {
	Code       string
	Structure1 string
	Structure2 string
	Value      float64
}

// Statistic codes. Axis-resolved codes append x, y or z.
const (
	CodeImageSize   = "siz" // whole-image physical size per axis
	CodeMeanSpace   = "msi" // mean intensity over the whole volume
	CodeSDSpace     = "sds" // SD intensity over the whole volume
	CodeMeanBG      = "bgi" // mean intensity over background voxels
	CodeSDBG        = "bgs" // SD intensity over background voxels
	CodeExtent      = "ext" // structure bounding extent per axis
	CodeMean        = "mni" // mean intensity inside the structure
	CodeSD          = "sdi" // SD intensity inside the structure
	CodeHomog1px    = "hm1" // homogeneity, 8-neighbor in-plane
	CodeHomog3mm    = "hm3" // homogeneity, 26-neighbor at 3mm
	CodeHomog6mm    = "hm6" // homogeneity, 26-neighbor at 6mm
	CodeBoundaryROC = "roc" // inside/outside boundary intensity ROC
	CodeCompactness = "com"
	CodeSpherical   = "sph"
	CodeStepUp      = "seu" // step-entropy ratio per axis, upward steps
	CodeStepDown    = "sed" // step-entropy ratio per axis, downward steps
	CodeOffsetMin   = "omn" // pairwise min-coordinate offset per axis
	CodeOffsetMax   = "omx" // pairwise max-coordinate offset per axis
	CodeOffsetMid   = "omd" // pairwise midpoint offset per axis
	CodeIntenROC    = "rci" // pairwise intensity ROC
	CodeCoordROC    = "crc" // pairwise coordinate ROC per axis
)

// Options configure a Calculator.
type Options struct {
	// ExactBoundaryROC selects the exact erosion/dilation boundary shell
	// extraction for the boundary ROC, at full-volume cost, instead of
	// the approximate surface-neighbor sampling.
	ExactBoundaryROC bool

	// PairwiseExternal includes the external structure in pairwise
	// statistics.
	PairwiseExternal bool

	// GTAndSegmentation restricts the computation to a ground-truth /
	// prediction pair: no whole-space rows, no pairwise rows, and no
	// extent rows for the ground-truth entry.
	GTAndSegmentation bool

	// ExternalName overrides the conventional whole-body structure name.
	ExternalName string
}

// Homogeneity spatial scales in mm.
const (
	homogeneityNearMM = 3.0
	homogeneityFarMM  = 6.0
)
