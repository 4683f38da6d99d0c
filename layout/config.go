package layout

// Config is the single immutable configuration record for one layout
// detection run. It groups the tunables of each pipeline concern; a zero
// value is not usable, construct with DefaultConfig and override fields.
type Config struct {
	// Strip holds vertical gutter detection tunables
	Strip StripConfig

	// Band holds horizontal separator tunables
	Band BandConfig

	// Region holds column-count segmentation tunables
	Region RegionConfig

	// Grid holds projection-profile gutter detection tunables
	Grid GridConfig

	// Merge holds paragraph merge tolerances
	Merge MergeConfig

	// MaxIterations caps the nested/overlap merge convergence loop
	// Default: 5
	MaxIterations int

	// ForceLinear disables all column/band-aware logic in favor of pure
	// vertical-proximity concatenation in reading order
	// Default: false
	ForceLinear bool
}

// DefaultConfig returns the default configuration for all pipeline stages.
func DefaultConfig() Config {
	return Config{
		Strip:         DefaultStripConfig(),
		Band:          DefaultBandConfig(),
		Region:        DefaultRegionConfig(),
		Grid:          DefaultGridConfig(),
		Merge:         DefaultMergeConfig(),
		MaxIterations: 5,
		ForceLinear:   false,
	}
}

// StripConfig holds configuration for vertical strip (column gutter) detection.
type StripConfig struct {
	// MinConfidence is the minimum confidence for a strip to survive
	// Default: 0.6
	MinConfidence float64

	// MinGapWidth is the minimum width of a horizontal gap to record
	// Default: 2 units
	MinGapWidth float64

	// SweepBandMultiplier scales line height into the sweep band height,
	// with a floor of 6 units
	// Default: 0.75
	SweepBandMultiplier float64

	// ClusterToleranceMultiplier scales line height into the maximum
	// center-x distance for a gap to join a cluster, with a floor of 4 units
	// Default: 0.5
	ClusterToleranceMultiplier float64

	// MinHeightMultiplier scales line height into the minimum vertical span
	// of a cluster to become a strip
	// Default: 1.5
	MinHeightMultiplier float64

	// MinWidthMultiplier scales line height into the minimum strip width
	// required for a strip to drive paragraph splitting
	// Default: 0.25
	MinWidthMultiplier float64

	// DuplicateCenterDistance is the maximum center distance for merging
	// near-duplicate strips
	// Default: 3 units
	DuplicateCenterDistance float64
}

// DefaultStripConfig returns sensible default configuration
func DefaultStripConfig() StripConfig {
	return StripConfig{
		MinConfidence:              0.6,
		MinGapWidth:                2.0,
		SweepBandMultiplier:        0.75,
		ClusterToleranceMultiplier: 0.5,
		MinHeightMultiplier:        1.5,
		MinWidthMultiplier:         0.25,
		DuplicateCenterDistance:    3.0,
	}
}

// BandConfig holds configuration for horizontal band handling.
type BandConfig struct {
	// MinConfidence is the minimum confidence for a band to block merges
	// Default: 0.5
	MinConfidence float64

	// GapMultiplier scales line height into the height of bands derived
	// from grid gutter lines
	// Default: 0.8
	GapMultiplier float64

	// GridConfidence is the confidence assigned to grid-derived bands
	// Default: 0.95
	GridConfidence float64

	// MergeDistanceMultiplier scales line height into the maximum edge
	// distance for coalescing adjacent bands
	// Default: 0.5
	MergeDistanceMultiplier float64

	// EdgeMarginMultiplier scales line height into the margin within which
	// a strip is considered to reach the page top or bottom; strips ending
	// short of it cause a synthesized band at their extent
	// Default: 2.0
	EdgeMarginMultiplier float64

	// SynthesizedConfidence is the confidence of bands inferred from strip
	// vertical extents
	// Default: 0.7
	SynthesizedConfidence float64
}

// DefaultBandConfig returns sensible default configuration
func DefaultBandConfig() BandConfig {
	return BandConfig{
		MinConfidence:           0.5,
		GapMultiplier:           0.8,
		GridConfidence:          0.95,
		MergeDistanceMultiplier: 0.5,
		EdgeMarginMultiplier:    2.0,
		SynthesizedConfidence:   0.7,
	}
}

// RegionConfig holds configuration for vertical segmentation by column count.
type RegionConfig struct {
	// SampleStepMultiplier scales line height into the density profile
	// sample step, with a floor of 5 units
	// Default: 0.5
	SampleStepMultiplier float64

	// ColumnGapMultiplier scales line height into the 1-D clustering gap
	// threshold for counting columns from left edges
	// Default: 2.0
	ColumnGapMultiplier float64

	// ExtentShiftMultiplier scales line height into the horizontal extent
	// shift that forces a segment boundary
	// Default: 4.0
	ExtentShiftMultiplier float64

	// MinHeightMultiplier scales line height into the minimum segment height
	// Default: 2.0
	MinHeightMultiplier float64

	// BufferMultiplier scales line height into the top/bottom buffer added
	// to each segment, capped at 10% of the segment height
	// Default: 0.5
	BufferMultiplier float64
}

// DefaultRegionConfig returns sensible default configuration
func DefaultRegionConfig() RegionConfig {
	return RegionConfig{
		SampleStepMultiplier:  0.5,
		ColumnGapMultiplier:   2.0,
		ExtentShiftMultiplier: 4.0,
		MinHeightMultiplier:   2.0,
		BufferMultiplier:      0.5,
	}
}

// GridConfig holds configuration for projection-profile gutter detection.
type GridConfig struct {
	// RowHeightMultiplier scales line height into the projection row height
	// Default: 0.75
	RowHeightMultiplier float64

	// MinGutterMultiplier scales line height into the minimum height of an
	// empty row run to count as a page-wide gutter; it must exceed normal
	// leading or every line gap reads as a separator
	// Default: 1.5
	MinGutterMultiplier float64

	// EdgeMarginMultiplier scales line height into the page-edge margin;
	// empty runs touching it are page margins, not gutters
	// Default: 1.0
	EdgeMarginMultiplier float64
}

// DefaultGridConfig returns sensible default configuration
func DefaultGridConfig() GridConfig {
	return GridConfig{
		RowHeightMultiplier:  0.75,
		MinGutterMultiplier:  1.5,
		EdgeMarginMultiplier: 1.0,
	}
}

// MergeConfig holds the style and geometric tolerances of the paragraph
// merger. All multipliers scale either the global line height or the larger
// font size of the pair under test, as noted per field.
type MergeConfig struct {
	// MaxFontSizeDiff is the maximum font size difference for a style match
	// Default: 1 unit
	MaxFontSizeDiff float64

	// MaxColorDistance is the maximum RGB Euclidean distance for a style match
	// Default: 10
	MaxColorDistance float64

	// MaxWeightDiff is the maximum numeric weight difference for a style match
	// Default: 200
	MaxWeightDiff int

	// AllowMixedStyles permits merging fragments with different font slants
	// Default: false
	AllowMixedStyles bool

	// MaxInlineWeightDiff is the maximum weight difference for inline
	// run stitching
	// Default: 100
	MaxInlineWeightDiff int

	// VerticalGapMultiplier scales line height into the initial-grouping
	// vertical gap limit
	// Default: 1.3
	VerticalGapMultiplier float64

	// VerticalGapFontMultiplier scales the pair's max font size into the
	// alternative initial-grouping vertical gap limit; the smaller of the
	// two limits applies
	// Default: 2.2
	VerticalGapFontMultiplier float64

	// AlignToleranceMultiplier scales font size into the left/right
	// alignment tolerance
	// Default: 2.0
	AlignToleranceMultiplier float64

	// MathAlignMultiplier scales font size into the alignment tolerance
	// for math-flagged pairs
	// Default: 3.0
	MathAlignMultiplier float64

	// MathVerticalGapMultiplier scales line height into the vertical gap
	// limit for math-flagged pairs during initial grouping
	// Default: 1.8
	MathVerticalGapMultiplier float64

	// HyphenAlignMultiplier scales font size into the left-alignment
	// tolerance for hyphen continuation
	// Default: 1.8
	HyphenAlignMultiplier float64

	// KerningMultiplier scales font size into the near-zero horizontal gap
	// for inline continuation and run stitching
	// Default: 0.25
	KerningMultiplier float64

	// BaselineToleranceMultiplier scales font size into the baseline
	// difference tolerated for inline continuation
	// Default: 0.3
	BaselineToleranceMultiplier float64

	// StackedVerticalGapMultiplier scales line height into the stacked-merge
	// vertical gap limit
	// Default: 1.35
	StackedVerticalGapMultiplier float64

	// StackedFontGapMultiplier scales the pair's max font size into the
	// alternative stacked-merge vertical gap limit
	// Default: 2.0
	StackedFontGapMultiplier float64

	// CoverageRatioThreshold is the maximum fraction of the horizontal gap
	// between two paragraphs that detected strips may cover for the pair to
	// still count as the same column
	// Default: 0.65
	CoverageRatioThreshold float64

	// OverlapRatioThreshold is the minimum intersection-over-smaller-area
	// for the overlap merge
	// Default: 0.7
	OverlapRatioThreshold float64

	// InterWordGapMultiplier scales font size into the ordinary inter-word
	// gap used when splitting lines at strips
	// Default: 0.35
	InterWordGapMultiplier float64

	// ColumnGapMultiplier scales font size into the minimum column gap used
	// when splitting lines at strips
	// Default: 1.0
	ColumnGapMultiplier float64

	// MathMergeVerticalMultiplier scales font size into the vertical
	// proximity of the math merge heuristic
	// Default: 0.8
	MathMergeVerticalMultiplier float64

	// MathMergeHorizontalMultiplier scales font size into the horizontal
	// proximity of the math merge heuristic
	// Default: 1.2
	MathMergeHorizontalMultiplier float64

	// MathMergeCenterMultiplier scales font size into the center distance
	// of the math merge heuristic
	// Default: 1.5
	MathMergeCenterMultiplier float64

	// OperatorRelaxFactor widens the math merge tolerances when one side is
	// a lone operator or relation symbol
	// Default: 1.5
	OperatorRelaxFactor float64
}

// DefaultMergeConfig returns sensible default configuration
func DefaultMergeConfig() MergeConfig {
	return MergeConfig{
		MaxFontSizeDiff:               1.0,
		MaxColorDistance:              10.0,
		MaxWeightDiff:                 200,
		AllowMixedStyles:              false,
		MaxInlineWeightDiff:           100,
		VerticalGapMultiplier:         1.3,
		VerticalGapFontMultiplier:     2.2,
		AlignToleranceMultiplier:      2.0,
		MathAlignMultiplier:           3.0,
		MathVerticalGapMultiplier:     1.8,
		HyphenAlignMultiplier:         1.8,
		KerningMultiplier:             0.25,
		BaselineToleranceMultiplier:   0.3,
		StackedVerticalGapMultiplier:  1.35,
		StackedFontGapMultiplier:      2.0,
		CoverageRatioThreshold:        0.65,
		OverlapRatioThreshold:         0.7,
		InterWordGapMultiplier:        0.35,
		ColumnGapMultiplier:           1.0,
		MathMergeVerticalMultiplier:   0.8,
		MathMergeHorizontalMultiplier: 1.2,
		MathMergeCenterMultiplier:     1.5,
		OperatorRelaxFactor:           1.5,
	}
}
