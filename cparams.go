// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/Blosc/blosc2-btune

package btune

// MaxFilterSlots is the size of the filter pipeline a candidate is
// materialized into. BYTEDELTA needs the slot immediately before it, so
// the pipeline needs at least two slots; six matches the real Blosc2
// filter chain depth and leaves headroom.
const MaxFilterSlots = 6

// FilterPipeline is the materialized filter chain a candidate compiles
// down to. Slot MaxFilterSlots-1 is always the "active" filter; BYTEDELTA
// additionally occupies slot MaxFilterSlots-2 with SHUFFLE (§3 invariants,
// §4.3 post-processing).
type FilterPipeline struct {
	Slots [MaxFilterSlots]Filter
	Meta  [MaxFilterSlots]uint8
}

// Build clears the pipeline and writes filter (plus its BYTEDELTA
// companion slot, if any) into it.
func (p *FilterPipeline) Build(filter Filter, typeSize int) {
	for i := range p.Slots {
		p.Slots[i] = FilterNone
		p.Meta[i] = 0
	}
	last := MaxFilterSlots - 1
	p.Slots[last] = filter
	if filter == FilterByteDelta {
		p.Slots[last-1] = FilterShuffle
		p.Meta[last] = uint8(typeSize)
	}
}

// CParams is a candidate (or champion) compression parameter set (§3
// "Candidate cparams"). It is a plain value type: Clone is a shallow
// copy since every field is a value.
type CParams struct {
	CompCode  Codec
	Filter    Filter
	SplitMode SplitMode
	CLevel    int
	// BlockSize is in bytes; 0 means "let the host engine decide".
	BlockSize int
	// ShuffleSize doubles as the context typesize; a deliberate overload
	// kept rather than split into two fields.
	ShuffleSize int

	NThreadsComp   int
	NThreadsDecomp int

	IncreasingCLevel   bool
	IncreasingShuffle  bool
	IncreasingNThreads bool

	// Measured metrics, populated by Update.
	Score  float64
	CRatio float64
	CTime  float64
	DTime  float64
}

// defaultCParams is the built-in seed used when Config.CParamsHint is
// false.
func defaultCParams() CParams {
	return CParams{
		CompCode:           CodecLZ4,
		Filter:             FilterShuffle,
		SplitMode:          SplitAlways,
		CLevel:             9,
		BlockSize:          0,
		ShuffleSize:        0,
		IncreasingCLevel:   false,
		IncreasingShuffle:  true,
		IncreasingNThreads: true,
		Score:              100,
		CRatio:             1.0,
		CTime:              100,
		DTime:              100,
	}
}

// Equal reports whether two candidates carry the same tunable
// parameters (measured metrics excluded). Not used by the decision
// path itself; a useful predicate for hosts that want to detect a
// no-op readapt.
func (c CParams) Equal(o CParams) bool {
	return c.CompCode == o.CompCode &&
		c.Filter == o.Filter &&
		c.SplitMode == o.SplitMode &&
		c.CLevel == o.CLevel &&
		c.BlockSize == o.BlockSize &&
		c.ShuffleSize == o.ShuffleSize &&
		c.NThreadsComp == o.NThreadsComp &&
		c.NThreadsDecomp == o.NThreadsDecomp
}

// Pipeline materializes the filter pipeline for this candidate, given
// the chunk's element size (§4.3 post-processing, BYTEDELTA coupling).
func (c CParams) Pipeline(typeSize int) FilterPipeline {
	var p FilterPipeline
	p.Build(c.Filter, typeSize)
	return p
}
