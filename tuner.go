// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/Blosc/blosc2-btune

package btune

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Build-time toggles for optional phases. Kept as constants rather
// than runtime config so a disabled phase costs nothing and can't be
// flipped mid-run.
const (
	EnableShuffleSize = false
	EnableMemcpy      = false
	EnableThreads     = true
)

const (
	minBitShuffle   = 1
	minShuffle      = 2
	MaxShuffle      = 16
	MinThreads      = 1
	softStep        = 1
	hardStep        = 2
	maxStateThreads = 50
)

// InitParams carries the per-context information a host supplies at
// init time (typesize, thread counts, and -- when Config.CParamsHint is
// set -- the host's own starting cparams).
type InitParams struct {
	TypeSize       int
	NThreadsComp   int
	NThreadsDecomp int
	// HintCParams seeds best/aux when Config.CParamsHint is true; it is
	// read once at Init and ignored otherwise.
	HintCParams *CParams
}

// Option configures optional Tuner collaborators.
type Option func(*Tuner)

// WithLogger attaches a diagnostic sink (§7). Nil entries are replaced
// by a discard logger.
func WithLogger(log *logrus.Entry) Option {
	return func(t *Tuner) { t.log = orDiscardLogger(log) }
}

// WithMetrics attaches optional Prometheus instrumentation. It never
// influences tuning decisions.
func WithMetrics(m *Metrics) Option {
	return func(t *Tuner) { t.metrics = m }
}

// WithPredictor attaches the ML inference hook (§4.3 "ML seeding",
// Design Notes) and how many upcoming chunks it should be asked to
// seed.
func WithPredictor(p Predictor, seedCount int) Option {
	return func(t *Tuner) {
		t.predictor = p
		t.inferenceCount = seedCount
	}
}

// Tuner is the per-context tuning state (§3 "Tuner state"). It is
// owned by whichever host compression context it's attached to; there
// is no process-global state (Design Notes, "Global-ish state").
type Tuner struct {
	config Config
	engine HostEngine
	log    *logrus.Entry
	metrics *Metrics

	predictor         Predictor
	inferenceCount    int
	inferenceEnded    bool
	predictionHistory []Prediction
	zerosSpeed        float64
	lastCRatioEstimate float64

	best CParams
	aux  CParams

	codecs  []Codec
	filters []Filter

	clevels     []int
	clevelIndex int
	nclevels    int

	splitMode SplitMode

	state       State
	readaptFrom ReadaptFrom

	auxIndex   int
	repIndex   int
	stepsCount int
	nsofts     int
	nhards     int
	nwaitings  int

	stepSize int

	threadsForComp bool
	maxThreads     int
	nthreadsDecomp int

	isRepeating bool

	typeSize   int
	sourceSize int

	currentScores  [1]float64
	currentCratios [1]float64

	lastWinner    CParams
	hasLastWinner bool
}

// Init allocates and normalizes a Tuner (§4.4 "Initialization path at
// btune_init", §6 `init`). engine must not be nil. params.HintCParams
// must be set when cfg.CParamsHint is true.
func Init(cfg Config, engine HostEngine, params InitParams, opts ...Option) (*Tuner, error) {
	if engine == nil {
		return nil, ErrNilEngine
	}
	if cfg.CParamsHint && params.HintCParams == nil {
		return nil, fmt.Errorf("btune: Config.CParamsHint is true but InitParams.HintCParams is nil")
	}

	t := &Tuner{
		engine:     engine,
		log:        orDiscardLogger(nil),
		predictor:  NoPredictor,
		zerosSpeed: -1,
		typeSize:   params.TypeSize,
	}
	for _, opt := range opts {
		opt(t)
	}

	cfg = ApplyEnv(cfg, t.log)
	t.config = cfg

	t.initCodecs()
	t.addFilter(FilterNone)
	t.addFilter(FilterShuffle)
	t.addFilter(FilterBitShuffle)
	t.splitMode = SplitAuto
	t.setClevels(1, 9, 9)

	t.maxThreads = params.NThreadsComp
	if params.NThreadsDecomp > t.maxThreads {
		t.maxThreads = params.NThreadsDecomp
	}
	t.nthreadsDecomp = params.NThreadsDecomp

	t.best = defaultCParams()
	t.best.CompCode = t.codecs[0]
	t.aux = t.best
	if cfg.Band() == TradeoffHigh {
		t.best.CLevel = 8
		t.aux.CLevel = 8
	}
	t.best.ShuffleSize = params.TypeSize
	t.aux.ShuffleSize = params.TypeSize
	t.best.NThreadsComp = params.NThreadsComp
	t.aux.NThreadsComp = params.NThreadsComp
	t.best.NThreadsDecomp = params.NThreadsDecomp
	t.aux.NThreadsDecomp = params.NThreadsDecomp

	if cfg.PerfMode == PerfDecomp {
		t.threadsForComp = false
	} else {
		t.threadsForComp = true
	}

	if cfg.CParamsHint {
		t.best = *params.HintCParams
		t.aux = *params.HintCParams
		t.addCodec(params.HintCParams.CompCode)

		b := cfg.Behaviour
		switch {
		case b.NHardsBeforeStop > 0 && b.NSoftsBeforeHard > 0:
			initSoft(t)
		case b.NHardsBeforeStop > 0 && b.NWaitsBeforeReadapt > 0:
			t.state = StateWaiting
			t.readaptFrom = ReadaptWait
		case b.NHardsBeforeStop > 0:
			initHard(t)
		default:
			initWithoutHards(t)
		}
	} else {
		initHard(t)
		t.config.Behaviour.NHardsBeforeStop++
	}

	if t.config.Behaviour.NHardsBeforeStop == 1 {
		t.stepSize = softStep
	} else {
		t.stepSize = hardStep
	}

	if t.metrics != nil {
		t.metrics.observeInit(t)
	}

	return t, nil
}

// addCodec appends compcode to the search list if not already present
// (add_codec).
func (t *Tuner) addCodec(c Codec) {
	for _, existing := range t.codecs {
		if existing == c {
			return
		}
	}
	t.codecs = append(t.codecs, c)
}

// addFilter appends f to the search list if not already present
// (add_filter).
func (t *Tuner) addFilter(f Filter) {
	for _, existing := range t.filters {
		if existing == f {
			return
		}
	}
	t.filters = append(t.filters, f)
}

// initCodecs builds the codec search list from (tradeoff, perf_mode)
// (btune_init_codecs, §4.4 step 2).
func (t *Tuner) initCodecs() {
	if t.config.Band() == TradeoffHigh {
		t.addCodec(CodecZstd)
		t.addCodec(CodecZlib)
		return
	}
	t.addCodec(CodecLZ4)
	if t.config.Tradeoff >= 1.0/3.0 {
		t.addCodec(CodecBloscLZ)
	}
	if t.config.PerfMode == PerfDecomp {
		t.addCodec(CodecLZ4HC)
	}
}

// setClevels installs the levels window [min, max] and positions
// clevelIndex at start (btune_init_clevels).
func (t *Tuner) setClevels(min, max, start int) {
	t.best.CLevel = start
	t.aux.CLevel = start
	t.nclevels = max - min + 1
	t.clevels = make([]int, t.nclevels)
	for i := 0; i < t.nclevels; i++ {
		t.clevels[i] = min + i
		if min+i == start {
			t.clevelIndex = i
		}
	}
}

// BeginChunk primes the per-chunk context a host must supply ahead of
// NextCParams/Update: the source (uncompressed) size, used for the
// blocksize clamp (§4.3 post-processing), the arange buffer size and the
// ChunkSize feature handed to the inference hook, and optionally an
// updated typesize. Update computes cratio from its own srcSize
// argument, not from this value. Call it once per chunk.
func (t *Tuner) BeginChunk(sourceSize int, typeSize int) {
	t.sourceSize = sourceSize
	if typeSize > 0 {
		t.typeSize = typeSize
	}
}

// PrimeChunk feeds the raw chunk bytes through the Entropy Probe to
// populate the ML feature estimate used by the inference hook. It is
// optional: skipping it just means ChunkFeatures.CRatioEstimate stays
// at its last computed value (or zero, initially).
func (t *Tuner) PrimeChunk(chunk []byte) {
	t.lastCRatioEstimate = GetCRatio(chunk, 3, 3)
}

// NextBlockSize exists only because a host may call it unconditionally
// (§4.4 `next_blocksize`); it does nothing.
func (t *Tuner) NextBlockSize() {}

// Free releases tuner-owned state. Go's GC makes this a formality, but
// it is kept as a named entry point for parity with the five-entry-point
// ABI (§6 `free`) and to give hosts an explicit place to drop the
// predictor/engine references.
func (t *Tuner) Free() {
	t.predictor = nil
	t.engine = nil
}

// State reports the current tuning state (read-only accessor for hosts
// and tests).
func (t *Tuner) State() State { return t.state }

// Best returns the current champion candidate.
func (t *Tuner) Best() CParams { return t.best }

// StepsCount reports how many chunks Update has processed.
func (t *Tuner) StepsCount() int { return t.stepsCount }

// LastWinner returns the most recent candidate that won an improvement
// check, if any.
func (t *Tuner) LastWinner() (CParams, bool) {
	return t.lastWinner, t.hasLastWinner
}

// Registry is a by-name dispatch record for the five entry points a
// host binds.
type Registry struct {
	Init          func(cfg Config, engine HostEngine, params InitParams, opts ...Option) (*Tuner, error)
	NextBlockSize func(t *Tuner)
	NextCParams   func(t *Tuner) CParams
	Update        func(t *Tuner, ctime float64, cbytes int, compressed []byte, srcSize int) error
	Free          func(t *Tuner)
}

// DefaultRegistry is the Registry a host looks up this package's five
// entry points through.
var DefaultRegistry = Registry{
	Init:          Init,
	NextBlockSize: (*Tuner).NextBlockSize,
	NextCParams:   (*Tuner).NextCParams,
	Update:        (*Tuner).Update,
	Free:          (*Tuner).Free,
}
