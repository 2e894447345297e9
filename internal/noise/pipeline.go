// SPDX-License-Identifier: MIT
package noise

import (
	"errors"
	"math/rand/v2"
	"time"

	"ambient/internal/analysis"
	"ambient/internal/log"
	"ambient/internal/storage"
	"ambient/internal/transport"
)

// Stage names reported in logs and events.
const (
	StageSynthesize = "synthesize"
	StageTone       = "tone"
	StageWidth      = "stereo_width"
	StageModulate   = "modulate"
	StageNormalize  = "normalize"
	StagePost       = "post_process"
)

// Event types sent to a Pipeline's transport.
const (
	EventStage      = "stage"
	EventBandEnergy = "band_energy"
	EventArtifact   = "artifact"
	EventError      = "error"
)

// Event is one pipeline notification. It is encoded as JSON by the network
// transports.
type Event struct {
	Type      string                `json:"type"`
	Time      time.Time             `json:"time"`
	Stage     string                `json:"stage,omitempty"`
	ElapsedMs float64               `json:"elapsed_ms,omitempty"`
	Name      string                `json:"name,omitempty"`
	Category  string                `json:"category,omitempty"`
	Peak      float64               `json:"peak,omitempty"`
	Bands     []analysis.BandEnergy `json:"bands,omitempty"`
	Error     string                `json:"error,omitempty"`
}

// stageFunc observes completed stages.
type stageFunc func(stage string, started time.Time, buf *SampleBuffer)

// Generate renders the normalized, loopable float track described by p:
// synthesis, tone shaping, stereo width, optional modulation and peak
// normalization to 1/Headroom. All randomness is drawn from rng.
func Generate(p RequestParams, rng *rand.Rand) (*SampleBuffer, error) {
	return generate(p, rng, nil)
}

func generate(p RequestParams, rng *rand.Rand, observe stageFunc) (*SampleBuffer, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	done := func(stage string, started time.Time, buf *SampleBuffer) {
		if observe != nil {
			observe(stage, started, buf)
		}
	}

	started := time.Now()
	buf, err := Synthesize(p, rng)
	if err != nil {
		return nil, err
	}
	done(StageSynthesize, started, buf)

	if shaper := NewToneShaper(p); shaper.Active() {
		started = time.Now()
		shaper.Apply(buf)
		if err := buf.CheckFinite(StageTone); err != nil {
			return nil, err
		}
		done(StageTone, started, buf)
	}

	if buf.Channels() > 1 {
		started = time.Now()
		ApplyStereoWidth(buf, p.StereoWidth)
		done(StageWidth, started, buf)
	}

	if p.Modulated() {
		started = time.Now()
		m := Modulator{RateHz: SnapRate(p.ModulationRateHz, buf.Duration()), DepthDB: p.ModulationDepthDB}
		m.Apply(buf)
		done(StageModulate, started, buf)
	}

	started = time.Now()
	if Normalize(buf) {
		log.Warnf("Noise: rendered buffer is silent, skipping normalization")
	}
	if err := buf.CheckFinite(StageNormalize); err != nil {
		return nil, err
	}
	done(StageNormalize, started, buf)
	return buf, nil
}

// Pipeline runs generation and post-processing against a storage sink and
// reports progress to an optional transport.
type Pipeline struct {
	Sink     storage.Sink
	Category string
	// Events receives an Event per stage, a band energy summary and the
	// resulting artifact. Nil disables events.
	Events transport.Transport
}

// Run generates a track for req, post-processes and stores it, and returns
// the artifact name.
func (pl *Pipeline) Run(req RequestParams, post PostProcessParams, rng *rand.Rand) (string, error) {
	name, err := pl.run(req, post, rng)
	if err != nil {
		pl.emit(Event{Type: EventError, Error: err.Error()})
	}
	return name, err
}

func (pl *Pipeline) run(req RequestParams, post PostProcessParams, rng *rand.Rand) (string, error) {
	// Reject post options before spending time on synthesis.
	if err := post.Validate(); err != nil {
		return "", err
	}

	buf, err := generate(req, rng, pl.stageDone)
	if err != nil {
		return "", err
	}
	pl.emitBands(buf)

	category := pl.Category
	if category == "" {
		category = DefaultCategory
	}
	started := time.Now()
	name, err := PostProcess(buf, post, pl.Sink, category)
	if err != nil {
		return "", err
	}
	pl.stageDone(StagePost, started, buf)

	log.WithFields(log.Fields{"name": name, "category": category}).Infof("Noise: stored %.1f s track", buf.Duration())
	pl.emit(Event{Type: EventArtifact, Name: name, Category: category})
	return name, nil
}

func (pl *Pipeline) stageDone(stage string, started time.Time, buf *SampleBuffer) {
	elapsed := float64(time.Since(started).Microseconds()) / 1000
	log.WithFields(log.Fields{"stage": stage, "elapsed_ms": elapsed}).Debugf("Noise: stage complete")
	pl.emit(Event{Type: EventStage, Stage: stage, ElapsedMs: elapsed, Peak: buf.Peak()})
}

// emitBands sends the band energy summary of buf. Analysis problems are
// logged and otherwise ignored.
func (pl *Pipeline) emitBands(buf *SampleBuffer) {
	if pl.Events == nil {
		return
	}
	a, err := analysis.NewAnalyzer(0, float64(buf.SampleRate), analysis.Hann)
	if err != nil {
		log.Warnf("Noise: band analysis unavailable: %v", err)
		return
	}
	report, err := analysis.Analyze(a, buf.Data, nil)
	if err != nil {
		log.Warnf("Noise: band analysis failed: %v", err)
		return
	}
	pl.emit(Event{Type: EventBandEnergy, Bands: report.Bands, Peak: buf.Peak()})
}

func (pl *Pipeline) emit(ev Event) {
	if pl.Events == nil {
		return
	}
	ev.Time = time.Now().UTC()
	if err := pl.Events.Send(ev); err != nil && !errors.Is(err, transport.ErrClosed) {
		log.Warnf("Noise: failed to send %s event: %v", ev.Type, err)
	}
}
