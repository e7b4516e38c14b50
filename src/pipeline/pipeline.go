// Package pipeline wires the diagnostic stages into a single streaming
// pass: noise filter, classifier, state tracker, context correlator, and
// the severity aggregator that produces the final recommendation list.
package pipeline

import (
	"io"

	"sysdoctor-agent/src/aggregate"
	"sysdoctor-agent/src/classify"
	"sysdoctor-agent/src/contracts"
	"sysdoctor-agent/src/correlate"
	"sysdoctor-agent/src/logsource"
	"sysdoctor-agent/src/noise"
	"sysdoctor-agent/src/track"
)

// Report is the pipeline's terminal output: the ranked recommendation
// list plus the aggregate counters for summary display.
type Report struct {
	Recommendations []contracts.Recommendation
	Counters        map[contracts.EntityKind]int
	LinesProcessed  int
	NoiseFiltered   int
}

// Pipeline owns all mutable analysis state for one run. State is
// constructor-injected rather than global so independent runs never
// share anything; a pipeline instance is single-use and not safe for
// concurrent Process calls.
type Pipeline struct {
	classifier *classify.Classifier
	tracker    *track.Tracker
	correlator *correlate.Correlator
	aggregator *aggregate.Aggregator

	lines    int
	filtered int
}

// New creates a pipeline for one run. The thermal profile and the live
// connectivity fact are the only external inputs the core needs.
func New(profile classify.Profile, online bool) *Pipeline {
	return &Pipeline{
		classifier: classify.New(profile, online),
		tracker:    track.New(),
		correlator: correlate.New(),
		aggregator: aggregate.New(),
	}
}

// Process pushes a single line through every stage in fixed order. Noise
// is withheld from all downstream stages, including the correlator's
// previous-line slot.
func (p *Pipeline) Process(line contracts.LogLine) {
	p.lines++

	if noise.IsNoise(line.Raw) {
		p.filtered++
		return
	}

	if sig := p.classifier.Classify(line.Raw); sig != nil {
		p.aggregator.AddSignal(*sig)
	}
	if ev := p.tracker.Observe(line.Raw, line.Timestamp); ev != nil {
		p.aggregator.AddTransition(*ev)
	}
	if ev := p.correlator.Correlate(line.Raw, line.Timestamp); ev != nil {
		p.aggregator.AddCompound(*ev)
	}
}

// Finalize closes the run and returns the report. Calling Process after
// Finalize is not supported.
func (p *Pipeline) Finalize() Report {
	return Report{
		Recommendations: p.aggregator.Finalize(),
		Counters:        p.aggregator.Counters(),
		LinesProcessed:  p.lines,
		NoiseFiltered:   p.filtered,
	}
}

// Run drains a source through the pipeline and finalizes. A source that
// ends early (including with an error) still yields a report over the
// prefix it delivered; the error is returned alongside for callers that
// care.
func (p *Pipeline) Run(src logsource.Source) (Report, error) {
	for {
		line, err := src.Next()
		if err == io.EOF {
			return p.Finalize(), nil
		}
		if err != nil {
			return p.Finalize(), err
		}
		p.Process(line)
	}
}
