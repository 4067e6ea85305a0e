// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"time"

	"github.com/relabs-tech/uv_monitor/internal/logger"
	"github.com/relabs-tech/uv_monitor/internal/notify"
	"github.com/relabs-tech/uv_monitor/internal/uv"
)

// State is where one loop iteration ended up.
type State int

// Pending only exists between consuming an edge and the throttle
// decision; Step never returns it.
const (
	Idle State = iota
	Pending
	Throttled
	Processing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Throttled:
		return "throttled"
	case Processing:
		return "processing"
	default:
		return "unknown"
	}
}

// Triggerer requests a new sensor conversion.
type Triggerer interface {
	TriggerMeasurement()
}

// FeedbackRenderer shows the index and advisory to the user.
type FeedbackRenderer interface {
	Render(index float64, advisory string) error
}

// Actuator pulses the vibration motor.
type Actuator interface {
	Pulse(d time.Duration) error
}

// Stats counts loop outcomes since start.
type Stats struct {
	Cycles    int // processed cycles, failed reads included
	Failures  int
	Throttled int
	Pulses    int
}

// Sampler is the sampling loop. It owns the ready flag and the cycle
// timer; the edge handler only ever touches the flag.
type Sampler struct {
	flag       *notify.ReadyFlag
	trigger    Triggerer
	reader     uv.RawReader
	calc       uv.Calculator
	classifier uv.Classifier
	renderer   FeedbackRenderer
	actuator   Actuator
	interval   time.Duration
	pulse      time.Duration
	now        func() time.Time
	log        *logger.Logger

	lastUpdate time.Time // zero until the first processed cycle
	rearm      bool      // a throttled conversion was dropped
	stats      Stats
}

// SamplerOpts holds the tunables of the loop.
type SamplerOpts struct {
	Calculator uv.Calculator
	Classifier uv.Classifier
	Interval   time.Duration
	Pulse      time.Duration
}

func NewSampler(flag *notify.ReadyFlag, trig Triggerer, reader uv.RawReader, renderer FeedbackRenderer,
	act Actuator, opts SamplerOpts, l *logger.Logger) *Sampler {
	return &Sampler{
		flag:       flag,
		trigger:    trig,
		reader:     reader,
		calc:       opts.Calculator,
		classifier: opts.Classifier,
		renderer:   renderer,
		actuator:   act,
		interval:   opts.Interval,
		pulse:      opts.Pulse,
		now:        time.Now,
		log:        l.WithTag("sampler"),
	}
}

// Start primes the first conversion.
func (s *Sampler) Start() {
	s.log.Infof("priming first measurement (interval %v)", s.interval)
	s.trigger.TriggerMeasurement()
}

// Step runs one non-blocking iteration of the loop and reports which
// path it took. Only Processing may block, and only for the sync pulse
// and the actuator pulse.
func (s *Sampler) Step() State {
	if !s.flag.ConsumeReady() {
		s.maybeRearm()
		return Idle
	}

	// Pending: the flag is already cleared, the edge is ours.
	now := s.now()
	if !s.lastUpdate.IsZero() && now.Sub(s.lastUpdate) < s.interval {
		s.stats.Throttled++
		s.rearm = true
		s.log.Debugf("edge dropped, %v since last cycle", now.Sub(s.lastUpdate))
		return Throttled
	}

	s.lastUpdate = now
	s.rearm = false
	s.process()
	s.trigger.TriggerMeasurement()
	return Processing
}

// maybeRearm requests a fresh conversion once the interval has passed
// after a throttled edge, since that edge's conversion was discarded and
// the sensor only converts on request.
func (s *Sampler) maybeRearm() {
	if !s.rearm || s.now().Sub(s.lastUpdate) < s.interval {
		return
	}
	s.rearm = false
	s.log.Debugf("re-arming after dropped edge")
	s.trigger.TriggerMeasurement()
}

func (s *Sampler) process() {
	s.stats.Cycles++

	raw, err := s.reader.ReadChannels()
	if err != nil {
		s.stats.Failures++
		s.log.Errorf("sensor read failed: %v", err)
		return
	}

	index := s.calc.Index(raw)
	band := s.classifier.Classify(index)
	advisory := band.Advisory()

	s.log.Debugf("raw uva=%d uvb=%d uvc=%d", raw.UVA, raw.UVB, raw.UVC)
	s.log.Infof("uv index %.2f (%s): %s", index, band, advisory)

	if err := s.renderer.Render(index, advisory); err != nil {
		s.log.Warnf("render failed: %v", err)
	}

	if band == uv.Extreme {
		s.stats.Pulses++
		if err := s.actuator.Pulse(s.pulse); err != nil {
			s.log.Errorf("actuator pulse failed: %v", err)
		}
	}
}

// Stats returns the counters. Only call it from the loop goroutine or
// after Run has returned.
func (s *Sampler) Stats() Stats {
	return s.stats
}

// Run polls Step every poll interval until ctx is cancelled.
func (s *Sampler) Run(ctx context.Context, poll time.Duration) error {
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			st := s.stats
			s.log.Infof("stopping after %d cycles (%d failed reads, %d throttled edges, %d pulses)",
				st.Cycles, st.Failures, st.Throttled, st.Pulses)
			return nil
		case <-ticker.C:
			s.Step()
		}
	}
}
