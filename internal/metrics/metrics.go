// Package metrics records build outcomes in a Prometheus registry that can be
// dumped to a node_exporter textfile.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/starford/packindex/internal/builder"
)

const namespace = "packindex"

// Recorder holds the build metrics of one process.
type Recorder struct {
	reg *prometheus.Registry

	builds       *prometheus.CounterVec
	duration     prometheus.Histogram
	lastSuccess  prometheus.Gauge
	packSkills   *prometheus.GaugeVec
	packUnits    *prometheus.GaugeVec
	packLinks    *prometheus.GaugeVec
	packUntaught *prometheus.GaugeVec
	warnings     *prometheus.GaugeVec
}

// New creates a Recorder backed by its own registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Recorder{
		reg: reg,
		builds: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "build",
			Name:      "runs_total",
			Help:      "Total builds by result (success, failure)",
		}, []string{"result"}),
		duration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "build",
			Name:      "duration_seconds",
			Help:      "Build duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}),
		lastSuccess: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "build",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful build",
		}),
		packSkills: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pack",
			Name:      "skills",
			Help:      "Skills per pack in the last successful build",
		}, []string{"pack"}),
		packUnits: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pack",
			Name:      "units",
			Help:      "Units per pack in the last successful build",
		}, []string{"pack"}),
		packLinks: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pack",
			Name:      "skill_links",
			Help:      "Prerequisite edges per pack in the last successful build",
		}, []string{"pack"}),
		packUntaught: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pack",
			Name:      "untaught_skills",
			Help:      "Skills taught by no unit per pack in the last successful build",
		}, []string{"pack"}),
		warnings: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "build",
			Name:      "warnings",
			Help:      "Content warnings of the last successful build by kind",
		}, []string{"kind"}),
	}
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.reg
}

// RecordBuild records a successful build. Per-pack gauges are reset so packs
// that disappeared stop being reported.
func (r *Recorder) RecordBuild(res *builder.Result, took time.Duration) {
	r.builds.WithLabelValues("success").Inc()
	r.duration.Observe(took.Seconds())
	r.lastSuccess.Set(float64(res.Snapshot.GeneratedAt.Unix()))

	r.packSkills.Reset()
	r.packUnits.Reset()
	r.packLinks.Reset()
	r.packUntaught.Reset()
	for id, p := range res.Snapshot.Packs {
		untaught := 0
		for _, s := range p.Skills {
			if len(s.TaughtByUnits) == 0 {
				untaught++
			}
		}
		r.packSkills.WithLabelValues(id).Set(float64(len(p.Skills)))
		r.packUnits.WithLabelValues(id).Set(float64(len(p.Units)))
		r.packLinks.WithLabelValues(id).Set(float64(len(p.SkillLinks)))
		r.packUntaught.WithLabelValues(id).Set(float64(untaught))
	}

	r.warnings.Reset()
	for _, w := range res.Warnings {
		r.warnings.WithLabelValues(w.Kind).Inc()
	}
}

// RecordFailure records a failed build. Pack gauges keep describing the last
// successful build, matching the output file left in place.
func (r *Recorder) RecordFailure(took time.Duration) {
	r.builds.WithLabelValues("failure").Inc()
	r.duration.Observe(took.Seconds())
}

// WriteTextfile writes the registry in the text exposition format to path,
// via a temporary file and rename.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.reg); err != nil {
		return fmt.Errorf("metrics: write %s: %w", path, err)
	}
	return nil
}
