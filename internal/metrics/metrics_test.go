package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerTextfile(t *testing.T) {
	Convey("Given a metrics manager on a private registry", t, func() {
		manager := NewManager(WithRegistry(prometheus.NewRegistry()))

		Convey("When a plan is recorded", func() {
			manager.AddEvents(StageRaw, 12)
			manager.AddEvents(StageNormalized, 7)
			manager.ObserveSequence(7.0625)
			manager.ObserveSequence(20.5)
			manager.AddRuns("IN_FORWARD", 3)
			manager.AddRuns("IN_JUMP", 1)
			manager.AddRuns("IN_DUCK", 0)
			manager.ObservePlanDuration(150 * time.Millisecond)

			path := filepath.Join(t.TempDir(), "csrec.prom")
			err := manager.WriteTextfile(path)

			Convey("Then the textfile holds every series", func() {
				So(err, ShouldBeNil)
				raw, readErr := os.ReadFile(path)
				So(readErr, ShouldBeNil)
				text := string(raw)

				So(text, ShouldContainSubstring, "csrec_plan_sequences_total 2")
				So(text, ShouldContainSubstring, `csrec_plan_runs_total{button="IN_FORWARD"} 3`)
				So(text, ShouldContainSubstring, `csrec_plan_runs_total{button="IN_JUMP"} 1`)
				So(strings.Contains(text, `button="IN_DUCK"`), ShouldBeFalse)
				So(text, ShouldContainSubstring, `csrec_plan_events_total{stage="raw"} 12`)
				So(text, ShouldContainSubstring, `csrec_plan_events_total{stage="normalized"} 7`)
				So(text, ShouldContainSubstring, "csrec_plan_sequence_seconds_count 2")
				So(text, ShouldContainSubstring, "csrec_plan_duration_seconds_count 1")
			})
		})

		Convey("When the target directory does not exist", func() {
			err := manager.WriteTextfile(filepath.Join(t.TempDir(), "missing", "csrec.prom"))

			Convey("Then a textfile error is returned", func() {
				So(errors.Is(err, ErrWriteTextfile), ShouldBeTrue)
			})
		})
	})
}

func TestManagerOptions(t *testing.T) {
	Convey("Given custom naming options", t, func() {
		registry := prometheus.NewRegistry()
		manager := NewManager(
			WithRegistry(registry),
			WithNamespace("demo"),
			WithSubsystem("rec"),
			WithSequenceBuckets([]float64{1, 2}),
		)
		manager.ObserveSequence(1.5)

		Convey("Then metric names follow them", func() {
			families, err := registry.Gather()
			So(err, ShouldBeNil)

			names := map[string]bool{}
			for _, f := range families {
				names[f.GetName()] = true
			}
			So(names["demo_rec_sequences_total"], ShouldBeTrue)
			So(names["demo_rec_sequence_seconds"], ShouldBeTrue)
			So(manager.Registry(), ShouldEqual, registry)
		})
	})
}
