package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerCreation(t *testing.T) {
	Convey("Given a metrics manager", t, func() {
		Convey("When created with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "workwale")
				So(manager.subsystem, ShouldEqual, "matching")
			})
		})

		Convey("When created with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("custom"),
				WithSubsystem("core"),
				WithHistogramBuckets([]float64{1, 5, 10}),
				WithRegistry(registry),
			)

			Convey("Then the options should be applied", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "custom")
				So(manager.subsystem, ShouldEqual, "core")
				So(manager.histogramBuckets, ShouldResemble, []float64{1, 5, 10})
			})
		})

		Convey("When empty option values are supplied", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithRegistry(registry),
			)

			Convey("Then defaults should be retained", func() {
				So(manager.namespace, ShouldEqual, "workwale")
				So(manager.subsystem, ShouldEqual, "matching")
				So(manager.histogramBuckets, ShouldResemble, prometheus.DefBuckets)
			})
		})
	})
}

func TestPackageHelpers(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording metrics through package helpers", func() {
			So(func() {
				RecordScoreRun()
				RecordScoreRunPartial()
				RecordScoringLatency(12.5)
				RecordMatchesCreated(3)
				RecordMatchSetReplaced()
				UpdateCandidatesTracked(10)
				RecordApplicationCreated()
				RecordTransition("Interview")
				RecordTransitionConflict()
				RecordInvalidTransition()
				RecordEventEmitted("match_created")
				RecordEventDropped()
				UpdateQueueSize(5)
				UpdateQueueCapacity(100)
				RecordEnqueueRejected()
				RecordEnqueueCollapsed()
				UpdateWorkerCount(4)
				RecordHTTPRequest("matches", "GET", "200")
				RecordHTTPRequestDuration("matches", "GET", "200", 3.2)
			}, ShouldNotPanic)
		})

		Convey("When fetching the registry", func() {
			So(GetRegistry(), ShouldNotBeNil)
		})
	})
}
