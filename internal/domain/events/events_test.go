package events_test

import (
	"encoding/json"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/som23ya/workwale-core/internal/domain/events"
	"github.com/som23ya/workwale-core/internal/domain/lifecycle"
)

func TestEventEnvelopes(t *testing.T) {
	at := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	Convey("Given a match_created event", t, func() {
		ev := events.NewMatchCreated("cand-1", "job-1", 87.5, at)

		Convey("Then the envelope carries the match payload", func() {
			So(ev.Kind, ShouldEqual, events.KindMatchCreated)
			So(ev.Match, ShouldNotBeNil)
			So(ev.Match.Score, ShouldEqual, 87.5)
			So(ev.Status, ShouldBeNil)
		})

		Convey("Then it serializes without the empty payload", func() {
			data, err := json.Marshal(ev)
			So(err, ShouldBeNil)
			So(string(data), ShouldContainSubstring, `"kind":"match_created"`)
			So(string(data), ShouldNotContainSubstring, `"status"`)
		})
	})

	Convey("Given a status_changed event", t, func() {
		ev := events.NewStatusChanged("app-1", "cand-1", "job-1",
			lifecycle.StatusApplied, lifecycle.StatusInterview, "recruiter-1", at)

		Convey("Then the envelope carries the transition payload", func() {
			So(ev.Kind, ShouldEqual, events.KindStatusChanged)
			So(ev.Status, ShouldNotBeNil)
			So(ev.Status.From, ShouldEqual, lifecycle.StatusApplied)
			So(ev.Status.To, ShouldEqual, lifecycle.StatusInterview)
			So(ev.Match, ShouldBeNil)
		})
	})
}
