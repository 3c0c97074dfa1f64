package repository_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/som23ya/workwale-core/internal/adapters/repository"
	"github.com/som23ya/workwale-core/internal/domain/lifecycle"
	"github.com/som23ya/workwale-core/internal/domain/model"
)

var testTime = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func matchRecord(candidateID, jobID string, score float64) model.MatchRecord {
	return model.MatchRecord{
		CandidateID: candidateID,
		JobID:       jobID,
		Score:       score,
		PostedAt:    testTime,
		ComputedAt:  testTime,
	}
}

func TestMemoryMatchStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given an empty store", t, func() {
		store := repository.NewMemory()

		Convey("When replacing the set for a new candidate", func() {
			created, err := store.ReplaceForCandidate(ctx, "cand-1", []model.MatchRecord{
				matchRecord("cand-1", "job-1", 80),
				matchRecord("cand-1", "job-2", 70),
			})

			Convey("Then every record counts as created", func() {
				So(err, ShouldBeNil)
				So(created, ShouldHaveLength, 2)
			})

			Convey("And the set is readable", func() {
				So(err, ShouldBeNil)
				listed, err := store.ListForCandidate(ctx, "cand-1")
				So(err, ShouldBeNil)
				So(listed, ShouldHaveLength, 2)
			})
		})

		Convey("When replacing an existing set", func() {
			_, err := store.ReplaceForCandidate(ctx, "cand-1", []model.MatchRecord{
				matchRecord("cand-1", "job-1", 80),
				matchRecord("cand-1", "job-2", 70),
			})
			So(err, ShouldBeNil)

			created, err := store.ReplaceForCandidate(ctx, "cand-1", []model.MatchRecord{
				matchRecord("cand-1", "job-2", 75),
				matchRecord("cand-1", "job-3", 90),
			})
			So(err, ShouldBeNil)

			Convey("Then only pairs without a prior record are created", func() {
				So(created, ShouldHaveLength, 1)
				So(created[0].JobID, ShouldEqual, "job-3")
			})

			Convey("And dropped pairs are gone", func() {
				listed, err := store.ListForCandidate(ctx, "cand-1")
				So(err, ShouldBeNil)
				So(listed, ShouldHaveLength, 2)
				for _, rec := range listed {
					So(rec.JobID, ShouldNotEqual, "job-1")
				}
			})
		})

		Convey("When mutating slices on either side of the store", func() {
			input := matchRecord("cand-1", "job-1", 80)
			input.MatchingSkills = []string{"go", "postgresql"}
			input.MissingSkills = []string{"kubernetes"}

			_, err := store.ReplaceForCandidate(ctx, "cand-1", []model.MatchRecord{input})
			So(err, ShouldBeNil)

			input.MatchingSkills[0] = "mutated"
			input.MissingSkills[0] = "mutated"

			listed, err := store.ListForCandidate(ctx, "cand-1")
			So(err, ShouldBeNil)
			So(listed, ShouldHaveLength, 1)
			listed[0].MatchingSkills[1] = "mutated"

			Convey("Then stored records never share skill slices with callers", func() {
				again, err := store.ListForCandidate(ctx, "cand-1")
				So(err, ShouldBeNil)
				So(again[0].MatchingSkills, ShouldResemble, []string{"go", "postgresql"})
				So(again[0].MissingSkills, ShouldResemble, []string{"kubernetes"})
			})
		})

		Convey("When listing a candidate with no matches", func() {
			listed, err := store.ListForCandidate(ctx, "cand-unknown")

			Convey("Then the result is empty, not an error", func() {
				So(err, ShouldBeNil)
				So(listed, ShouldBeEmpty)
			})
		})
	})
}

func TestMemoryMatchStore_ConcurrentReplace(t *testing.T) {
	ctx := context.Background()

	Convey("Given concurrent replaces and reads for one candidate", t, func() {
		store := repository.NewMemory()
		const workers = 8
		const iterations = 50

		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < iterations; i++ {
					//nolint:errcheck
					store.ReplaceForCandidate(ctx, "cand-1", []model.MatchRecord{
						matchRecord("cand-1", "job-1", 80),
						matchRecord("cand-1", "job-2", 70),
					})
				}
			}()
		}

		halfSet := false
		for i := 0; i < workers*iterations; i++ {
			listed, err := store.ListForCandidate(ctx, "cand-1")
			So(err, ShouldBeNil)
			if len(listed) != 0 && len(listed) != 2 {
				halfSet = true
			}
		}
		wg.Wait()

		Convey("Then readers never observe a half-replaced set", func() {
			So(halfSet, ShouldBeFalse)
		})
	})
}

func TestMemoryApplicationStore(t *testing.T) {
	ctx := context.Background()

	newApp := func() lifecycle.Application {
		return lifecycle.NewApplication("app-1", "cand-1", "job-1", "cand-1", testTime)
	}

	Convey("Given an application store", t, func() {
		store := repository.NewMemory()

		Convey("When creating and fetching an application", func() {
			So(store.Create(ctx, newApp()), ShouldBeNil)
			app, err := store.Get(ctx, "app-1")

			Convey("Then the stored aggregate comes back intact", func() {
				So(err, ShouldBeNil)
				So(app.Status, ShouldEqual, lifecycle.StatusApplied)
				So(app.Version, ShouldEqual, 1)
				So(app.History, ShouldHaveLength, 1)
			})
		})

		Convey("When creating a second application for the same pair", func() {
			So(store.Create(ctx, newApp()), ShouldBeNil)
			other := lifecycle.NewApplication("app-2", "cand-1", "job-1", "cand-1", testTime)

			Convey("Then the duplicate is rejected", func() {
				So(store.Create(ctx, other), ShouldEqual, repository.ErrDuplicateApplication)
			})
		})

		Convey("When fetching an unknown application", func() {
			_, err := store.Get(ctx, "missing")
			So(err, ShouldEqual, repository.ErrApplicationNotFound)
		})

		Convey("When transitioning with the current version", func() {
			So(store.Create(ctx, newApp()), ShouldBeNil)
			app, err := store.Transition(ctx, "app-1", lifecycle.StatusInterview, 1, "recruiter-1", testTime)

			Convey("Then the status, version, and history advance", func() {
				So(err, ShouldBeNil)
				So(app.Status, ShouldEqual, lifecycle.StatusInterview)
				So(app.Version, ShouldEqual, 2)
				So(app.History, ShouldHaveLength, 2)
			})
		})

		Convey("When transitioning with a stale version", func() {
			So(store.Create(ctx, newApp()), ShouldBeNil)
			_, err := store.Transition(ctx, "app-1", lifecycle.StatusInterview, 1, "recruiter-1", testTime)
			So(err, ShouldBeNil)

			_, err = store.Transition(ctx, "app-1", lifecycle.StatusRejected, 1, "recruiter-2", testTime)

			Convey("Then a ConflictError reports both versions", func() {
				var conflict *repository.ConflictError
				So(errors.As(err, &conflict), ShouldBeTrue)
				So(conflict.Expected, ShouldEqual, 1)
				So(conflict.Actual, ShouldEqual, 2)
			})

			Convey("And the application is unchanged by the losing call", func() {
				app, err := store.Get(ctx, "app-1")
				So(err, ShouldBeNil)
				So(app.Status, ShouldEqual, lifecycle.StatusInterview)
				So(app.Version, ShouldEqual, 2)
			})
		})

		Convey("When transitioning to a disallowed status", func() {
			So(store.Create(ctx, newApp()), ShouldBeNil)
			_, err := store.Transition(ctx, "app-1", lifecycle.StatusOffered, 1, "recruiter-1", testTime)

			Convey("Then the lifecycle error surfaces and nothing changes", func() {
				var ite *lifecycle.InvalidTransitionError
				So(errors.As(err, &ite), ShouldBeTrue)
				app, err := store.Get(ctx, "app-1")
				So(err, ShouldBeNil)
				So(app.Version, ShouldEqual, 1)
			})
		})
	})
}

func TestMemoryApplicationStore_ConcurrentTransitions(t *testing.T) {
	ctx := context.Background()

	Convey("Given concurrent transitions racing on one version", t, func() {
		store := repository.NewMemory()
		app := lifecycle.NewApplication("app-1", "cand-1", "job-1", "cand-1", testTime)
		So(store.Create(ctx, app), ShouldBeNil)

		const racers = 8
		results := make(chan error, racers)
		var wg sync.WaitGroup
		for i := 0; i < racers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := store.Transition(ctx, "app-1", lifecycle.StatusInterview, 1, "recruiter-1", testTime)
				results <- err
			}()
		}
		wg.Wait()
		close(results)

		wins, conflicts := 0, 0
		for err := range results {
			var conflict *repository.ConflictError
			switch {
			case err == nil:
				wins++
			case errors.As(err, &conflict):
				conflicts++
			}
		}

		Convey("Then exactly one racer wins", func() {
			So(wins, ShouldEqual, 1)
			So(conflicts, ShouldEqual, racers-1)
		})

		Convey("And exactly one history entry was appended", func() {
			final, err := store.Get(ctx, "app-1")
			So(err, ShouldBeNil)
			So(final.Version, ShouldEqual, 2)
			So(final.History, ShouldHaveLength, 2)
		})
	})
}

func TestMemoryMirrors(t *testing.T) {
	ctx := context.Background()

	Convey("Given the snapshot mirrors", t, func() {
		store := repository.NewMemory()

		Convey("When a profile snapshot is put twice", func() {
			So(store.PutProfile(ctx, model.CandidateProfile{ID: "cand-1", Location: "Pune"}), ShouldBeNil)
			So(store.PutProfile(ctx, model.CandidateProfile{ID: "cand-1", Location: "Mumbai"}), ShouldBeNil)

			Convey("Then the latest snapshot wins", func() {
				profile, err := store.Profile(ctx, "cand-1")
				So(err, ShouldBeNil)
				So(profile.Location, ShouldEqual, "Mumbai")
				So(store.CandidateCount(), ShouldEqual, 1)
			})
		})

		Convey("When reading unknown entries", func() {
			_, err := store.Profile(ctx, "missing")
			So(err, ShouldEqual, repository.ErrCandidateNotFound)
			_, err = store.Posting(ctx, "missing")
			So(err, ShouldEqual, repository.ErrPostingNotFound)
		})

		Convey("When postings are put", func() {
			So(store.PutPosting(ctx, model.JobPosting{ID: "job-1", Title: "Backend Engineer"}), ShouldBeNil)
			So(store.PutPosting(ctx, model.JobPosting{ID: "job-2", Title: "Data Engineer"}), ShouldBeNil)

			Convey("Then all of them are listed", func() {
				postings, err := store.Postings(ctx)
				So(err, ShouldBeNil)
				So(postings, ShouldHaveLength, 2)
			})
		})

		Convey("When candidate IDs are listed", func() {
			So(store.PutProfile(ctx, model.CandidateProfile{ID: "cand-1"}), ShouldBeNil)
			So(store.PutProfile(ctx, model.CandidateProfile{ID: "cand-2"}), ShouldBeNil)

			ids, err := store.CandidateIDs(ctx)
			So(err, ShouldBeNil)
			So(ids, ShouldHaveLength, 2)
		})
	})
}
