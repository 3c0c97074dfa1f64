package matching_test

import (
	"testing"
	"time"

	"github.com/som23ya/workwale-core/internal/domain/matching"
	"github.com/som23ya/workwale-core/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func fullStackProfile() *model.CandidateProfile {
	return &model.CandidateProfile{
		ID:       "cand-1",
		Skills:   []string{"React", "Node.js", "TypeScript", "AWS"},
		Location: "Bangalore, Karnataka",
		Salary:   model.SalaryRange{Min: 100_000, Max: 150_000},
		WorkType: model.WorkTypeRemote,
	}
}

func fullStackPosting() *model.JobPosting {
	return &model.JobPosting{
		ID:    "job-1",
		Title: "Senior Full Stack Engineer",
		RequiredSkills: []model.WeightedSkill{
			{Name: "React"}, {Name: "Node.js"}, {Name: "TypeScript"}, {Name: "AWS"},
		},
		Location: "Bangalore, Karnataka",
		Salary:   model.SalaryRange{Min: 100_000, Max: 150_000},
		WorkType: model.WorkTypeRemote,
		PostedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestEngine_Score(t *testing.T) {
	Convey("Given a matching engine with default weights", t, func() {
		engine := matching.New()

		Convey("When a candidate matches a posting on every feature", func() {
			score, err := engine.Score(fullStackProfile(), fullStackPosting())

			Convey("Then the score should be in the high nineties", func() {
				So(err, ShouldBeNil)
				So(score.Value, ShouldBeGreaterThanOrEqualTo, 90)
				So(score.Value, ShouldBeLessThanOrEqualTo, 100)
			})

			Convey("And all four skills should match", func() {
				So(score.MatchingSkills, ShouldResemble, []string{"aws", "node.js", "react", "typescript"})
				So(score.MissingSkills, ShouldBeEmpty)
			})
		})

		Convey("When there is no skill overlap at all", func() {
			profile := fullStackProfile()
			profile.Skills = []string{"Python"}
			posting := fullStackPosting()
			posting.RequiredSkills = []model.WeightedSkill{{Name: "Java"}}

			score, err := engine.Score(profile, posting)

			Convey("Then matching skills are empty and the skill feature is zero", func() {
				So(err, ShouldBeNil)
				So(score.MatchingSkills, ShouldBeEmpty)
				So(score.MissingSkills, ShouldResemble, []string{"java"})
				So(score.Features.Skills, ShouldEqual, 0)
			})

			Convey("And the score reflects only the non-skill features", func() {
				So(score.Value, ShouldBeGreaterThan, 0)
				So(score.Value, ShouldBeLessThan, 60)
			})
		})

		Convey("When the candidate has zero skills", func() {
			profile := fullStackProfile()
			profile.Skills = nil

			score, err := engine.Score(profile, fullStackPosting())

			Convey("Then matching skills are empty and the contribution is neutral", func() {
				So(err, ShouldBeNil)
				So(score.MatchingSkills, ShouldBeEmpty)
				So(score.Features.Skills, ShouldEqual, 0.5)
			})
		})

		Convey("When the posting has no skill requirements", func() {
			posting := fullStackPosting()
			posting.RequiredSkills = nil

			score, err := engine.Score(fullStackProfile(), posting)

			Convey("Then the skill contribution is fixed at neutral", func() {
				So(err, ShouldBeNil)
				So(score.Features.Skills, ShouldEqual, 0.5)
			})
		})

		Convey("When skills carry explicit weights", func() {
			profile := fullStackProfile()
			profile.Skills = []string{"React"}
			posting := fullStackPosting()
			posting.RequiredSkills = []model.WeightedSkill{
				{Name: "React", Weight: 3},
				{Name: "Go", Weight: 1},
			}

			score, err := engine.Score(profile, posting)

			Convey("Then the overlap is weighted", func() {
				So(err, ShouldBeNil)
				So(score.Features.Skills, ShouldAlmostEqual, 0.75, 1e-9)
			})
		})

		Convey("When preferred skills are covered", func() {
			profile := fullStackProfile()
			profile.Skills = []string{"React", "GraphQL"}
			posting := fullStackPosting()
			posting.RequiredSkills = []model.WeightedSkill{{Name: "React"}}
			posting.PreferredSkills = []string{"GraphQL"}

			score, err := engine.Score(profile, posting)

			Convey("Then the preferred bonus is applied and capped at one", func() {
				So(err, ShouldBeNil)
				So(score.Features.Skills, ShouldEqual, 1)
				So(score.MatchingSkills, ShouldResemble, []string{"graphql", "react"})
			})
		})

		Convey("When scoring the same inputs repeatedly", func() {
			profile := fullStackProfile()
			posting := fullStackPosting()

			first, err := engine.Score(profile, posting)
			So(err, ShouldBeNil)

			Convey("Then every rerun yields the identical result", func() {
				for i := 0; i < 20; i++ {
					again, err := engine.Score(profile, posting)
					So(err, ShouldBeNil)
					So(again.Value, ShouldEqual, first.Value)
					So(again.MatchingSkills, ShouldResemble, first.MatchingSkills)
					So(again.Explanation, ShouldEqual, first.Explanation)
				}
			})
		})

		Convey("When the profile is malformed", func() {
			profile := fullStackProfile()
			profile.ID = ""

			_, err := engine.Score(profile, fullStackPosting())

			Convey("Then a validation error is returned", func() {
				So(err, ShouldNotBeNil)
				var verr *model.ValidationError
				So(err, ShouldHaveSameTypeAs, verr)
			})
		})
	})
}

func TestEngine_LocationFeature(t *testing.T) {
	Convey("Given location variations", t, func() {
		engine := matching.New()
		posting := fullStackPosting()
		posting.WorkType = model.WorkTypeOnsite

		Convey("A remote posting is compatible with any location", func() {
			remote := fullStackPosting()
			remote.WorkType = model.WorkTypeRemote
			profile := fullStackProfile()
			profile.Location = "Berlin, Germany"

			score, err := engine.Score(profile, remote)
			So(err, ShouldBeNil)
			So(score.Features.Location, ShouldEqual, 1)
		})

		Convey("An exact location match scores one", func() {
			profile := fullStackProfile()
			profile.Location = "bangalore, karnataka"

			score, err := engine.Score(profile, posting)
			So(err, ShouldBeNil)
			So(score.Features.Location, ShouldEqual, 1)
		})

		Convey("A same-region match earns partial credit", func() {
			profile := fullStackProfile()
			profile.Location = "Mysore, Karnataka"

			score, err := engine.Score(profile, posting)
			So(err, ShouldBeNil)
			So(score.Features.Location, ShouldEqual, 0.5)
		})

		Convey("Different regions score zero", func() {
			profile := fullStackProfile()
			profile.Location = "Mumbai, Maharashtra"

			score, err := engine.Score(profile, posting)
			So(err, ShouldBeNil)
			So(score.Features.Location, ShouldEqual, 0)
		})

		Convey("A missing location is neutral", func() {
			profile := fullStackProfile()
			profile.Location = ""

			score, err := engine.Score(profile, posting)
			So(err, ShouldBeNil)
			So(score.Features.Location, ShouldEqual, 0.5)
		})
	})
}

func TestEngine_SalaryFeature(t *testing.T) {
	Convey("Given salary range variations", t, func() {
		engine := matching.New()

		Convey("Identical ranges overlap fully", func() {
			score, err := engine.Score(fullStackProfile(), fullStackPosting())
			So(err, ShouldBeNil)
			So(score.Features.Salary, ShouldEqual, 1)
		})

		Convey("Unspecified candidate expectation is neutral", func() {
			profile := fullStackProfile()
			profile.Salary = model.SalaryRange{}

			score, err := engine.Score(profile, fullStackPosting())
			So(err, ShouldBeNil)
			So(score.Features.Salary, ShouldEqual, 0.5)
		})

		Convey("Unspecified posting range is neutral", func() {
			posting := fullStackPosting()
			posting.Salary = model.SalaryRange{}

			score, err := engine.Score(fullStackProfile(), posting)
			So(err, ShouldBeNil)
			So(score.Features.Salary, ShouldEqual, 0.5)
		})

		Convey("Disjoint ranges score zero", func() {
			profile := fullStackProfile()
			profile.Salary = model.SalaryRange{Min: 200_000, Max: 250_000}

			score, err := engine.Score(profile, fullStackPosting())
			So(err, ShouldBeNil)
			So(score.Features.Salary, ShouldEqual, 0)
		})

		Convey("Partial overlap scores proportionally", func() {
			profile := fullStackProfile()
			profile.Salary = model.SalaryRange{Min: 125_000, Max: 175_000}

			score, err := engine.Score(profile, fullStackPosting())
			So(err, ShouldBeNil)
			So(score.Features.Salary, ShouldAlmostEqual, 0.5, 1e-9)
		})
	})
}

func TestEngine_WorkTypeFeature(t *testing.T) {
	Convey("Given work type combinations", t, func() {
		engine := matching.New()

		cases := []struct {
			candidate model.WorkType
			posting   model.WorkType
			want      float64
		}{
			{model.WorkTypeRemote, model.WorkTypeRemote, 1},
			{model.WorkTypeHybrid, model.WorkTypeRemote, 0.5},
			{model.WorkTypeRemote, model.WorkTypeHybrid, 0.5},
			{model.WorkTypeOnsite, model.WorkTypeHybrid, 0.5},
			{"", model.WorkTypeOnsite, 0.5},
		}
		for _, c := range cases {
			profile := fullStackProfile()
			profile.WorkType = c.candidate
			posting := fullStackPosting()
			posting.WorkType = c.posting

			score, err := engine.Score(profile, posting)
			So(err, ShouldBeNil)
			So(score.Features.WorkType, ShouldEqual, c.want)
		}

		Convey("Remote against onsite scores zero", func() {
			profile := fullStackProfile()
			profile.WorkType = model.WorkTypeRemote
			profile.Location = "Berlin, Germany"
			posting := fullStackPosting()
			posting.WorkType = model.WorkTypeOnsite

			score, err := engine.Score(profile, posting)
			So(err, ShouldBeNil)
			So(score.Features.WorkType, ShouldEqual, 0)
		})
	})
}

func TestEngine_WeightNormalization(t *testing.T) {
	Convey("Given custom weights that do not sum to one", t, func() {
		engine := matching.New(matching.WithWeights(matching.Weights{
			Skill: 2, Location: 1, Salary: 1, WorkType: 0,
		}))

		Convey("When scoring a full match", func() {
			score, err := engine.Score(fullStackProfile(), fullStackPosting())

			Convey("Then the score stays within bounds", func() {
				So(err, ShouldBeNil)
				So(score.Value, ShouldBeGreaterThanOrEqualTo, 0)
				So(score.Value, ShouldBeLessThanOrEqualTo, 100)
			})
		})
	})
}
