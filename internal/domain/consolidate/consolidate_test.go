package consolidate_test

import (
	"testing"

	"github.com/David-MyRaceDay/grid-builder-sub000/internal/domain/consolidate"
	"github.com/David-MyRaceDay/grid-builder-sub000/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func sp(s string) *string { return &s }

func rosterByKey(roster []*model.DriverRecord) map[string]*model.DriverRecord {
	out := make(map[string]*model.DriverRecord, len(roster))
	for _, rec := range roster {
		out[rec.Key] = rec
	}
	return out
}

func TestConsolidateAcrossFiles(t *testing.T) {
	Convey("Given Alice appearing in two result files", t, func() {
		fileA := model.Batch{FileID: "file-a", Entries: []model.RawEntry{{
			Driver:     sp("Alice"),
			Number:     sp("12"),
			Class:      sp("GT3"),
			BestTime:   sp("1:23.100"),
			SecondBest: sp("1:24.500"),
			Points:     sp("10"),
			Position:   sp("2"),
			SourceFile: "file-a",
		}}}
		fileB := model.Batch{FileID: "file-b", Entries: []model.RawEntry{{
			Driver:     sp("ALICE"),
			BestTime:   sp("1:22.000"),
			SecondBest: sp("1:23.900"),
			Points:     sp("5"),
			Position:   sp("1"),
			SourceFile: "file-b",
		}}}

		Convey("When consolidating both batches", func() {
			roster := consolidate.Consolidate([]model.Batch{fileA, fileB})

			Convey("Then the case-folded name yields one record", func() {
				So(len(roster), ShouldEqual, 1)
				So(roster[0].Key, ShouldEqual, "alice")
				So(roster[0].Name, ShouldEqual, "Alice")
				So(roster[0].Number, ShouldEqual, "12")
				So(roster[0].Class, ShouldEqual, "GT3")
				So(len(roster[0].Contributions), ShouldEqual, 2)
			})

			Convey("Then the best overall time comes from file B", func() {
				rec := roster[0]
				So(rec.BestOverallTime, ShouldNotBeNil)
				So(rec.BestOverallTime.Seconds, ShouldEqual, 82.0)
				So(rec.BestOverallTime.Source, ShouldEqual, "file-b")
			})

			Convey("Then the second best is the next distinct time", func() {
				rec := roster[0]
				So(rec.SecondBestOverallTime, ShouldNotBeNil)
				So(rec.SecondBestOverallTime.Seconds, ShouldEqual, 83.1)
				So(rec.SecondBestOverallTime.Source, ShouldEqual, "file-a")
			})

			Convey("Then points sum and average over all contributions", func() {
				rec := roster[0]
				So(*rec.TotalPoints, ShouldEqual, 15.0)
				So(*rec.AveragePoints, ShouldEqual, 7.5)
			})

			Convey("Then position aggregates use min and rounded mean", func() {
				rec := roster[0]
				So(*rec.BestPosition, ShouldEqual, 1)
				So(*rec.AveragePosition, ShouldEqual, 1.5)
			})
		})

		Convey("When consolidating in the opposite upload order", func() {
			forward := consolidate.Consolidate([]model.Batch{fileA, fileB})
			reverse := consolidate.Consolidate([]model.Batch{fileB, fileA})

			Convey("Then aggregates are order-independent", func() {
				f, r := forward[0], reverse[0]
				So(r.BestOverallTime.Seconds, ShouldEqual, f.BestOverallTime.Seconds)
				So(r.SecondBestOverallTime.Seconds, ShouldEqual, f.SecondBestOverallTime.Seconds)
				So(*r.TotalPoints, ShouldEqual, *f.TotalPoints)
				So(*r.AveragePoints, ShouldEqual, *f.AveragePoints)
				So(*r.BestPosition, ShouldEqual, *f.BestPosition)
			})
		})
	})
}

func TestConsolidateIdentity(t *testing.T) {
	Convey("Given rows with varying identity data", t, func() {
		batch := model.Batch{FileID: "f", Entries: []model.RawEntry{
			{Driver: sp("  Bob "), BestTime: sp("90.0"), SourceFile: "f"},
			{Driver: sp("bob"), BestTime: sp("89.0"), SourceFile: "f"},
			{Number: sp("77"), BestTime: sp("88.0"), SourceFile: "f"},
			{Number: sp(" 77 "), BestTime: sp("87.0"), SourceFile: "f"},
			{BestTime: sp("86.0"), SourceFile: "f"},
			{BestTime: sp("85.0"), SourceFile: "f"},
		}}

		Convey("When consolidating", func() {
			roster := consolidate.Consolidate([]model.Batch{batch})
			byKey := rosterByKey(roster)

			Convey("Then trimmed case-folded names merge", func() {
				bob := byKey["bob"]
				So(bob, ShouldNotBeNil)
				So(len(bob.Contributions), ShouldEqual, 2)
				So(bob.Name, ShouldEqual, "Bob")
			})

			Convey("Then number-only rows merge on the number key", func() {
				car := byKey["#77"]
				So(car, ShouldNotBeNil)
				So(len(car.Contributions), ShouldEqual, 2)
			})

			Convey("Then unidentifiable rows never collide", func() {
				So(len(roster), ShouldEqual, 4)
				anon := 0
				for _, rec := range roster {
					if rec.Key != "bob" && rec.Key != "#77" {
						anon++
						So(len(rec.Contributions), ShouldEqual, 1)
					}
				}
				So(anon, ShouldEqual, 2)
			})
		})
	})
}

func TestConsolidateDegradation(t *testing.T) {
	Convey("Given rows with missing or unparseable optionals", t, func() {
		batch := model.Batch{FileID: "f", Entries: []model.RawEntry{
			{Driver: sp("Cara"), BestTime: sp("DNF"), Points: sp("n/a"), SourceFile: "f"},
			{Driver: sp("Cara"), SecondBest: sp("1:24.0"), SourceFile: "f"},
		}}

		Convey("When consolidating", func() {
			roster := consolidate.Consolidate([]model.Batch{batch})
			rec := roster[0]

			Convey("Then unparseable values degrade to absent", func() {
				So(rec.TotalPoints, ShouldBeNil)
				So(rec.AveragePoints, ShouldBeNil)
				So(rec.BestPosition, ShouldBeNil)
			})

			Convey("Then the lone parseable time becomes the best overall", func() {
				So(rec.BestOverallTime, ShouldNotBeNil)
				So(rec.BestOverallTime.Seconds, ShouldEqual, 84.0)
				So(rec.SecondBestOverallTime, ShouldBeNil)
			})
		})
	})

	Convey("Given a driver whose times repeat across files", t, func() {
		batches := []model.Batch{
			{FileID: "a", Entries: []model.RawEntry{{Driver: sp("Dan"), BestTime: sp("82.0"), SourceFile: "a"}}},
			{FileID: "b", Entries: []model.RawEntry{{Driver: sp("Dan"), BestTime: sp("82.0"), SourceFile: "b"}}},
		}

		Convey("Then an equal time never fills the second-best slot", func() {
			rec := consolidate.Consolidate(batches)[0]
			So(rec.BestOverallTime.Seconds, ShouldEqual, 82.0)
			So(rec.SecondBestOverallTime, ShouldBeNil)
		})
	})
}

func TestConsolidateUploadOrder(t *testing.T) {
	Convey("Given two files with overlapping and disjoint drivers", t, func() {
		heat := model.Batch{FileID: "heat", Entries: []model.RawEntry{
			{
				Driver: sp("Alice"), Number: sp("12"), Class: sp("GT3"),
				BestTime: sp("1:23.100"), SecondBest: sp("1:24.500"),
				Points: sp("10"), Position: sp("2"), SourceFile: "heat",
			},
			{
				Driver: sp("Bob"), Number: sp("7"), Class: sp("GT4"),
				BestTime: sp("1:25.000"), Points: sp("8"), Position: sp("3"),
				SourceFile: "heat",
			},
		}}
		practice := model.Batch{FileID: "practice", Entries: []model.RawEntry{
			{
				Driver: sp("ALICE"), BestTime: sp("1:22.000"),
				Points: sp("5"), Position: sp("1"), SourceFile: "practice",
			},
			{
				Driver: sp("Cara"), Number: sp("3"), Class: sp("GT3"),
				BestTime: sp("1:21.500"), SourceFile: "practice",
			},
		}}

		Convey("When consolidating in both upload orders", func() {
			forward := rosterByKey(consolidate.Consolidate([]model.Batch{heat, practice}))
			reverse := rosterByKey(consolidate.Consolidate([]model.Batch{practice, heat}))

			Convey("Then both orders yield the same driver set", func() {
				So(len(forward), ShouldEqual, 3)
				So(len(reverse), ShouldEqual, len(forward))
				for key := range forward {
					So(reverse[key], ShouldNotBeNil)
				}
			})

			Convey("Then every driver's aggregates match key for key", func() {
				for key, f := range forward {
					r := reverse[key]
					So(len(r.Contributions), ShouldEqual, len(f.Contributions))

					if f.BestOverallTime == nil {
						So(r.BestOverallTime, ShouldBeNil)
					} else {
						So(r.BestOverallTime.Seconds, ShouldEqual, f.BestOverallTime.Seconds)
						So(r.BestOverallTime.Source, ShouldEqual, f.BestOverallTime.Source)
					}
					if f.SecondBestOverallTime == nil {
						So(r.SecondBestOverallTime, ShouldBeNil)
					} else {
						So(r.SecondBestOverallTime.Seconds, ShouldEqual, f.SecondBestOverallTime.Seconds)
						So(r.SecondBestOverallTime.Source, ShouldEqual, f.SecondBestOverallTime.Source)
					}
					if f.TotalPoints == nil {
						So(r.TotalPoints, ShouldBeNil)
					} else {
						So(*r.TotalPoints, ShouldEqual, *f.TotalPoints)
						So(*r.AveragePoints, ShouldEqual, *f.AveragePoints)
					}
					if f.BestPosition == nil {
						So(r.BestPosition, ShouldBeNil)
					} else {
						So(*r.BestPosition, ShouldEqual, *f.BestPosition)
						So(*r.AveragePosition, ShouldEqual, *f.AveragePosition)
					}
				}
			})

			Convey("Then Alice's pooled laps resolve identically either way", func() {
				for _, rec := range []*model.DriverRecord{forward["alice"], reverse["alice"]} {
					So(rec.BestOverallTime.Seconds, ShouldEqual, 82.0)
					So(rec.BestOverallTime.Source, ShouldEqual, "practice")
					So(*rec.TotalPoints, ShouldEqual, 15.0)
				}
			})
		})
	})
}

func TestConsolidateIdempotence(t *testing.T) {
	Convey("Given the same batches consolidated twice", t, func() {
		batches := []model.Batch{
			{FileID: "a", Entries: []model.RawEntry{
				{Driver: sp("Alice"), BestTime: sp("1:23.1"), Points: sp("10"), SourceFile: "a"},
				{Driver: sp("Bob"), BestTime: sp("1:25.0"), Points: sp("8"), SourceFile: "a"},
			}},
		}

		first := consolidate.Consolidate(batches)
		second := consolidate.Consolidate(batches)

		Convey("Then rosters match record for record", func() {
			So(len(second), ShouldEqual, len(first))
			for i := range first {
				So(second[i].Key, ShouldEqual, first[i].Key)
				So(len(second[i].Contributions), ShouldEqual, len(first[i].Contributions))
				So(second[i].BestOverallTime.Seconds, ShouldEqual, first[i].BestOverallTime.Seconds)
				So(*second[i].TotalPoints, ShouldEqual, *first[i].TotalPoints)
			}
		})
	})
}
