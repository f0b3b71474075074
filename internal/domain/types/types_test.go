package types_test

import (
	"testing"

	"github.com/David-MyRaceDay/grid-builder-sub000/internal/domain/model"
	types "github.com/David-MyRaceDay/grid-builder-sub000/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func fp(v float64) *float64 { return &v }
func ip(v int) *int         { return &v }

func timed(seconds float64, display, source string) *model.TimedValue {
	return &model.TimedValue{Seconds: seconds, Display: display, Source: source}
}

func sampleGrid() *model.Grid {
	return &model.Grid{Waves: []model.GridWave{
		{
			Config: model.WaveConfig{
				WaveNumber:     1,
				StartType:      model.StartFlying,
				Classes:        []string{"GT3"},
				SortBy:         model.SortBestTime,
				EmptyPositions: 2,
			},
			Entries: []model.GridEntry{
				{Key: "alice", Number: "07", Driver: "Alice", Class: "GT3",
					BestTime: timed(82, "1:22.000", "file-a"), Points: fp(10), Tied: true},
				{Key: "bob", Number: "15", Driver: "Bob", Class: "GT3",
					BestTime: timed(82, "1:22.000", "file-b"), Tied: true},
			},
			Merges: []model.ClassMerge{{From: "GT3-AM", Into: "GT3"}},
		},
		{
			Config: model.WaveConfig{
				WaveNumber: 2,
				StartType:  model.StartFlying,
				Classes:    []string{"GT4"},
				SortBy:     model.SortBestTime,
			},
			Entries: []model.GridEntry{
				{Key: "carol", Number: "22", Driver: "Carol", Class: "GT4",
					BestTime: timed(86.1, "1:26.100", "file-a"), PositionInClass: ip(1)},
			},
		},
	}}
}

func TestWaveConfigRoundTrip(t *testing.T) {
	Convey("Given a domain wave configuration", t, func() {
		cfg := model.WaveConfig{
			WaveNumber:     2,
			StartType:      model.StartStanding,
			Classes:        []string{"GT3", "GT4"},
			SortBy:         model.SortTotalPoints,
			TieBreakers:    []model.TieBreaker{model.BreakBestTime, model.BreakAlphabetical},
			GroupByClass:   true,
			GroupDirection: model.SlowestFirst,
			InvertCount:    3,
			EmptyPositions: 1,
		}

		Convey("When converting to the wire shape and back", func() {
			wire := types.WaveConfigFromModel(cfg)
			back := wire.Model()

			Convey("Then the wire shape carries the plain strings", func() {
				So(wire.StartType, ShouldEqual, "standing")
				So(wire.SortBy, ShouldEqual, "totalPoints")
				So(wire.TieBreakers, ShouldResemble, []string{"bestTime", "alphabetical"})
			})

			Convey("Then the round trip preserves every field", func() {
				So(back, ShouldResemble, cfg)
			})

			Convey("Then the conversion does not alias the class list", func() {
				wire.Classes[0] = "changed"
				So(cfg.Classes[0], ShouldEqual, "GT3")
			})
		})
	})
}

func TestGridFromModel(t *testing.T) {
	Convey("Given a realized two-wave grid", t, func() {
		g := sampleGrid()

		Convey("When converting with per-wave modified flags", func() {
			wire := types.GridFromModel(g, []bool{false, true})

			Convey("Then slots number across waves and skip empty positions", func() {
				So(wire.Waves[0].Entries[0].Slot, ShouldEqual, 1)
				So(wire.Waves[0].Entries[1].Slot, ShouldEqual, 2)
				// two trailing empty positions in wave one
				So(wire.Waves[1].Entries[0].Slot, ShouldEqual, 5)
			})

			Convey("Then entries carry times, ties and merge provenance", func() {
				first := wire.Waves[0].Entries[0]
				So(first.BestTime.Seconds, ShouldEqual, 82)
				So(first.BestTime.Source, ShouldEqual, "file-a")
				So(first.Tied, ShouldBeTrue)
				So(*first.Points, ShouldEqual, 10)
				So(wire.Waves[0].Merges, ShouldResemble, []types.ClassMerge{{From: "GT3-AM", Into: "GT3"}})
			})

			Convey("Then modified flags land on their waves", func() {
				So(wire.Waves[0].Modified, ShouldBeFalse)
				So(wire.Waves[1].Modified, ShouldBeTrue)
			})
		})

		Convey("When converting a nil grid", func() {
			wire := types.GridFromModel(nil, nil)

			Convey("Then the result is empty", func() {
				So(wire.Waves, ShouldBeEmpty)
			})
		})
	})
}

func TestExportFromModel(t *testing.T) {
	Convey("Given a realized grid", t, func() {
		g := sampleGrid()

		Convey("When flattening for export", func() {
			rows := types.ExportFromModel(g)

			Convey("Then rows carry slot, wave and formatted times", func() {
				So(len(rows), ShouldEqual, 3)
				So(rows[0].Slot, ShouldEqual, 1)
				So(rows[0].Wave, ShouldEqual, 1)
				So(rows[0].BestTime, ShouldEqual, "1:22.000")
				So(rows[2].Slot, ShouldEqual, 5)
				So(rows[2].Wave, ShouldEqual, 2)
				So(rows[2].BestTime, ShouldEqual, "1:26.100")
				So(rows[2].SecondBest, ShouldEqual, "")
			})
		})
	})
}

func TestDriverRecordFromModel(t *testing.T) {
	Convey("Given a consolidated driver record", t, func() {
		rec := &model.DriverRecord{
			Key:    "alice",
			Name:   "Alice",
			Number: "07",
			Class:  "GT3",
			Contributions: []model.Contribution{
				{Source: "file-a"}, {Source: "file-b"},
			},
			BestOverallTime: timed(82, "1:22.000", "file-b"),
			TotalPoints:     fp(15),
			AveragePoints:   fp(7.5),
			BestPosition:    ip(1),
		}

		Convey("When converting to the wire shape", func() {
			wire := types.DriverRecordFromModel(rec)

			Convey("Then identity, counts and aggregates map over", func() {
				So(wire.Key, ShouldEqual, "alice")
				So(wire.Contributions, ShouldEqual, 2)
				So(wire.BestOverallTime.Display, ShouldEqual, "1:22.000")
				So(*wire.TotalPoints, ShouldEqual, 15)
				So(*wire.AveragePoints, ShouldEqual, 7.5)
				So(*wire.BestPosition, ShouldEqual, 1)
			})

			Convey("Then absent aggregates stay nil", func() {
				So(wire.SecondBestOverallTime, ShouldBeNil)
				So(wire.AveragePosition, ShouldBeNil)
			})
		})
	})
}
