package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	service "github.com/David-MyRaceDay/grid-builder-sub000/internal/app"
	"github.com/David-MyRaceDay/grid-builder-sub000/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should have sensible defaults", func() {
			So(svc, ShouldNotBeNil)

			stats := svc.GetStats()
			So(stats["started"], ShouldEqual, false)
			So(stats["maxWaves"], ShouldEqual, 16)
			So(stats["guardWindowMs"], ShouldEqual, 750)
		})
	})

	Convey("Given a new service with custom options", t, func() {
		svc := service.New(
			service.WithGuardWindow(250*time.Millisecond),
			service.WithMaxWaves(4),
		)

		Convey("Then it should carry the configured values", func() {
			So(svc, ShouldNotBeNil)

			stats := svc.GetStats()
			So(stats["maxWaves"], ShouldEqual, 4)
			So(stats["guardWindowMs"], ShouldEqual, 250)
		})
	})

	Convey("Given a new service with out-of-range options", t, func() {
		svc := service.New(
			service.WithGuardWindow(-1*time.Second),
			service.WithMaxWaves(0),
		)

		Convey("Then the defaults should survive", func() {
			stats := svc.GetStats()
			So(stats["maxWaves"], ShouldEqual, 16)
			So(stats["guardWindowMs"], ShouldEqual, 750)
		})
	})
}

func TestService_Start(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New()
		// Ensure service is stopped after test
		defer svc.Stop()

		Convey("When starting the service", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			err := svc.Start(ctx)

			Convey("Then it should start successfully", func() {
				So(err, ShouldBeNil)
			})

			Convey("And it should be marked as started", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
			})

			Convey("And starting again should be a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
			})
		})
	})
}

func TestService_Stop(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := service.New()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := svc.Start(ctx)
		So(err, ShouldBeNil)

		Convey("When stopping the service", func() {
			svc.Stop()

			Convey("Then it should be marked as stopped", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, false)
			})

			Convey("And stopping again should be a no-op", func() {
				svc.Stop()
				So(svc.GetStats()["started"], ShouldEqual, false)
			})
		})
	})
}

func TestService_NotStarted(t *testing.T) {
	Convey("Given a service that was never started", t, func() {
		svc := service.New()
		ctx := context.Background()

		Convey("Then session operations are rejected instead of panicking", func() {
			_, err := svc.UploadFile(ctx, "heat.csv", []byte("No.,Name\n12,Alice\n"))
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)

			So(errors.Is(svc.RemoveFile(ctx, "file-1"), service.ErrNotStarted), ShouldBeTrue)
			So(errors.Is(svc.SetWaves(ctx, nil), service.ErrNotStarted), ShouldBeTrue)
			So(errors.Is(svc.ResetGrid(ctx), service.ErrNotStarted), ShouldBeTrue)

			_, err = svc.BuildGrid(ctx)
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			_, err = svc.Grid(ctx)
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			_, err = svc.ExportGrid(ctx)
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)

			_, err = svc.MoveEntry(ctx, 0, 0, 0, 1)
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			_, err = svc.MoveToWaveStart(ctx, 0, 1)
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			_, err = svc.MoveClass(ctx, 0, "GT3", "up")
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			_, err = svc.MergeClass(ctx, 0, "GT4")
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			_, err = svc.CombineWave(ctx, 1)
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			_, err = svc.ResetWave(ctx, 0)
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
		})

		Convey("Then the read surfaces report an empty session", func() {
			So(svc.Files(ctx), ShouldBeNil)
			So(svc.Roster(ctx), ShouldBeNil)
			So(svc.Classes(ctx), ShouldBeNil)
			So(svc.Waves(ctx), ShouldBeNil)
			So(svc.SortOptions(ctx).TieBreakers, ShouldBeNil)
		})

		Convey("And the same rejection applies after Stop", func() {
			So(svc.Start(ctx), ShouldBeNil)
			_, err := svc.UploadFile(ctx, "heat.csv", []byte("No.,Name\n12,Alice\n"))
			So(err, ShouldBeNil)
			svc.Stop()

			_, err = svc.UploadFile(ctx, "practice.csv", []byte("No.,Name\n7,Bob\n"))
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
		})
	})
}

func TestService_SortOptions(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := service.New()
		ctx := context.Background()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("With no uploads only the data-free tie-breakers are offered", func() {
			opts := svc.SortOptions(ctx)
			So(opts.SortBy, ShouldBeNil)
			So(opts.TieBreakers, ShouldResemble, []string{"alphabetical", "manual"})
		})

		Convey("When only a lap log is uploaded", func() {
			log := "12 - Alice Example - GT3\n1 1:23.456 182.1\n2 1:22.900 183.0\n"
			_, err := svc.UploadFile(ctx, "practice.log", []byte(log))
			So(err, ShouldBeNil)

			Convey("Then point and position orderings are withheld", func() {
				opts := svc.SortOptions(ctx)
				So(opts.SortBy, ShouldResemble, []string{"bestTime", "secondBestTime", "bestSecondBest"})
				So(opts.TieBreakers, ShouldResemble, []string{"bestTime", "secondBestTime", "alphabetical", "manual"})
			})

			Convey("And a pointed results file restores them", func() {
				csv := "Position,No.,Name,Class,Best Tm,PIC,Points\n1,12,Alice Example,GT3,1:21.000,1,25\n"
				_, err := svc.UploadFile(ctx, "heat.csv", []byte(csv))
				So(err, ShouldBeNil)

				opts := svc.SortOptions(ctx)
				So(opts.SortBy, ShouldResemble, []string{
					"position", "bestTime", "secondBestTime", "bestSecondBest",
					"totalPoints", "averagePoints",
				})
				So(opts.TieBreakers, ShouldResemble, []string{
					"bestTime", "secondBestTime", "bestPositionInClass",
					"bestPosition", "alphabetical", "manual",
				})
			})
		})
	})
}

func TestService_GetStats(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New()

		Convey("When getting stats before starting", func() {
			stats := svc.GetStats()

			Convey("Then it should return basic stats only", func() {
				So(stats, ShouldNotBeNil)
				So(stats["started"], ShouldEqual, false)
				So(stats, ShouldNotContainKey, "uploadedFiles")
			})
		})

		Convey("When getting stats after starting", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			So(svc.Start(ctx), ShouldBeNil)
			defer svc.Stop()

			stats := svc.GetStats()

			Convey("Then it should include the session counters", func() {
				So(stats["started"], ShouldEqual, true)
				So(stats["uploadedFiles"], ShouldEqual, 0)
				So(stats["resultRows"], ShouldEqual, 0)
				So(stats["rosterDrivers"], ShouldEqual, 0)
				So(stats["configuredWaves"], ShouldEqual, 0)
				So(stats["gridBuilt"], ShouldEqual, false)
			})
		})
	})
}
