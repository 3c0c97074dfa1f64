package main

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/som23ya/workwale-core/internal/adapters/http/api"
	"github.com/som23ya/workwale-core/internal/adapters/http/swagger"
	service "github.com/som23ya/workwale-core/internal/app"
	"github.com/som23ya/workwale-core/internal/config"
	"github.com/som23ya/workwale-core/pkg/metrics"
)

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("WORKWALE_ADDR", ":8080")
			_ = os.Setenv("WORKWALE_RESCORE_QUEUE_SIZE", "1000")
			_ = os.Setenv("WORKWALE_WORKER_COUNT", "4")
			defer func() {
				_ = os.Unsetenv("WORKWALE_ADDR")
				_ = os.Unsetenv("WORKWALE_RESCORE_QUEUE_SIZE")
				_ = os.Unsetenv("WORKWALE_WORKER_COUNT")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				ctx := context.Background()
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.RescoreQueueSize, convey.ShouldEqual, 1000)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 4)
			})
		})

		convey.Convey("When building the engine and ranker from config", func() {
			cfg := config.New()

			convey.Convey("Then both should be constructable", func() {
				convey.So(matchingEngine(cfg), convey.ShouldNotBeNil)
				convey.So(rankerFromConfig(cfg), convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When testing service creation", func() {
			convey.Convey("Then service should be creatable with default options", func() {
				svc := service.New()
				convey.So(svc, convey.ShouldNotBeNil)
			})

			convey.Convey("And service should be creatable with custom options", func() {
				svc := service.New(
					service.WithWorkerCount(8),
					service.WithQueueSize(2000),
					service.WithScoreDeadline(time.Second),
				)
				convey.So(svc, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When testing HTTP route registration", func() {
			ctx := context.Background()
			svc := service.New()
			mux := http.NewServeMux()

			convey.Convey("Then routes should register without panicking", func() {
				convey.So(func() {
					swagger.Register(ctx, mux)
					api.NewServer(svc, svc).Register(mux)
				}, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When testing metrics registry access", func() {
			convey.Convey("Then the custom registry should be available", func() {
				convey.So(metrics.GetRegistry(), convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When refreshing service metrics", func() {
			svc := service.New()

			convey.Convey("Then the updater should tolerate a stopped service", func() {
				convey.So(func() { updateServiceMetrics(svc) }, convey.ShouldNotPanic)
			})
		})
	})
}
