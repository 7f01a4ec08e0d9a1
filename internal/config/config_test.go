package config_test

import (
	"context"
	"testing"

	"github.com/codexfield/codex-marketplace/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.Identity, convey.ShouldEqual, "marketplace")
			convey.So(cfg.Treasury, convey.ShouldEqual, "treasury")
			convey.So(cfg.FeeRateBps, convey.ShouldEqual, 100)
			convey.So(cfg.RelayQueueSize, convey.ShouldEqual, 10_000)
			convey.So(cfg.RelayWorkerCount, convey.ShouldEqual, 4)
			convey.So(cfg.MaxPageLimit, convey.ShouldEqual, 100)
			convey.So(cfg.RelayLatencyMinMS, convey.ShouldEqual, 20)
			convey.So(cfg.RelayLatencyMaxMS, convey.ShouldEqual, 80)
		})
	})
}
