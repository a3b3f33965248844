package config_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/energy-analytics/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()
		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.MaxUploadBytes, convey.ShouldEqual, int64(10<<20))
			convey.So(cfg.SessionTTL, convey.ShouldEqual, 2*time.Hour)
			convey.So(config.Validate(cfg), convey.ShouldBeNil)
		})
	})
}

func TestResolvePaths(t *testing.T) {
	convey.Convey("Given an install location", t, func() {
		base := filepath.Join("opt", "energy")
		p := config.ResolvePaths(base)

		convey.Convey("Then data and model paths are joined under it", func() {
			convey.So(p.DataPath, convey.ShouldEqual, filepath.Join(base, "data", "energy_data.csv"))
			convey.So(p.ModelPath, convey.ShouldEqual, filepath.Join(base, "models", "energy_forecast_model.json"))
			convey.So(p.RulesPath, convey.ShouldEqual, filepath.Join(base, "scripts", "recommendations.yaml"))
			convey.So(p.RulesRequired, convey.ShouldBeFalse)
		})

		convey.Convey("Then resolving twice is deterministic", func() {
			convey.So(config.ResolvePaths(base), convey.ShouldResemble, p)
		})
	})
}

func TestConfig_Paths(t *testing.T) {
	convey.Convey("Given a config with a base dir", t, func() {
		cfg := config.New()
		cfg.BaseDir = "/srv/app"

		convey.Convey("When no overrides are set", func() {
			p, err := cfg.Paths()
			convey.So(err, convey.ShouldBeNil)
			convey.So(p, convey.ShouldResemble, config.ResolvePaths("/srv/app"))
		})

		convey.Convey("When explicit paths are set", func() {
			cfg.DataPath = "/tmp/a.csv"
			cfg.ModelPath = "/tmp/m.json"
			cfg.RecommendationsPath = "/tmp/r.yaml"
			p, err := cfg.Paths()
			convey.So(err, convey.ShouldBeNil)
			convey.So(p.DataPath, convey.ShouldEqual, "/tmp/a.csv")
			convey.So(p.ModelPath, convey.ShouldEqual, "/tmp/m.json")
			convey.So(p.RulesPath, convey.ShouldEqual, "/tmp/r.yaml")
			convey.So(p.RulesRequired, convey.ShouldBeTrue)
		})
	})

	convey.Convey("Given a config without a base dir", t, func() {
		cfg := config.New()
		p, err := cfg.Paths()
		dir, dirErr := config.ExecutableDir()
		convey.So(dirErr, convey.ShouldBeNil)
		convey.So(err, convey.ShouldBeNil)
		convey.So(p.DataPath, convey.ShouldEqual, filepath.Join(dir, "data", "energy_data.csv"))
	})
}
