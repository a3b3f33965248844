package config_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/okian/energy-analytics/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldResemble, config.New())
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("ENERGY_ADDR", ":8080")
			_ = os.Setenv("ENERGY_MAX_UPLOAD_BYTES", "2048")
			_ = os.Setenv("ENERGY_SESSION_TTL", "30m")
			_ = os.Setenv("ENERGY_BASE_DIR", "/srv/energy")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.MaxUploadBytes, convey.ShouldEqual, int64(2048))
				convey.So(cfg.SessionTTL, convey.ShouldEqual, 30*time.Minute)
				convey.So(cfg.BaseDir, convey.ShouldEqual, "/srv/energy")
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9090"
log_format: json
model_path: /models/m.json
max_sessions: 50
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("ENERGY_CONFIG", tmpFile)
			_ = os.Setenv("ENERGY_ADDR", ":8080") // This should override the file
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")              // Overridden by env
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")          // From file
				convey.So(cfg.ModelPath, convey.ShouldEqual, "/models/m.json") // From file
				convey.So(cfg.MaxSessions, convey.ShouldEqual, 50)            // From file
				convey.So(cfg.SessionTTL, convey.ShouldEqual, 2*time.Hour)    // From defaults
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("ENERGY_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("ENERGY_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			tmpFile := createTempConfigFile(`addr: ""`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("ENERGY_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with an unknown log format", func() {
			_ = os.Setenv("ENERGY_LOG_FORMAT", "xml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then validation rejects it", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with a non-positive upload cap", func() {
			_ = os.Setenv("ENERGY_MAX_UPLOAD_BYTES", "0")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then validation rejects it", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with an upload cap above 1 GiB", func() {
			_ = os.Setenv("ENERGY_MAX_UPLOAD_BYTES", "9223372036854775807")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then validation rejects it before it can overflow", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with an upload cap of exactly 1 GiB", func() {
			_ = os.Setenv("ENERGY_MAX_UPLOAD_BYTES", "1073741824")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it is accepted", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.MaxUploadBytes, convey.ShouldEqual, int64(1<<30))
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("ENERGY_MAX_SESSIONS", "not_a_number")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.
func clearConfigEnvVars() {
	envVars := []string{
		"ENERGY_CONFIG",
		"ENERGY_ADDR",
		"ENERGY_LOG_FORMAT",
		"ENERGY_MAX_UPLOAD_BYTES",
		"ENERGY_MAX_SESSIONS",
		"ENERGY_SESSION_TTL",
		"ENERGY_BASE_DIR",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "energy-config-*.yaml")
	if err != nil {
		panic(err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}
	if err := tmpFile.Close(); err != nil {
		panic(err)
	}
	return tmpFile.Name()
}
