package datagen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	service "github.com/okian/energy-analytics/internal/app"
	"github.com/okian/energy-analytics/internal/domain/dataset"
)

func TestGenerate(t *testing.T) {
	Convey("Given generator options", t, func() {
		opts := Options{Start: time.Date(2024, 3, 11, 0, 30, 0, 0, time.UTC), Days: 2, Seed: 7}

		Convey("When generating", func() {
			recs, err := Generate(opts)
			So(err, ShouldBeNil)

			Convey("Then there is one record per hour, in order", func() {
				So(len(recs), ShouldEqual, 48)
				So(recs[0].Timestamp, ShouldEqual, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC))
				for i := 1; i < len(recs); i++ {
					So(recs[i].Timestamp.Sub(recs[i-1].Timestamp), ShouldEqual, time.Hour)
					So(recs[i].Consumption, ShouldBeGreaterThanOrEqualTo, minConsumption)
				}
			})

			Convey("And the same seed reproduces the data", func() {
				again, err := Generate(opts)
				So(err, ShouldBeNil)
				So(again, ShouldResemble, recs)
			})

			Convey("And a different seed changes it", func() {
				opts.Seed = 8
				other, err := Generate(opts)
				So(err, ShouldBeNil)
				So(other, ShouldNotResemble, recs)
			})
		})

		Convey("Zero days is rejected", func() {
			_, err := Generate(Options{Days: 0})
			So(errors.Is(err, ErrInvalidOptions), ShouldBeTrue)
		})
	})

	Convey("The profile peaks in the evening and rises at weekends", t, func() {
		thu := time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)
		So(Expected(thu.Add(19*time.Hour)), ShouldBeGreaterThan, Expected(thu.Add(3*time.Hour)))
		sat := time.Date(2024, 3, 16, 19, 0, 0, 0, time.UTC)
		So(Expected(sat), ShouldBeGreaterThan, Expected(thu.Add(19*time.Hour)))
	})
}

func TestWriteCSV(t *testing.T) {
	Convey("Written CSV parses back into the same rows", t, func() {
		recs, err := Generate(Options{Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Days: 1, Seed: 1})
		So(err, ShouldBeNil)

		path := filepath.Join(t.TempDir(), "data", "energy_data.csv")
		So(WriteFile(path, recs), ShouldBeNil)

		ds, err := dataset.LoadFile(path)
		So(err, ShouldBeNil)
		So(ds.Len(), ShouldEqual, 24)
		So(ds.Records[5].Timestamp, ShouldEqual, recs[5].Timestamp)
		So(ds.Records[5].Consumption, ShouldEqual, recs[5].Consumption)
	})
}

func fastBackoff() UploaderOption {
	return WithBackoff(BackoffConfig{MaxRetries: 3, InitialInterval: time.Millisecond, MaxInterval: 5 * time.Millisecond})
}

func TestUploader(t *testing.T) {
	ctx := context.Background()
	csv := []byte("timestamp,consumption\n2024-03-14 09:00:00,1.0\n")

	Convey("Given a dashboard that accepts the upload", t, func() {
		var got []byte
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			f, _, err := r.FormFile("file")
			if err == nil {
				got, _ = io.ReadAll(f)
			}
			_ = json.NewEncoder(w).Encode(service.View{Forecast: &service.ForecastView{Value: 1.23}})
		}))
		defer srv.Close()

		v, err := NewUploader(srv.URL, fastBackoff()).Upload(ctx, "/tmp/x/energy.csv", csv)

		Convey("Then the file is sent and the view decoded", func() {
			So(err, ShouldBeNil)
			So(bytes.Equal(got, csv), ShouldBeTrue)
			So(v.Forecast.Value, ShouldEqual, 1.23)
		})
	})

	Convey("Given a dashboard that fails twice before succeeding", t, func() {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) <= 2 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_ = json.NewEncoder(w).Encode(service.View{Title: "ok"})
		}))
		defer srv.Close()

		v, err := NewUploader(srv.URL, fastBackoff()).Upload(ctx, "energy.csv", csv)

		Convey("Then the upload is retried", func() {
			So(err, ShouldBeNil)
			So(v.Title, ShouldEqual, "ok")
			So(calls.Load(), ShouldEqual, 3)
		})
	})

	Convey("Given a dashboard that rejects the CSV", t, func() {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"code":"data_format","message":"line 2: bad"}`))
		}))
		defer srv.Close()

		_, err := NewUploader(srv.URL, fastBackoff()).Upload(ctx, "energy.csv", csv)

		Convey("Then the rejection is returned without retrying", func() {
			So(errors.Is(err, ErrRejected), ShouldBeTrue)
			var rej *RejectedError
			So(errors.As(err, &rej), ShouldBeTrue)
			So(rej.Code, ShouldEqual, "data_format")
			So(rej.Message, ShouldEqual, "line 2: bad")
			So(calls.Load(), ShouldEqual, 1)
		})
	})

	Convey("Given a dashboard that keeps failing", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		u := NewUploader(srv.URL, WithBackoff(BackoffConfig{MaxRetries: 1, InitialInterval: time.Millisecond}))

		Convey("Then retries are exhausted with a server error", func() {
			_, err := u.Upload(ctx, "energy.csv", csv)
			So(errors.Is(err, ErrServerError), ShouldBeTrue)
		})

		Convey("And repeated failures open the breaker", func() {
			var err error
			for i := 0; i < 4; i++ {
				_, err = u.Upload(ctx, "energy.csv", csv)
			}
			So(errors.Is(err, ErrCircuitOpen), ShouldBeTrue)
		})
	})
}
