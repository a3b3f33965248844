package service

import (
	"context"
	"errors"
	"time"

	"github.com/okian/energy-analytics/internal/adapters/modelstore"
	"github.com/okian/energy-analytics/internal/adapters/repository"
	"github.com/okian/energy-analytics/internal/domain/dataset"
	"github.com/okian/energy-analytics/internal/domain/forecast"
	"github.com/okian/energy-analytics/internal/domain/model"
	"github.com/okian/energy-analytics/pkg/logger"
	"github.com/okian/energy-analytics/pkg/metrics"
)

// Render outcomes, used as the metrics label.
const (
	outcomeHalted       = "halted"
	outcomeAbsent       = "absent"
	outcomeInvalid      = "invalid"
	outcomeEmpty        = "empty"
	outcomePredictError = "predict_error"
	outcomeOK           = "ok"
)

// Render builds the dashboard for one rerun of sess. The default dataset is
// re-read on every call unless the session carries an upload. Render never
// fails; problems become notices or a halted view.
func (s *Service) Render(ctx context.Context, sess repository.Session) View {
	start := time.Now()
	v := View{Title: DashboardTitle, Subtitle: DashboardSubtitle}

	outcome := s.render(ctx, sess, &v)

	s.renders.Add(1)
	metrics.RecordRender(outcome, float64(time.Since(start).Milliseconds()))
	return v
}

func (s *Service) render(ctx context.Context, sess repository.Session, v *View) string {
	log := s.log().With(logger.String("session", sess.ID))

	if s.rulesErr != nil {
		v.halt(MsgRulesFailed + s.rulesErr.Error())
		return outcomeHalted
	}
	if !s.modelReady() {
		if s.modelErr == nil || errors.Is(s.modelErr, modelstore.ErrModelNotFound) {
			v.halt(MsgModelMissing)
		} else {
			v.halt(MsgModelFailed + s.modelErr.Error())
		}
		return outcomeHalted
	}

	ds, err := s.datasetFor(sess)
	switch {
	case errors.Is(err, dataset.ErrDatasetAbsent):
		v.notify(LevelWarning, MsgNoDataset)
		v.notify(LevelInfo, MsgUploadPrompt)
		return outcomeAbsent
	case err != nil:
		log.Warn(ctx, "dataset rejected", logger.Error(err))
		v.notify(LevelError, MsgDatasetRejected+err.Error())
		return outcomeInvalid
	}

	from, to := ds.Span()
	v.Dataset = &DatasetSummary{
		Source:   ds.Source,
		Uploaded: sess.HasUpload(),
		Rows:     ds.Len(),
		Gaps:     ds.Gaps(),
		From:     from,
		To:       to,
	}
	metrics.UpdateDatasetRows(ds.Len())

	if ds.Empty() {
		v.notify(LevelInfo, MsgUploadPrompt)
		return outcomeEmpty
	}

	v.Chart = buildChart(ds)

	last, _ := ds.Last()
	hour := forecast.ExtractFeatures(last.Timestamp).Hour

	outcome := outcomeOK
	res, err := forecast.Run(ctx, s.predictor, ds)
	if err != nil {
		log.Error(ctx, "forecast failed", logger.Int("rows", ds.Len()), logger.Error(err))
		metrics.RecordForecastError()
		v.notify(LevelError, MsgPredictFailed+err.Error())
		outcome = outcomePredictError
	} else {
		v.Forecast = &ForecastView{
			Hour:    res.Features.Hour,
			Day:     res.Features.Day,
			Weekday: res.Features.Weekday().String(),
			Value:   res.Rounded,
			Label:   ForecastLabel,
		}
		metrics.RecordForecast(res.Rounded)
		log.Debug(ctx, "forecast computed",
			logger.Int("rows", ds.Len()),
			logger.Int("hour", res.Features.Hour),
			logger.Int("day", res.Features.Day),
			logger.Float64("value", res.Rounded),
		)
	}

	v.Tips = s.recommender.Generate(hour)
	return outcome
}

func (s *Service) datasetFor(sess repository.Session) (model.Dataset, error) {
	if sess.Upload != nil {
		return *sess.Upload, nil
	}
	return dataset.LoadFile(s.dataPath)
}

// buildChart plots the readings in file order. Gaps are left out of the
// points and of Min/Max.
func buildChart(ds model.Dataset) *Chart {
	c := &Chart{Points: make([]Point, 0, len(ds.Records))}
	for _, r := range ds.Records {
		if !r.HasReading() {
			c.Gaps++
			continue
		}
		if len(c.Points) == 0 || r.Consumption < c.Min {
			c.Min = r.Consumption
		}
		if len(c.Points) == 0 || r.Consumption > c.Max {
			c.Max = r.Consumption
		}
		c.Points = append(c.Points, Point{T: r.Timestamp, V: r.Consumption})
	}
	return c
}
