package modelstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func writeModel(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write model: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	Convey("Given model artifacts on disk", t, func() {
		Convey("A missing file reports ErrModelNotFound", func() {
			_, err := Load(ctx, filepath.Join(t.TempDir(), "absent.json"))
			So(errors.Is(err, ErrModelNotFound), ShouldBeTrue)
		})

		Convey("Malformed JSON reports ErrModelFormat", func() {
			_, err := Load(ctx, writeModel(t, "{not json"))
			So(errors.Is(err, ErrModelFormat), ShouldBeTrue)
		})

		Convey("An unknown kind is rejected", func() {
			_, err := Load(ctx, writeModel(t, `{"kind":"svm"}`))
			So(errors.Is(err, ErrModelFormat), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "svm")
		})

		Convey("A missing kind is rejected", func() {
			_, err := Load(ctx, writeModel(t, `{"intercept":1}`))
			So(errors.Is(err, ErrModelFormat), ShouldBeTrue)
		})

		Convey("A feature count other than two is rejected", func() {
			_, err := Load(ctx, writeModel(t, `{"kind":"linear","n_features":3,"coefficients":[1,2,3]}`))
			So(errors.Is(err, ErrModelFormat), ShouldBeTrue)
		})

		Convey("A linear artifact predicts intercept plus weighted features", func() {
			p, err := Load(ctx, writeModel(t, `{"kind":"linear","n_features":2,"intercept":0.5,"coefficients":[0.1,0.2]}`))
			So(err, ShouldBeNil)
			out, err := p.Predict(ctx, [][]float64{{9, 3}, {0, 0}})
			So(err, ShouldBeNil)
			So(len(out), ShouldEqual, 2)
			So(out[0], ShouldAlmostEqual, 0.5+0.9+0.6, 1e-9)
			So(out[1], ShouldAlmostEqual, 0.5, 1e-9)
		})
	})
}

func TestLinear(t *testing.T) {
	Convey("Given a linear model", t, func() {
		Convey("The coefficient count must match the feature count", func() {
			_, err := NewLinear(0, []float64{1})
			So(errors.Is(err, ErrModelFormat), ShouldBeTrue)
		})

		Convey("Rows of the wrong width are rejected", func() {
			m, err := NewLinear(0, []float64{1, 1})
			So(err, ShouldBeNil)
			_, err = m.Predict(context.Background(), [][]float64{{1, 2, 3}})
			So(errors.Is(err, ErrFeatureShape), ShouldBeTrue)
		})

		Convey("Callers cannot alter coefficients after construction", func() {
			w := []float64{1, 1}
			m, err := NewLinear(0, w)
			So(err, ShouldBeNil)
			w[0] = 100
			out, err := m.Predict(context.Background(), [][]float64{{2, 3}})
			So(err, ShouldBeNil)
			So(out[0], ShouldAlmostEqual, 5.0, 1e-9)
		})
	})
}

func TestForest(t *testing.T) {
	// Splits on hour: <= 12 -> 1.0, else 3.0.
	stump := Tree{Nodes: []Node{
		{Feature: 0, Threshold: 12, Left: 1, Right: 2},
		{Left: leaf, Right: leaf, Value: 1},
		{Left: leaf, Right: leaf, Value: 3},
	}}
	constant := Tree{Nodes: []Node{{Left: leaf, Right: leaf, Value: 2}}}

	Convey("Given a forest of two trees", t, func() {
		f, err := NewForest([]Tree{stump, constant})
		So(err, ShouldBeNil)

		Convey("Predictions are the mean of the trees", func() {
			out, err := f.Predict(context.Background(), [][]float64{{12, 0}, {13, 0}})
			So(err, ShouldBeNil)
			So(out[0], ShouldAlmostEqual, 1.5, 1e-9)
			So(out[1], ShouldAlmostEqual, 2.5, 1e-9)
		})
	})

	Convey("Given invalid trees", t, func() {
		Convey("An empty forest is rejected", func() {
			_, err := NewForest(nil)
			So(errors.Is(err, ErrModelFormat), ShouldBeTrue)
		})

		Convey("Backward child links are rejected", func() {
			cyclic := Tree{Nodes: []Node{
				{Feature: 0, Threshold: 1, Left: 0, Right: 1},
				{Left: leaf, Right: leaf},
			}}
			_, err := NewForest([]Tree{cyclic})
			So(errors.Is(err, ErrModelFormat), ShouldBeTrue)
		})

		Convey("Out of range features are rejected", func() {
			bad := Tree{Nodes: []Node{
				{Feature: 5, Threshold: 1, Left: 1, Right: 2},
				{Left: leaf, Right: leaf},
				{Left: leaf, Right: leaf},
			}}
			_, err := NewForest([]Tree{bad})
			So(errors.Is(err, ErrModelFormat), ShouldBeTrue)
		})
	})
}

func TestTable(t *testing.T) {
	Convey("Given a 24x7 table", t, func() {
		values := make([][]float64, hoursPerDay)
		for h := range values {
			values[h] = make([]float64, daysPerWeek)
			for d := range values[h] {
				values[h][d] = float64(h*10 + d)
			}
		}
		tb, err := NewTable(values)
		So(err, ShouldBeNil)

		Convey("Cells are looked up by hour and day", func() {
			out, err := tb.Predict(context.Background(), [][]float64{{9, 3}})
			So(err, ShouldBeNil)
			So(out[0], ShouldEqual, 93.0)
		})

		Convey("Out of range features are clamped", func() {
			out, err := tb.Predict(context.Background(), [][]float64{{30, -1}})
			So(err, ShouldBeNil)
			So(out[0], ShouldEqual, 230.0)
		})

		Convey("A short grid is rejected", func() {
			_, err := NewTable(values[:5])
			So(errors.Is(err, ErrModelFormat), ShouldBeTrue)
		})
	})
}

func TestSaveRoundTrip(t *testing.T) {
	Convey("Save writes an artifact Load accepts", t, func() {
		path := filepath.Join(t.TempDir(), "m.json")
		So(Save(path, Artifact{Kind: KindLinear, NFeatures: 2, Intercept: 1, Coefficients: []float64{0, 0}}), ShouldBeNil)
		p, err := Load(context.Background(), path)
		So(err, ShouldBeNil)
		out, err := p.Predict(context.Background(), [][]float64{{5, 5}})
		So(err, ShouldBeNil)
		So(out[0], ShouldAlmostEqual, 1.0, 1e-9)
	})
}
