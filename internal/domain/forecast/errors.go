package forecast

import "errors"

// Sentinel kinds for forecast errors.
var (
	ErrEmptyDataset = errors.New("dataset is empty")
	ErrNoPredictor  = errors.New("no predictor loaded")
	ErrPredict      = errors.New("prediction failed")
)
