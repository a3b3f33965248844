package service

import "time"

// Messages shown to users. Kept verbatim so operators can grep logs and pages.
const (
	DashboardTitle    = "Residential Energy Analytics Dashboard"
	DashboardSubtitle = "Monitor energy usage, detect inefficiencies, and get AI-powered recommendations."
	ForecastLabel     = "Predicted Next Hour Consumption (kWh)"

	MsgModelMissing    = "Model not found! Run the training step first to generate the model."
	MsgRulesFailed     = "Failed to load recommendations: "
	MsgModelFailed     = "Failed to load model: "
	MsgNoDataset       = "No default dataset found. Please upload your energy data CSV."
	MsgUploadPrompt    = "Upload a CSV file or run the data generator to populate energy data."
	MsgPredictFailed   = "Prediction failed: "
	MsgDatasetRejected = "Could not read energy data: "
)

// Level is the severity of a notice.
type Level string

// Notice levels.
const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notice is a status line shown above the dashboard content.
type Notice struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// DatasetSummary describes the dataset a view was rendered from.
type DatasetSummary struct {
	Source   string    `json:"source"`
	Uploaded bool      `json:"uploaded"`
	Rows     int       `json:"rows"`
	Gaps     int       `json:"gaps,omitempty"`
	From     time.Time `json:"from"`
	To       time.Time `json:"to"`
}

// Point is one chart sample.
type Point struct {
	T time.Time `json:"t"`
	V float64   `json:"v"`
}

// Chart is the consumption line chart, one point per reading in file order.
// Gaps counts rows without a reading.
type Chart struct {
	Points []Point `json:"points"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Gaps   int     `json:"gaps,omitempty"`
}

// ForecastView is the predicted next-hour metric.
type ForecastView struct {
	Hour    int     `json:"hour"`
	Day     int     `json:"day"`
	Weekday string  `json:"weekday"`
	Value   float64 `json:"value"`
	Label   string  `json:"label"`
}

// View is everything one dashboard render shows. A halted view carries only
// the title and Error.
type View struct {
	Title    string          `json:"title"`
	Subtitle string          `json:"subtitle"`
	Halted   bool            `json:"halted"`
	Error    string          `json:"error,omitempty"`
	Notices  []Notice        `json:"notices,omitempty"`
	Dataset  *DatasetSummary `json:"dataset,omitempty"`
	Chart    *Chart          `json:"chart,omitempty"`
	Forecast *ForecastView   `json:"forecast,omitempty"`
	Tips     []string        `json:"tips,omitempty"`
}

func (v *View) notify(level Level, msg string) {
	v.Notices = append(v.Notices, Notice{Level: level, Message: msg})
}

func (v *View) halt(msg string) {
	v.Halted = true
	v.Error = msg
}
