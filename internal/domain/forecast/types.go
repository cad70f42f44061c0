package forecast

// DateLayout is the wire format for prediction dates.
const DateLayout = "2006-01-02"

// Severity thresholds for the predicted visitor count. The ladder is
// evaluated top-down and is a business rule, not a model output.
const (
	// CriticalVisitorThreshold marks counts that require crowd control.
	CriticalVisitorThreshold = 80000
	// HighVisitorThreshold marks counts above a comfortable load.
	HighVisitorThreshold = 40000
)

// Status is the severity tier derived from a predicted count.
type Status string

const (
	StatusNormal   Status = "Normal"
	StatusHigh     Status = "High"
	StatusCritical Status = "Critical"
)

// Color codes paired with each status for the frontend traffic light.
const (
	ColorGreen  = "green"
	ColorOrange = "orange"
	ColorRed    = "red"
)

// Request is one crowd prediction call.
type Request struct {
	TempleName  string `json:"temple_name"`
	DateStr     string `json:"date_str"`
	Temperature int    `json:"temperature"`
	RainFlag    int    `json:"rain_flag"`
	MoonPhase   string `json:"moon_phase"`
	IsWeekend   int    `json:"is_weekend"`
}

// Response is returned to the HTTP transport.
type Response struct {
	Temple            string `json:"temple"`
	Date              string `json:"date"`
	PredictedVisitors int    `json:"predicted_visitors"`
	CrowdStatus       Status `json:"crowd_status"`
	ColorCode         string `json:"color_code"`
}

// FeatureVector is the fixed-order numeric input handed to the model. The
// element order is artifact.FeatureNames and is never reordered after
// derivation.
type FeatureVector []float64
