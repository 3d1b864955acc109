// Package remote is a client for an external statistical forecasting
// service. It speaks a simple JSON contract: observed points in, projected
// values with per-level confidence bounds out.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/trendboard/trendboard/internal/contract"
	"github.com/trendboard/trendboard/schema"
)

// Client calls the remote forecasting service over HTTP.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

var _ contract.ForecastService = &Client{} // Compile-time check

// NewClient creates a remote forecast client. The model name is passed
// through to the service; an empty model lets the service choose.
func NewClient(baseURL, model string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = contract.DefaultRemoteTimeout
	}
	return &Client{
		baseURL:    baseURL,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// forecastRequest is the JSON payload the service expects.
type forecastRequest struct {
	Data             []dataPoint `json:"data"`
	Horizon          int         `json:"horizon"`
	Model            string      `json:"model,omitempty"`
	SeasonLength     int         `json:"seasonLength,omitempty"`
	ConfidenceLevels []int       `json:"confidenceLevels,omitempty"`
}

// dataPoint is one observed value on the wire.
type dataPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// forecastResponse is the JSON payload the service returns. Confidence
// intervals are keyed "lower_<level>" and "upper_<level>".
type forecastResponse struct {
	Forecast            []forecastPoint      `json:"forecast"`
	ConfidenceIntervals map[string][]float64 `json:"confidenceIntervals,omitempty"`
	ModelUsed           string               `json:"modelUsed"`
}

// forecastPoint is one projected value on the wire.
type forecastPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// Forecast sends the series to the remote service and adapts its response
// to the engine's result shape. An empty or unusable series returns
// (nil, nil) so the caller can fall back to the local forecaster.
func (c *Client) Forecast(ctx context.Context, series schema.PointSequence, cfg schema.ForecastConfig) (*schema.ForecastResult, error) {
	points := make([]dataPoint, 0, len(series))
	for _, p := range series {
		v, ok := p.Value()
		if !ok {
			continue
		}
		points = append(points, dataPoint{
			Date:  p.Timestamp.Format(contract.DateFormat),
			Value: v,
		})
	}
	if len(points) < 2 {
		return nil, nil
	}

	reqBody := forecastRequest{
		Data:         points,
		Horizon:      cfg.Horizon,
		Model:        c.model,
		SeasonLength: cfg.SeasonLength,
	}
	if cfg.ShowConfidenceIntervals {
		reqBody.ConfidenceLevels = []int{cfg.ConfidenceLevel}
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to encode forecast request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/forecast", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build forecast request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("forecast request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("forecast service returned %d: %s", resp.StatusCode, string(body))
	}

	var decoded forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode forecast response: %w", err)
	}
	if len(decoded.Forecast) == 0 {
		return nil, nil
	}

	return adaptResponse(cfg, decoded)
}

// adaptResponse maps the service's dated points and per-level bounds onto
// the engine's result shape.
func adaptResponse(cfg schema.ForecastConfig, decoded forecastResponse) (*schema.ForecastResult, error) {
	result := &schema.ForecastResult{
		Points: make([]schema.ValuePoint, len(decoded.Forecast)),
		Method: schema.MethodRemote,
		Parameters: schema.ForecastParameters{
			Seasonal:     cfg.Seasonal,
			SeasonLength: cfg.SeasonLength,
		},
	}
	for i, p := range decoded.Forecast {
		ts, err := contract.ParseDate(p.Date)
		if err != nil {
			return nil, fmt.Errorf("forecast point %d: %w", i, err)
		}
		result.Points[i] = schema.ValuePoint{Timestamp: ts, Value: p.Value}
	}

	lowKey := fmt.Sprintf("lower_%d", cfg.ConfidenceLevel)
	highKey := fmt.Sprintf("upper_%d", cfg.ConfidenceLevel)
	lows, highs := decoded.ConfidenceIntervals[lowKey], decoded.ConfidenceIntervals[highKey]
	if len(lows) == len(decoded.Forecast) && len(highs) == len(decoded.Forecast) {
		result.Intervals = make([]schema.ConfidenceInterval, len(decoded.Forecast))
		for i := range decoded.Forecast {
			result.Intervals[i] = schema.ConfidenceInterval{
				Timestamp: result.Points[i].Timestamp,
				Lower:     lows[i],
				Upper:     highs[i],
			}
		}
	}

	return result, nil
}
