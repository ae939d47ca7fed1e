package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// WeatherInfo is the date/weather payload stamped into the report header
// and echoed in the generate response.
type WeatherInfo struct {
	Date    string `json:"date"`
	Weather string `json:"weather"`
	Temp    string `json:"temp"`
}

// WeatherText renders the info the way the report header expects it.
func (w WeatherInfo) WeatherText() string {
	return fmt.Sprintf("天气：%s  气温：%s", w.Weather, w.Temp)
}

// WeatherClient fetches today's weather with a bounded timeout. Any
// failure falls back to a static payload so document generation never
// blocks on the upstream.
type WeatherClient struct {
	url    string
	client *http.Client
	logger *zap.Logger
	now    func() time.Time
}

// NewWeatherClient builds a client for the given endpoint. An empty URL
// is valid: every lookup then answers with the fallback payload.
func NewWeatherClient(url string, timeout time.Duration, logger *zap.Logger) *WeatherClient {
	return &WeatherClient{
		url:    url,
		client: &http.Client{Timeout: timeout},
		logger: logger,
		now:    time.Now,
	}
}

// Fetch returns today's weather, or the static fallback when the upstream
// is unconfigured, unreachable, or answers garbage.
func (c *WeatherClient) Fetch(ctx context.Context) WeatherInfo {
	info := c.fallback()
	if c.url == "" {
		return info
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		c.logger.Warn("building weather request", zap.Error(err))
		return info
	}
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("weather lookup failed, using fallback", zap.Error(err))
		return info
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("weather lookup failed, using fallback", zap.Int("status", resp.StatusCode))
		return info
	}

	var fetched struct {
		Weather string `json:"weather"`
		Temp    string `json:"temperature"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&fetched); err != nil {
		c.logger.Warn("decoding weather response, using fallback", zap.Error(err))
		return info
	}
	if fetched.Weather != "" {
		info.Weather = fetched.Weather
	}
	if fetched.Temp != "" {
		info.Temp = fetched.Temp
	}
	return info
}

// fallback is the documented static payload.
func (c *WeatherClient) fallback() WeatherInfo {
	return WeatherInfo{
		Date:    c.now().Format("2006年1月2日"),
		Weather: "晴",
		Temp:    "20℃~30℃",
	}
}
