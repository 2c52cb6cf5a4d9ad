package testframes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/windrose/pkg/logger"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client  *http.Client
	timeout time.Duration
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// Get performs a GET request
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with JSON body
func (c *HTTPClient) Post(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// submitStations posts every station concurrently using a worker pool and
// returns the replies in station order.
func submitStations(ctx context.Context, config *Config, stations []Station, stats *Stats) []Result {
	logger.Get().Info(ctx, "submitting stations",
		logger.Int("stations", len(stations)),
		logger.Int("workers", config.Workers))

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/traces"

	var (
		submitted int64
		ok        int64
		cached    int64
		failed    int64
	)

	results := make([]Result, len(stations))
	indexChan := make(chan int, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	var lastReport atomic.Int64
	reportInterval := time.Second

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for index := range indexChan {
				select {
				case <-ctx.Done():
					results[index] = Result{Station: stations[index], Err: ctx.Err()}
					continue
				default:
				}

				res := submitSingleStation(ctx, client, url, stations[index])
				results[index] = res

				atomic.AddInt64(&submitted, 1)
				switch {
				case res.Err != nil || res.Status != StatusOK:
					atomic.AddInt64(&failed, 1)
				case res.Response.Cached:
					atomic.AddInt64(&ok, 1)
					atomic.AddInt64(&cached, 1)
				default:
					atomic.AddInt64(&ok, 1)
				}

				now := time.Now().UnixNano()
				last := lastReport.Load()
				if now-last >= int64(reportInterval) && lastReport.CompareAndSwap(last, now) {
					logger.Get().Debug(ctx, "progress",
						logger.Int64("submitted", atomic.LoadInt64(&submitted)),
						logger.Int("total", len(stations)),
						logger.Int64("ok", atomic.LoadInt64(&ok)),
						logger.Int64("failed", atomic.LoadInt64(&failed)))
				}
			}
		}()
	}

	go func() {
		defer close(indexChan)
		for i := range stations {
			select {
			case <-ctx.Done():
				return
			case indexChan <- i:
			}
		}
	}()

	wg.Wait()

	stats.RequestsSubmitted = int(atomic.LoadInt64(&submitted))
	stats.RequestsOK = int(atomic.LoadInt64(&ok))
	stats.RequestsCached = int(atomic.LoadInt64(&cached))
	stats.RequestsFailed = int(atomic.LoadInt64(&failed))

	logger.Get().Info(ctx, "station submission completed",
		logger.Int("ok", stats.RequestsOK),
		logger.Int("cached", stats.RequestsCached),
		logger.Int("failed", stats.RequestsFailed))
	return results
}

// submitSingleStation posts one station and decodes the reply.
func submitSingleStation(ctx context.Context, client *HTTPClient, url string, station Station) Result {
	res := Result{Station: station}
	resp, err := client.Post(ctx, url, station.Request)
	if err != nil {
		res.Err = err
		return res
	}
	defer func() { _ = resp.Body.Close() }()

	res.Status = resp.StatusCode
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		res.Err = fmt.Errorf("failed to read response: %w", err)
		return res
	}
	if resp.StatusCode != StatusOK {
		res.Err = fmt.Errorf("status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
		return res
	}
	if err := json.Unmarshal(body, &res.Response); err != nil {
		res.Err = fmt.Errorf("failed to decode response: %w", err)
	}
	return res
}
