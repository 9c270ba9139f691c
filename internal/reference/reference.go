// Package reference measures the host clock offset against an NTP server.
// The result is informational and never feeds the kernel-based verdict.
package reference

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/beevik/ntp"
	"golang.org/x/time/rate"

	"github.com/johnsonjh/isntpsynced/pkg/logger"
	"github.com/johnsonjh/isntpsynced/pkg/mathutil"
)

// ErrNoSamples is returned when every query failed or was rejected.
var ErrNoSamples = errors.New("no valid reference samples")

// Offset is the aggregated outcome of a probe
type Offset struct {
	Server  string
	Offset  time.Duration // median clock offset, positive when the host is behind
	RTT     time.Duration // median round-trip time
	Stratum uint8         // stratum of the last accepted response
	Samples int           // accepted samples
}

type queryFunc func(host string, opts ntp.QueryOptions) (*ntp.Response, error)

// Prober queries one server a fixed number of times, spacing the queries
// with a rate limiter
type Prober struct {
	server  string
	samples int
	opts    ntp.QueryOptions
	limiter *rate.Limiter
	query   queryFunc
}

// NewProber creates a prober. An interval of 0 sends samples back to back.
func NewProber(server string, samples int, interval, timeout time.Duration, version int) *Prober {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}

	if samples < 1 {
		samples = 1
	}

	return &Prober{
		server:  server,
		samples: samples,
		opts: ntp.QueryOptions{
			Timeout: timeout,
			Version: version,
		},
		limiter: rate.NewLimiter(limit, 1),
		query:   ntp.QueryWithOptions,
	}
}

// Server returns the probed host
func (p *Prober) Server() string {
	return p.server
}

// Probe collects the samples and returns their median offset
func (p *Prober) Probe(ctx context.Context) (*Offset, error) {
	offsets := make([]time.Duration, 0, p.samples)
	rtts := make([]time.Duration, 0, p.samples)
	var stratum uint8
	var lastErr error

	for i := 0; i < p.samples; i++ {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("reference probe of %s interrupted: %w", p.server, err)
		}

		resp, err := p.queryOnce(ctx)
		if err != nil {
			lastErr = err
			logger.SafeDebug("reference", "Reference query failed", map[string]interface{}{
				"server": p.server,
				"sample": i,
				"error":  err.Error(),
			})
			continue
		}

		offsets = append(offsets, resp.ClockOffset)
		rtts = append(rtts, resp.RTT)
		stratum = resp.Stratum
	}

	if len(offsets) == 0 {
		if lastErr != nil {
			return nil, fmt.Errorf("%w from %s: %v", ErrNoSamples, p.server, lastErr)
		}
		return nil, fmt.Errorf("%w from %s", ErrNoSamples, p.server)
	}

	result := &Offset{
		Server:  p.server,
		Offset:  mathutil.MedianDuration(offsets),
		RTT:     mathutil.MedianDuration(rtts),
		Stratum: stratum,
		Samples: len(offsets),
	}

	logger.SafeDebug("reference", "Reference offset measured", map[string]interface{}{
		"server":    p.server,
		"offset_us": result.Offset.Microseconds(),
		"abs_us":    mathutil.AbsDuration(result.Offset).Microseconds(),
		"rtt_us":    result.RTT.Microseconds(),
		"samples":   result.Samples,
	})

	return result, nil
}

// queryOnce runs a single query, honouring ctx and rejecting responses that
// fail validation
func (p *Prober) queryOnce(ctx context.Context) (*ntp.Response, error) {
	type queryResult struct {
		response *ntp.Response
		err      error
	}

	// Buffered so the goroutine never blocks if ctx wins
	resultChan := make(chan queryResult, 1)

	go func() {
		resp, err := p.query(p.server, p.opts)
		resultChan <- queryResult{response: resp, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("query context cancelled: %w", ctx.Err())
	case result := <-resultChan:
		if result.err != nil {
			return nil, fmt.Errorf("ntp query to %s failed: %w", p.server, result.err)
		}
		if err := result.response.Validate(); err != nil {
			return nil, fmt.Errorf("invalid response from %s: %w", p.server, err)
		}
		return result.response, nil
	}
}
