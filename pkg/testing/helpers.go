package testutil

import (
	"regexp"
	"testing"
	"time"

	"github.com/beevik/ntp"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/johnsonjh/isntpsynced/internal/clock"
)

// FakeQuerier returns a canned kernel state or error and counts calls
type FakeQuerier struct {
	State *clock.TimeKernelState
	Err   error
	Fam   clock.Family
	Calls int
}

// Query implements clock.Querier
func (f *FakeQuerier) Query() (*clock.TimeKernelState, error) {
	f.Calls++
	if f.Err != nil {
		return nil, f.Err
	}
	return f.State, nil
}

// Family implements clock.Querier
func (f *FakeQuerier) Family() clock.Family {
	return f.Fam
}

// NewLinuxQuerier builds a fake Linux-family querier. good selects TIME_OK
// versus TIME_ERROR with STA_UNSYNC; bounds are in microseconds.
func NewLinuxQuerier(good bool, maxErrUs, estErrUs int64) *FakeQuerier {
	state, status := clock.TIME_OK, int32(clock.STA_PLL)
	if !good {
		state, status = clock.TIME_ERROR, int32(clock.STA_PLL|clock.STA_UNSYNC)
	}
	return &FakeQuerier{
		State: clock.NewKernelState(clock.FamilyLinux, state, status, maxErrUs, estErrUs),
		Fam:   clock.FamilyLinux,
	}
}

// NewFailingQuerier builds a fake querier whose call errors
func NewFailingQuerier(err error) *FakeQuerier {
	return &FakeQuerier{Err: err, Fam: clock.FamilyLinux}
}

// FakeProcessSource serves a fixed process command list and counts scans
type FakeProcessSource struct {
	Cmds  []string
	Err   error
	Calls int
}

// Commands implements daemon.ProcessSource
func (f *FakeProcessSource) Commands() ([]string, error) {
	f.Calls++
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Cmds, nil
}

// CreateMockNTPResponse creates a valid NTP response for reference probe tests
func CreateMockNTPResponse(offset time.Duration, stratum uint8) *ntp.Response {
	now := time.Now()
	return &ntp.Response{
		Time:           now.Add(offset),
		ClockOffset:    offset,
		RTT:            20 * time.Millisecond,
		Precision:      time.Microsecond,
		Stratum:        stratum,
		ReferenceID:    0x47505300, // GPS
		ReferenceTime:  now.Add(-1 * time.Minute),
		RootDelay:      2 * time.Millisecond,
		RootDispersion: time.Millisecond,
		RootDistance:   2 * time.Millisecond,
		Leap:           ntp.LeapNoWarning,
		Poll:           6,
	}
}

// CreateKoDResponse creates a Kiss-of-Death NTP response, which fails validation
func CreateKoDResponse(code string) *ntp.Response {
	resp := CreateMockNTPResponse(0, 0)
	resp.KissCode = code
	return resp
}

// AssertMetricValue validates a gauge value in a gatherer
func AssertMetricValue(t *testing.T, g prometheus.Gatherer, metricName string, labels map[string]string, expected float64) {
	t.Helper()

	m := findMetric(t, g, metricName, labels)
	if m == nil {
		t.Errorf("Metric %s with labels %v not found", metricName, labels)
		return
	}

	if got := m.GetGauge().GetValue(); got != expected {
		t.Errorf("Metric %s with labels %v: expected %f, got %f", metricName, labels, expected, got)
	}
}

// AssertMetricExists checks if a metric exists with given labels
func AssertMetricExists(t *testing.T, g prometheus.Gatherer, metricName string, labels map[string]string) {
	t.Helper()

	if findMetric(t, g, metricName, labels) == nil {
		t.Errorf("Metric %s with labels %v not found", metricName, labels)
	}
}

// AssertMetricAbsent checks that no series of the metric was emitted
func AssertMetricAbsent(t *testing.T, g prometheus.Gatherer, metricName string) {
	t.Helper()

	families, err := g.Gather()
	if err != nil {
		t.Fatalf("Failed to gather metrics: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == metricName && len(mf.GetMetric()) > 0 {
			t.Errorf("Metric %s should not be present", metricName)
		}
	}
}

func findMetric(t *testing.T, g prometheus.Gatherer, metricName string, labels map[string]string) *dto.Metric {
	t.Helper()

	families, err := g.Gather()
	if err != nil {
		t.Fatalf("Failed to gather metrics: %v", err)
	}

	for _, mf := range families {
		if mf.GetName() != metricName {
			continue
		}
		for _, m := range mf.GetMetric() {
			if labelsMatch(m.GetLabel(), labels) {
				return m
			}
		}
	}

	return nil
}

// labelsMatch checks if metric labels match expected labels
func labelsMatch(metricLabels []*dto.LabelPair, expected map[string]string) bool {
	if len(metricLabels) != len(expected) {
		return false
	}

	for _, label := range metricLabels {
		expectedValue, exists := expected[label.GetName()]
		if !exists || expectedValue != label.GetValue() {
			return false
		}
	}

	return true
}

// ValidatePrometheusMetricName validates that a metric name follows Prometheus conventions
func ValidatePrometheusMetricName(t *testing.T, name string) {
	t.Helper()

	validName := regexp.MustCompile(`^[a-zA-Z_:][a-zA-Z0-9_:]*$`)
	if !validName.MatchString(name) {
		t.Errorf("Invalid metric name: %s (must match [a-zA-Z_:][a-zA-Z0-9_:]*)", name)
	}
}
