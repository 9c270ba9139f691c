package reference

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/beevik/ntp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	testutil "github.com/johnsonjh/isntpsynced/pkg/testing"
)

// scriptedQuery replays responses in order and records the options it saw
type scriptedQuery struct {
	responses []*ntp.Response
	errs      []error
	calls     int
	opts      ntp.QueryOptions
	hosts     []string
}

func (s *scriptedQuery) query(host string, opts ntp.QueryOptions) (*ntp.Response, error) {
	i := s.calls
	s.calls++
	s.opts = opts
	s.hosts = append(s.hosts, host)
	if i < len(s.errs) && s.errs[i] != nil {
		return nil, s.errs[i]
	}
	return s.responses[i], nil
}

func newTestProber(samples int, q *scriptedQuery) *Prober {
	p := NewProber("time.example.com", samples, 0, 2*time.Second, 4)
	p.query = q.query
	return p
}

func TestProbeMedianOffset(t *testing.T) {
	q := &scriptedQuery{responses: []*ntp.Response{
		testutil.CreateMockNTPResponse(30*time.Millisecond, 2),
		testutil.CreateMockNTPResponse(10*time.Millisecond, 2),
		testutil.CreateMockNTPResponse(20*time.Millisecond, 3),
	}}

	result, err := newTestProber(3, q).Probe(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "time.example.com", result.Server)
	assert.Equal(t, 20*time.Millisecond, result.Offset)
	assert.Equal(t, 20*time.Millisecond, result.RTT)
	assert.Equal(t, uint8(3), result.Stratum)
	assert.Equal(t, 3, result.Samples)
	assert.Equal(t, 3, q.calls)
	assert.Equal(t, 2*time.Second, q.opts.Timeout)
	assert.Equal(t, 4, q.opts.Version)
	assert.Equal(t, []string{"time.example.com", "time.example.com", "time.example.com"}, q.hosts)
}

func TestProbeSkipsFailedAndInvalidSamples(t *testing.T) {
	q := &scriptedQuery{
		responses: []*ntp.Response{
			nil,
			testutil.CreateKoDResponse("RATE"),
			testutil.CreateMockNTPResponse(-5*time.Millisecond, 1),
		},
		errs: []error{errors.New("i/o timeout")},
	}

	result, err := newTestProber(3, q).Probe(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, result.Samples)
	assert.Equal(t, -5*time.Millisecond, result.Offset)
}

func TestProbeAllSamplesFail(t *testing.T) {
	q := &scriptedQuery{
		responses: make([]*ntp.Response, 2),
		errs:      []error{errors.New("refused"), errors.New("refused")},
	}

	result, err := newTestProber(2, q).Probe(context.Background())

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrNoSamples)
	assert.Contains(t, err.Error(), "refused")
}

func TestProbeCancelledContext(t *testing.T) {
	q := &scriptedQuery{responses: []*ntp.Response{testutil.CreateMockNTPResponse(0, 2)}}
	p := NewProber("time.example.com", 2, time.Hour, time.Second, 4)
	p.query = q.query

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := p.Probe(ctx)

	assert.Nil(t, result)
	assert.Error(t, err)
	assert.Equal(t, 0, q.calls)
}

func TestNewProberClampsSamples(t *testing.T) {
	p := NewProber("pool.ntp.org", 0, 0, time.Second, 4)

	assert.Equal(t, 1, p.samples)
	assert.Equal(t, "pool.ntp.org", p.Server())
}

func TestProbeLive(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping network test in short mode")
	}

	result, err := NewProber("pool.ntp.org", 1, 0, 2*time.Second, 4).Probe(context.Background())
	if err != nil {
		t.Skipf("Reference server unreachable: %v", err)
	}
	assert.Equal(t, 1, result.Samples)
}
