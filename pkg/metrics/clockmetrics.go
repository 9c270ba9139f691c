package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ClockMetrics encapsulates the metrics emitted by one clock check.
// Label-less series are GaugeVecs so nothing is emitted for values the
// run could not observe.
type ClockMetrics struct {
	Verdict       *prometheus.GaugeVec
	CheckSuccess  *prometheus.GaugeVec
	LastCheckTime *prometheus.GaugeVec

	// Kernel time-adjustment state
	KernelSynchronized    *prometheus.GaugeVec
	KernelMaxErrorSeconds *prometheus.GaugeVec
	KernelEstErrorSeconds *prometheus.GaugeVec
	KernelStatus          *prometheus.GaugeVec
	KernelState           *prometheus.GaugeVec

	// Sync daemon lookup
	DaemonRunning *prometheus.GaugeVec

	// Reference probe
	ReferenceOffsetSeconds *prometheus.GaugeVec
	ReferenceUp            *prometheus.GaugeVec
}

// NewClockMetrics creates all clock check metrics under the given namespace
func NewClockMetrics(namespace string) *ClockMetrics {
	gauge := func(name, help string, labels ...string) *prometheus.GaugeVec {
		return prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      name,
				Help:      help,
			},
			labels,
		)
	}

	return &ClockMetrics{
		Verdict:       gauge("verdict", "Clock synchronization verdict of the last check (1 for the current verdict)", "verdict"),
		CheckSuccess:  gauge("check_success", "Whether the kernel time query succeeded (1) or not (0)"),
		LastCheckTime: gauge("last_check_timestamp_seconds", "Unix time of the last check"),

		KernelSynchronized:    gauge("kernel_synchronized", "Kernel reports the clock synchronized (1) or not (0)", "family"),
		KernelMaxErrorSeconds: gauge("kernel_max_error_seconds", "Kernel maximum error bound in seconds"),
		KernelEstErrorSeconds: gauge("kernel_est_error_seconds", "Kernel estimated error in seconds"),
		KernelStatus:          gauge("kernel_status", "Raw kernel timex status word"),
		KernelState:           gauge("kernel_state", "Kernel clock state return code (0 = TIME_OK)"),

		DaemonRunning: gauge("daemon_running", "Whether a recognized sync daemon is running (1) or not (0)", "daemon"),

		ReferenceOffsetSeconds: gauge("reference_offset_seconds", "Median clock offset against the reference server in seconds", "server"),
		ReferenceUp:            gauge("reference_up", "Whether the reference server answered (1) or not (0)", "server"),
	}
}

// SetVerdict marks the current verdict with 1 and every other one with 0
func (m *ClockMetrics) SetVerdict(current string, all []string) {
	for _, v := range all {
		value := 0.0
		if v == current {
			value = 1
		}
		m.Verdict.WithLabelValues(v).Set(value)
	}
}

// SetKernelState records one kernel snapshot
func (m *ClockMetrics) SetKernelState(family string, synchronized bool, maxErrSeconds, estErrSeconds float64, status int32, state int) {
	m.KernelSynchronized.WithLabelValues(family).Set(boolToFloat(synchronized))
	m.KernelMaxErrorSeconds.WithLabelValues().Set(maxErrSeconds)
	m.KernelEstErrorSeconds.WithLabelValues().Set(estErrSeconds)
	m.KernelStatus.WithLabelValues().Set(float64(status))
	m.KernelState.WithLabelValues().Set(float64(state))
}

// SetDaemon marks the running daemon with 1 and every other known one with 0
func (m *ClockMetrics) SetDaemon(running string, known []string) {
	for _, name := range known {
		m.DaemonRunning.WithLabelValues(name).Set(boolToFloat(name == running))
	}
}

// SetReference records the reference probe outcome
func (m *ClockMetrics) SetReference(server string, up bool, offsetSeconds float64) {
	m.ReferenceUp.WithLabelValues(server).Set(boolToFloat(up))
	if up {
		m.ReferenceOffsetSeconds.WithLabelValues(server).Set(offsetSeconds)
	}
}

// SetCheckSuccess records whether the kernel query succeeded and stamps the run time
func (m *ClockMetrics) SetCheckSuccess(ok bool) {
	m.CheckSuccess.WithLabelValues().Set(boolToFloat(ok))
	m.LastCheckTime.WithLabelValues().SetToCurrentTime()
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// getAllMetrics returns all metric collectors
func (m *ClockMetrics) getAllMetrics() []prometheus.Collector {
	return []prometheus.Collector{
		m.Verdict,
		m.CheckSuccess,
		m.LastCheckTime,
		m.KernelSynchronized,
		m.KernelMaxErrorSeconds,
		m.KernelEstErrorSeconds,
		m.KernelStatus,
		m.KernelState,
		m.DaemonRunning,
		m.ReferenceOffsetSeconds,
		m.ReferenceUp,
	}
}

// Describe implements prometheus.Collector interface
func (m *ClockMetrics) Describe(ch chan<- *prometheus.Desc) {
	for _, metric := range m.getAllMetrics() {
		metric.Describe(ch)
	}
}

// Collect implements prometheus.Collector interface
func (m *ClockMetrics) Collect(ch chan<- prometheus.Metric) {
	for _, metric := range m.getAllMetrics() {
		metric.Collect(ch)
	}
}
