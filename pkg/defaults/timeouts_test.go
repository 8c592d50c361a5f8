package defaults

import (
	"testing"
	"time"
)

func TestTimeoutConstants(t *testing.T) {
	tests := []struct {
		name     string
		timeout  time.Duration
		minValue time.Duration
		maxValue time.Duration
	}{
		{"APIServerTimeout", APIServerTimeout, 10 * time.Second, 5 * time.Minute},
		{"K8sCleanupTimeout", K8sCleanupTimeout, 10 * time.Second, 60 * time.Second},
		{"JobWaitTimeout", JobWaitTimeout, 1 * time.Minute, 1 * time.Hour},
		{"JobPollInterval", JobPollInterval, 1 * time.Second, 2 * time.Minute},
		{"JobWatchTimeout", JobWatchTimeout, 1 * time.Minute, 1 * time.Hour},
		{"HTTPClientTimeout", HTTPClientTimeout, 5 * time.Second, 2 * time.Minute},
		{"HTTPConnectTimeout", HTTPConnectTimeout, 1 * time.Second, 30 * time.Second},
		{"HTTPTLSHandshakeTimeout", HTTPTLSHandshakeTimeout, 1 * time.Second, 30 * time.Second},
		{"HTTPResponseHeaderTimeout", HTTPResponseHeaderTimeout, 1 * time.Second, 1 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.timeout < tt.minValue {
				t.Errorf("%s (%v) is below minimum expected value (%v)", tt.name, tt.timeout, tt.minValue)
			}
			if tt.timeout > tt.maxValue {
				t.Errorf("%s (%v) exceeds maximum expected value (%v)", tt.name, tt.timeout, tt.maxValue)
			}
		})
	}
}

func TestWaitDefaultsRelationships(t *testing.T) {
	if JobPollInterval >= JobWaitTimeout {
		t.Errorf("JobPollInterval (%v) should be less than JobWaitTimeout (%v)",
			JobPollInterval, JobWaitTimeout)
	}
	if LogFetchConcurrency < 1 {
		t.Errorf("LogFetchConcurrency (%d) must be positive", LogFetchConcurrency)
	}
}

func TestHTTPTimeoutRelationships(t *testing.T) {
	if HTTPConnectTimeout >= HTTPClientTimeout {
		t.Errorf("HTTPConnectTimeout (%v) should be less than HTTPClientTimeout (%v)",
			HTTPConnectTimeout, HTTPClientTimeout)
	}
	if HTTPResponseHeaderTimeout >= HTTPClientTimeout {
		t.Errorf("HTTPResponseHeaderTimeout (%v) should be less than HTTPClientTimeout (%v)",
			HTTPResponseHeaderTimeout, HTTPClientTimeout)
	}
}
