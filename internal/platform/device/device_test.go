package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const chromeUA = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
const iphoneUA = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"

func TestComputeFingerprint(t *testing.T) {
	svc := NewService(true)

	t.Run("stable for the same user agent", func(t *testing.T) {
		first := svc.ComputeFingerprint(chromeUA)
		second := svc.ComputeFingerprint(chromeUA)

		assert.NotEmpty(t, first)
		assert.Equal(t, first, second)
	})

	t.Run("differs across devices", func(t *testing.T) {
		assert.NotEqual(t, svc.ComputeFingerprint(chromeUA), svc.ComputeFingerprint(iphoneUA))
	})

	t.Run("empty user agent yields empty fingerprint", func(t *testing.T) {
		assert.Empty(t, svc.ComputeFingerprint(""))
	})

	t.Run("disabled service yields empty fingerprint", func(t *testing.T) {
		assert.Empty(t, NewService(false).ComputeFingerprint(chromeUA))
	})
}

func TestParseUserAgent(t *testing.T) {
	tests := []struct {
		name      string
		userAgent string
		assertion func(t *testing.T, result string)
	}{
		{
			name:      "empty user agent returns unknown device",
			userAgent: "",
			assertion: func(t *testing.T, result string) {
				assert.Equal(t, "Unknown Device", result)
			},
		},
		{
			name:      "chrome on desktop",
			userAgent: chromeUA,
			assertion: func(t *testing.T, result string) {
				assert.Contains(t, result, "Chrome")
				assert.Contains(t, result, "on")
			},
		},
		{
			name:      "safari on iphone includes platform",
			userAgent: iphoneUA,
			assertion: func(t *testing.T, result string) {
				assert.Contains(t, result, "iPhone")
			},
		},
		{
			name:      "unknown user agent returns formatted string",
			userAgent: "Unknown/1.0",
			assertion: func(t *testing.T, result string) {
				assert.Contains(t, result, "on")
				assert.NotEmpty(t, result)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.assertion(t, ParseUserAgent(tt.userAgent))
		})
	}
}
