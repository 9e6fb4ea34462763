package download

import "testing"

func TestStatus_String(t *testing.T) {
	tests := []struct {
		status   Status
		expected string
	}{
		{Status{Kind: StatusQueued}, "Queued"},
		{Status{Kind: StatusStarting}, "Starting"},
		{Status{Kind: StatusInProgress, Percent: 0}, "0%"},
		{Status{Kind: StatusInProgress, Percent: 42}, "42%"},
		{Status{Kind: StatusInProgress, Percent: 100}, "100%"},
		{Status{Kind: StatusSuccess}, "Success"},
		{Status{Kind: StatusError}, "Error"},
	}
	for _, test := range tests {
		if got := test.status.String(); got != test.expected {
			t.Errorf("Status%+v.String() = %q, expected %q", test.status, got, test.expected)
		}
	}
}

func TestStatus_Terminal(t *testing.T) {
	tests := []struct {
		status   Status
		expected bool
	}{
		{Status{Kind: StatusQueued}, false},
		{Status{Kind: StatusStarting}, false},
		{Status{Kind: StatusInProgress, Percent: 100}, false},
		{Status{Kind: StatusSuccess}, true},
		{Status{Kind: StatusError}, true},
	}
	for _, test := range tests {
		if got := test.status.Terminal(); got != test.expected {
			t.Errorf("Status%+v.Terminal() = %v, expected %v", test.status, got, test.expected)
		}
	}
}
