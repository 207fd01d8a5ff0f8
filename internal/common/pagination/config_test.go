package pagination_test

import (
	"testing"

	"oed-api/internal/common/pagination"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	config := pagination.DefaultConfig()

	if config.AutoThreshold != 1000 {
		t.Errorf("DefaultConfig() AutoThreshold = %d, want 1000", config.AutoThreshold)
	}
	if err := config.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v, want nil", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		threshold int
		wantError bool
	}{
		{name: "positive", threshold: 10, wantError: false},
		{name: "one", threshold: 1, wantError: false},
		{name: "zero", threshold: 0, wantError: true},
		{name: "negative", threshold: -5, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := pagination.Config{AutoThreshold: tt.threshold}.Validate()
			if (err != nil) != tt.wantError {
				t.Errorf("Validate() error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}
