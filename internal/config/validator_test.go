package config

import (
	"strings"
	"testing"
)

func TestValidationError_Error(t *testing.T) {
	err := ValidationError{
		Field:   "test.field",
		Value:   123,
		Message: "must be greater than zero",
	}

	expected := "test.field: must be greater than zero (got: 123)"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestValidationErrors_Error(t *testing.T) {
	t.Run("empty errors", func(t *testing.T) {
		var errs ValidationErrors
		if errs.Error() != "" {
			t.Errorf("Error() for empty = %q, want empty string", errs.Error())
		}
	})

	t.Run("single error", func(t *testing.T) {
		errs := ValidationErrors{
			{Field: "test.field", Value: 123, Message: "is invalid"},
		}
		expected := "test.field: is invalid (got: 123)"
		if errs.Error() != expected {
			t.Errorf("Error() = %q, want %q", errs.Error(), expected)
		}
	})

	t.Run("multiple errors", func(t *testing.T) {
		errs := ValidationErrors{
			{Field: "field1", Value: "bad", Message: "is invalid"},
			{Field: "field2", Value: -1, Message: "must be positive"},
		}
		result := errs.Error()
		if !strings.Contains(result, "2 validation errors") {
			t.Errorf("Error() should mention 2 errors: %s", result)
		}
		if !strings.Contains(result, "field1") || !strings.Contains(result, "field2") {
			t.Errorf("Error() should mention both fields: %s", result)
		}
	})
}

func TestConfig_Validate_DefaultConfig(t *testing.T) {
	cfg := Default()
	errs := cfg.Validate()
	if len(errs) != 0 {
		t.Errorf("Default config should be valid, got errors: %v", errs)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		wantField string // empty means valid
	}{
		{
			name:   "descending sort",
			modify: func(c *Config) { c.Grouping.Sort = "desc" },
		},
		{
			name:   "unsorted",
			modify: func(c *Config) { c.Grouping.Sort = "none" },
		},
		{
			name:      "unknown sort",
			modify:    func(c *Config) { c.Grouping.Sort = "random" },
			wantField: "grouping.sort",
		},
		{
			name:      "negative start letters",
			modify:    func(c *Config) { c.Grouping.StartLetters = -1 },
			wantField: "grouping.start_letters",
		},
		{
			name:   "collation tag",
			modify: func(c *Config) { c.Grouping.Collation = "sv-SE" },
		},
		{
			name:      "bad collation tag",
			modify:    func(c *Config) { c.Grouping.Collation = "not a tag!" },
			wantField: "grouping.collation",
		},
		{
			name: "known schema types",
			modify: func(c *Config) {
				c.Data.Schema = map[string]string{"Score": "int", "When": "time", "Ok": "bool"}
			},
		},
		{
			name:      "unknown schema type",
			modify:    func(c *Config) { c.Data.Schema = map[string]string{"Score": "decimal"} },
			wantField: "data.schema.Score",
		},
		{
			name:      "watch without path",
			modify:    func(c *Config) { c.Data.Watch = true },
			wantField: "data.watch",
		},
		{
			name: "watch with path",
			modify: func(c *Config) {
				c.Data.Watch = true
				c.Data.Path = "rows.yaml"
			},
		},
		{
			name:   "column width zero uses default",
			modify: func(c *Config) { c.TUI.ColumnWidth = 0 },
		},
		{
			name:      "column width too small",
			modify:    func(c *Config) { c.TUI.ColumnWidth = MinColumnWidth - 1 },
			wantField: "tui.column_width",
		},
		{
			name:      "column width too large",
			modify:    func(c *Config) { c.TUI.ColumnWidth = MaxColumnWidth + 1 },
			wantField: "tui.column_width",
		},
		{
			name:      "invalid log level",
			modify:    func(c *Config) { c.Logging.Level = "verbose" },
			wantField: "logging.level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			errs := cfg.Validate()

			if tt.wantField == "" {
				if len(errs) != 0 {
					t.Errorf("expected no errors, got %v", errs)
				}
				return
			}
			if len(errs) != 1 {
				t.Fatalf("expected one error on %s, got %v", tt.wantField, errs)
			}
			if errs[0].Field != tt.wantField {
				t.Errorf("error field = %q, want %q", errs[0].Field, tt.wantField)
			}
		})
	}
}

func TestConfig_Validate_CollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Grouping.Sort = "random"
	cfg.TUI.ColumnWidth = 1
	cfg.Logging.Level = "loud"

	if errs := cfg.Validate(); len(errs) != 3 {
		t.Errorf("Validate() returned %d errors, want 3: %v", len(errs), errs)
	}
}
