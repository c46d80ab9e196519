package config

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/Iron-Ham/groupview/internal/rowset"
	"golang.org/x/text/language"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "grouping.sort")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Column width bounds. 0 means use the default.
const (
	MinColumnWidth = 4
	MaxColumnWidth = 60
)

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateGrouping()...)
	errors = append(errors, c.validateData()...)
	errors = append(errors, c.validateTUI()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

// validateGrouping validates the GroupingConfig
func (c *Config) validateGrouping() []ValidationError {
	var errors []ValidationError

	if c.Grouping.Sort != "" && !IsValidSortDirection(c.Grouping.Sort) {
		errors = append(errors, ValidationError{
			Field:   "grouping.sort",
			Value:   c.Grouping.Sort,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidSortDirections(), ", ")),
		})
	}

	if c.Grouping.StartLetters < 0 {
		errors = append(errors, ValidationError{
			Field:   "grouping.start_letters",
			Value:   c.Grouping.StartLetters,
			Message: "must be non-negative",
		})
	}

	if c.Grouping.Collation != "" {
		if _, err := language.Parse(c.Grouping.Collation); err != nil {
			errors = append(errors, ValidationError{
				Field:   "grouping.collation",
				Value:   c.Grouping.Collation,
				Message: "must be a BCP-47 language tag",
			})
		}
	}

	return errors
}

// validateData validates the DataConfig
func (c *Config) validateData() []ValidationError {
	var errors []ValidationError

	if c.Data.Watch && c.Data.Path == "" {
		errors = append(errors, ValidationError{
			Field:   "data.watch",
			Value:   c.Data.Watch,
			Message: "requires data.path",
		})
	}

	// Sorted so the error order is stable
	fields := make([]string, 0, len(c.Data.Schema))
	for f := range c.Data.Schema {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	for _, f := range fields {
		typeName := c.Data.Schema[f]
		if _, ok := rowset.TypeForName(typeName); !ok {
			errors = append(errors, ValidationError{
				Field:   "data.schema." + f,
				Value:   typeName,
				Message: fmt.Sprintf("must be one of: %s", strings.Join(rowset.SchemaTypeNames(), ", ")),
			})
		}
	}

	return errors
}

// validateTUI validates the TUIConfig
func (c *Config) validateTUI() []ValidationError {
	var errors []ValidationError

	if c.TUI.ColumnWidth != 0 {
		if c.TUI.ColumnWidth < MinColumnWidth {
			errors = append(errors, ValidationError{
				Field:   "tui.column_width",
				Value:   c.TUI.ColumnWidth,
				Message: fmt.Sprintf("must be at least %d columns", MinColumnWidth),
			})
		}
		if c.TUI.ColumnWidth > MaxColumnWidth {
			errors = append(errors, ValidationError{
				Field:   "tui.column_width",
				Value:   c.TUI.ColumnWidth,
				Message: fmt.Sprintf("exceeds maximum of %d columns", MaxColumnWidth),
			})
		}
	}

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	return errors
}
