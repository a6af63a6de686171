package validation

import (
	"strings"
)

// InputValidationResult describes a raw input string before it is parsed.
// Warnings flag input that is accepted but probably not what the user meant.
type InputValidationResult struct {
	Empty      bool
	FieldCount int
	EmptyCount int
	Warnings   []string
}

// ValidateInput inspects raw without parsing it. Hard failures are left to
// the tokenizer; this only reports suspicious shapes.
func ValidateInput(raw string) *InputValidationResult {
	result := &InputValidationResult{
		Warnings: []string{},
	}

	if raw == "" {
		result.Empty = true
		return result
	}

	fields := strings.Split(raw, ";")
	result.FieldCount = len(fields)

	for _, field := range fields {
		if strings.Trim(field, " ") == "" {
			result.EmptyCount++
		}
	}

	if result.EmptyCount == result.FieldCount {
		result.Warnings = append(result.Warnings, "Input contains no values - only delimiters and spaces")
	} else if result.EmptyCount > 0 {
		result.Warnings = append(result.Warnings, "Empty fields will be skipped")
	}

	if strings.ContainsAny(raw, "\t\r\n") {
		result.Warnings = append(result.Warnings, "Tabs and line breaks are not trimmed and will fail integer parsing")
	}

	if !strings.Contains(raw, ";") && strings.ContainsAny(strings.Trim(raw, " "), " ,") {
		result.Warnings = append(result.Warnings, "Values must be separated by ';', not spaces or commas")
	}

	return result
}
