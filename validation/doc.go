// Package validation wraps go-playground/validator for config sections and
// request bodies, and offers a small programmatic Validator for cross-field
// checks. Both report failures as INVALID_INPUT AppErrors with per-field
// details.
//
//	type Section struct {
//	    Workers int `mapstructure:"workers" validate:"min=1"`
//	}
//	err := validation.Struct(&section)
package validation
