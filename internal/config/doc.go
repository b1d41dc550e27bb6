// Package config provides configuration management for the pipeline.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of
// precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file
//	3. Built-in defaults (lowest priority)
//
// # Environment Variables
//
// All environment variables carry the ICU prefix and follow the
// section_field pattern:
//
//	ICU_LOGGING_LEVEL=debug
//	ICU_PIPELINE_DUPLICATE_POLICY=lenient
//	ICU_PIPELINE_WORKERS=8
//	ICU_LAB_FILE_PATTERN=*gas*
//
// # Category Specification
//
// The clinical category specification lives in its own YAML file so
// wards can maintain parameter lists without touching the tool. See
// LoadCategories and DefaultCategories.
//
// # Validation
//
// All configuration is validated at load time with struct tag rules;
// an invalid duplicate policy or worker count fails the run before any
// file is read.
package config
