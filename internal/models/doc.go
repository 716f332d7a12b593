// Package models lists the models offered by the configured API endpoint
// so users can pick a value for model_name.
package models
