// Package config holds the format-agnostic experiment model and the Loader
// interface implemented by format-specific packages. Keeping the model free
// of HCL types means every stage below the loader works on plain Go values
// and can be tested without parsing files.
package config
