// Package config loads the process-wide pipeline configuration described in
// spec.md §6, either from the environment (the HTTP service entry point,
// cmd/planserver) or from a YAML file (the batch entry point, cmd/plancli),
// in the teacher's own config style: one struct, a constructor with
// defaults, and a Validate method.
package config
