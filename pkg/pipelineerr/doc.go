// Package pipelineerr models the pipeline's error kinds as tagged values
// rather than relying on exceptions-as-control-flow or string-sniffed
// errors, per the "Source patterns requiring redesign" notes: callers
// inspect Kind to decide whether to degrade, contain the failure to one
// tile/candidate/batch, or propagate it to the HTTP response.
package pipelineerr
