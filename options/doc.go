// Package options models the per-request Options bundle and the static,
// process-start Settings record.
//
// Options is parsed from a JSON map rather than accepted as a raw map
// throughout the pipeline: every recognized key gets a defaulted,
// range-validated struct field, and an unrecognized key is rejected with a
// routeerrors.KindBadRequest error at parse time, so no downstream package
// ever has to re-validate or guess a default.
package options
