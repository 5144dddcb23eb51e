// Package log records trust-establishment events.
//
// Every key derivation, signature, verification and chain validation can
// report an Event to a Logger: what was attempted, how it ended, which
// public key it concerned (as a SHA-256 digest) and, on failure, the
// structured error. This is separate from operational logging (slog). It
// gives an auditable record of which device keys were accepted or rejected.
//
// # Basic Usage
//
//	// Development: log to console via slog
//	deriver.Logger = log.NewSlogAdapter(slog.Default())
//
//	// Production: append to a binary audit file
//	fl, _ := log.NewFileLogger("/var/log/rkp/trust.rlog")
//	suite := cert.NewSuite(cert.SuiteConfig{Logger: fl})
//
//	// Both
//	deriver.Logger = log.NewMultiLogger(log.NewSlogAdapter(slog.Default()), fl)
//
// Events never carry private keys, shared secrets or derived keys.
//
// # File Format
//
// Log files are CBOR sequences of integer-keyed maps. Reader streams them
// back with optional filtering; the rkp-tool CLI views and summarizes them.
package log
