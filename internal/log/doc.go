// Package log provides secure logging functionality with automatic sanitization
// of sensitive information, built on top of the standard slog package.
//
// Crawls walk identifier graphs extracted from real codebases, and verbose
// logging prints those identifiers: column names, config keys, environment
// variables, connection strings. The SecureHandler masks values that look like
// secrets before they reach the log sink, so even debug output from a crawl of
// a credential-heavy schema stays shareable.
//
// The privacy filter in the crawler package keeps sensitive identifiers out of
// the crawl *result*; this package is the second layer, keeping raw values out
// of the *logs* that are emitted before filtering happens.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, true) // verbose=true
//	logger.Debug("expanding node",
//	    "node", "users.password_hash", // masked
//	    "depth", 2,
//	)
package log
