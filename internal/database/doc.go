// Package database provides SQLite-based storage for graphcrawl.
//
// This package implements the CrawlDB, which stores:
//   - Crawl records: the full result JSON plus summary columns
//   - Nodes and edges of each crawl for relational queries
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of other
// databases because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. Sufficient performance for our use case
// 4. WAL mode provides good concurrent read performance
//
// The crawl engine never reads this database during a crawl; it is an
// opt-in audit log written after a crawl finishes and read back by the
// history command.
package database
