// Package main provides the entry point for the graphcrawl CLI.
//
// Graphcrawl explores relationship graphs inside large codebases (view
// trees, database schemas, import graphs) under hard depth, breadth, time,
// and memory bounds.
//
// Usage:
//
//	graphcrawl crawl --scope code_dependencies src/app.ts
//	graphcrawl history src/app.ts
//
// See --help for all available options.
package main

// main is the entry point for graphcrawl.
func main() {
	Execute()
}
