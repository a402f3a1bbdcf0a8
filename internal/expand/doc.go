// Package expand provides the built-in expansion adapters the CLI hands to
// the crawl engine. Each adapter implements crawler.Expander for one scope:
// a directory walker for view/file structure and a lightweight import scanner
// for code dependency graphs. The engine itself never imports this package;
// hosts embedding the crawler library supply their own adapters instead.
package expand
