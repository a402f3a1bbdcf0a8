// Package report renders crawl results for humans and machines. The JSON
// writer is the stable machine contract; the markdown and simple writers are
// presentation layers over the same result. A MultiWriter fans one result out
// to several destinations (typically terminal plus file).
package report
