// Package config defines settings used by the fetcher and provides helpers
// to load, validate and save them in YAML format.
//
// The Config type holds the archiver location, the staging directory and
// the URLs the pipeline talks to. Command-line flags override loaded values.
package config
