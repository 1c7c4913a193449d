// Package fetcher downloads and repackages the Unity "Windows Mono Support
// for Editor" installer for a requested editor version.
//
// The pipeline runs strictly in sequence: the release-notes page is scraped
// for the installer link, the installer is downloaded into a scoped staging
// directory, 7-Zip unpacks the installer and then the Payload~ container(s)
// found inside it, the Managed directory is located in the payload tree, and
// its files are written into a flat zip archive keyed by base name.
//
// Every stage fails fast; the only retry anywhere is the single fallback to
// the normalized version when the primary release page is missing.
package fetcher
