// Package extract unpacks bundled archives.
//
// The installer treats extraction as a black box behind the Extractor
// interface so that hosts and tests can substitute their own engine. The
// default engine, Zip, reads archives with github.com/klauspost/compress/zip,
// a faster drop-in for archive/zip, and reports progress through the two
// optional callbacks carried by Progress.
package extract
