// Package normalisers provides document parsing: each normaliser
// converts one file format to plain text ready for chunking. The
// registry selects a normaliser by file extension and rejects
// unsupported types before any text reaches the chunker.
package normalisers
