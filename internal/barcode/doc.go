// Package barcode exposes ECC200 Data Matrix decoding behind a small,
// format-tagged result type. It wraps internal/datamatrix directly rather
// than dispatching to a pluggable backend: this module has exactly one
// symbology, so a backend interface would only add an indirection with a
// single implementation.
package barcode
