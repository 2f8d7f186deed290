// Command libtexio builds the texio I/O engine as a C shared library
// exporting the ttstub_* interface:
//
//	go build -buildmode=c-shared -o libtexio.so ./cmd/libtexio
//
// Call texio_init with the path of a configuration file before any other
// function and texio_shutdown when done. Until texio_init succeeds every
// ttstub_* function returns its failure value.
package main

func main() {}
