// Package backend locates and opens the byte streams behind engine handles.
//
// A Backend resolves a logical name plus a format.Kind to a stream.Stream.
// Resolution tries the literal name first and then the kind's suffixes (see
// format.Candidates). Concrete backends:
//
//   - Dir: a directory tree through go-billy (local disk or memory)
//   - Zip: a zip bundle, stored entries served without copying
//   - Stargz: an eStargz bundle opened through its table of contents,
//     locally or over HTTP range requests
//   - Git: files from a commit tree of a git repository
//   - Object: an S3-compatible bucket through minio-go
//   - Kpsewhich: names resolved by an external kpsewhich program
//   - Filter: restricts another backend to names matching glob patterns
//   - Chain: searches several backends in order
//
// # Contract
//
//   - A name that does not resolve fails with errors.CodeNotFound. Chain
//     relies on this to move on to the next backend.
//   - Backends that cannot create outputs fail with errors.CodeUnsupported.
//   - Every returned stream is owned by the caller, who must close it.
//   - Backends are not safe for concurrent use unless stated otherwise; the
//     engine serializes access.
package backend
