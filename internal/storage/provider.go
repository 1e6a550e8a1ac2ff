// Package storage defines the output-artifact store: the directory the
// sync pipeline writes its JSON files into and the rewriter reads its
// local fallbacks from.
package storage

// Provider is the interface for artifact file operations. Paths are
// relative to the artifact root.
type Provider interface {
	// Read returns the raw bytes of the artifact at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path, creating intermediate
	// directories as needed.
	Write(path string, content []byte) error
	// Checksum returns the hex SHA-256 of the artifact at path.
	Checksum(path string) (string, error)
}
