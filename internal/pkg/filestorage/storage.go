package filestorage

import "errors"

// ErrBlobNotFound is returned when a named blob does not exist
var ErrBlobNotFound = errors.New("blob not found")

// BlobStorage stores whole named blobs. Writes replace the previous content.
type BlobStorage interface {
	// Read returns the content of the blob or ErrBlobNotFound
	Read(name string) ([]byte, error)

	// Write replaces the blob content
	Write(name string, data []byte) error

	// Delete removes the blob, a missing blob is not an error
	Delete(name string) error

	// List returns the names of all stored blobs
	List() ([]string, error)
}
