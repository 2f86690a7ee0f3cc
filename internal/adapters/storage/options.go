package storage

import "io/fs"

// Option applies a configuration option to the FileStore.
type Option func(*FileStore)

// WithFileMode sets the permission bits for written blobs.
func WithFileMode(mode fs.FileMode) Option {
	return func(s *FileStore) {
		if mode != 0 {
			s.fileMode = mode
		}
	}
}

// WithDirMode sets the permission bits used when creating the root
// directory.
func WithDirMode(mode fs.FileMode) Option {
	return func(s *FileStore) {
		if mode != 0 {
			s.dirMode = mode
		}
	}
}
