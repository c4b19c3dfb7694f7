// Package dbkeys namespaces keys by bucket, so every datastructure
// store can share one underlying key-value engine without key
// collisions.
package dbkeys

import "github.com/tos-network/tos-sub006/domain/consensus/model"

// Bucket is a namespace prefix for a family of keys.
type Bucket struct {
	path []byte
}

// MakeBucket creates a bucket rooted at the given path segments.
func MakeBucket(path ...[]byte) *Bucket {
	var joined []byte
	for _, segment := range path {
		joined = append(joined, segment...)
		joined = append(joined, '/')
	}
	return &Bucket{path: joined}
}

// Key returns the bucket-prefixed key for suffix.
func (b *Bucket) Key(suffix []byte) model.DBKey {
	key := make([]byte, 0, len(b.path)+len(suffix))
	key = append(key, b.path...)
	key = append(key, suffix...)
	return model.DBKey(key)
}

// Path returns the bucket's raw path prefix.
func (b *Bucket) Path() []byte {
	return b.path
}
