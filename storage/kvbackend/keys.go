package kvbackend

import (
	"strings"

	"github.com/pkg/errors"
)

// splitKey splits a storage key into the bucket and the key within it. The
// bucket is everything up to the last slash.
//
//   ns/proj/type:name
//   ->
//   bucket: ns/proj
//   key:    type:name
func splitKey(input string) (bucket, key string, err error) {
	if strings.HasPrefix(input, "/") {
		return "", "", errors.New("key cannot start with a slash")
	}
	if strings.HasSuffix(input, "/") {
		return "", "", errors.New("key cannot end with a slash")
	}
	i := strings.LastIndex(input, "/")
	if i < 0 {
		return "", "", errors.Errorf("key %q has no bucket", input)
	}
	return input[:i], input[i+1:], nil
}
