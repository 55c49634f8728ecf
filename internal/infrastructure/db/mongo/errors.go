package mongo

import (
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
)

// duplicateOn reports whether err is a duplicate key error raised by the
// named unique index.
func duplicateOn(err error, index string) bool {
	return mongo.IsDuplicateKeyError(err) && strings.Contains(err.Error(), index)
}
