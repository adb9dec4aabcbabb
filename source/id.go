package source

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/arthur-debert/dispatchgrid/types"
)

// Namespace seeds the content ids of records without an id field
var Namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/arthur-debert/dispatchgrid/rows"))

// IDOf returns a row identity function reading field. Records where field
// is blank get a UUID derived from their content, so the id is stable
// across reloads of an unchanged file.
func IDOf(field string) func(Record) string {
	return func(rec Record) string {
		if field != "" {
			if id := types.Stringify(types.ResolveField(rec, field)); id != "" {
				return id
			}
		}
		return ContentID(rec)
	}
}

// ContentID is the UUIDv5 of the record's canonical JSON encoding.
// encoding/json writes map keys sorted, which makes the encoding canonical.
func ContentID(rec Record) string {
	data, err := json.Marshal(rec)
	if err != nil {
		return uuid.NewSHA1(Namespace, []byte(types.Stringify(rec))).String()
	}
	return uuid.NewSHA1(Namespace, data).String()
}
