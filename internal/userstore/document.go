package userstore

import (
	"bytes"
	"errors"
	"fmt"

	"tunelib/internal/wire"
)

const usersSection = "users"

// decodeUsers reads the users document. On a syntax error it still returns
// every entry that carries its credentials.
func decodeUsers(data []byte) ([]Record, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	root, parseErr := wire.Parse(data)
	if root.Kind != wire.KindObject {
		if parseErr != nil {
			return nil, parseErr
		}
		return nil, fmt.Errorf("users document is %s, not an object", root.Kind)
	}
	users, ok := root.Get(usersSection)
	if !ok || users.Kind != wire.KindArray {
		return nil, errors.Join(parseErr, errors.New("users document has no users array"))
	}

	var records []Record
	for _, entry := range users.Items {
		rec, ok := decodeUser(entry)
		if !ok {
			continue
		}
		records = append(records, rec)
	}
	return records, parseErr
}

func decodeUser(entry wire.Value) (Record, bool) {
	if entry.Kind != wire.KindObject {
		return Record{}, false
	}
	var rec Record
	for field, dst := range map[string]*string{
		"username":       &rec.Username,
		"salt":           &rec.Salt,
		"hashedPassword": &rec.PasswordHash,
	} {
		v, ok := entry.Get(field)
		if !ok {
			return Record{}, false
		}
		text, ok := v.Scalar()
		if !ok {
			return Record{}, false
		}
		*dst = text
	}
	if rec.Username == "" {
		return Record{}, false
	}
	if lib, ok := entry.Get("library"); ok {
		switch lib.Kind {
		case wire.KindObject:
			rec.Library = wire.Marshal(lib)
		case wire.KindString:
			rec.Library = []byte(lib.Text)
		}
	}
	return rec, true
}

func encodeUsers(records []Record) []byte {
	items := make([]wire.Value, 0, len(records))
	for _, rec := range records {
		items = append(items, wire.Object(
			wire.Field("username", wire.String(rec.Username)),
			wire.Field("salt", wire.String(rec.Salt)),
			wire.Field("hashedPassword", wire.String(rec.PasswordHash)),
			wire.Field("library", libraryValue(rec.Library)),
		))
	}
	return wire.Marshal(wire.Object(wire.Field(usersSection, wire.Array(items...))))
}

// libraryValue embeds well-formed library text as a nested object and falls
// back to a quoted string otherwise, so nothing the caller stored is lost.
func libraryValue(data []byte) wire.Value {
	if len(bytes.TrimSpace(data)) == 0 {
		return wire.Object()
	}
	v, err := wire.Parse(data)
	if err != nil || v.Kind != wire.KindObject {
		return wire.String(string(data))
	}
	return v
}
