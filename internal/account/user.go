package account

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"tunelib/internal/library"
	"tunelib/internal/textutil"
	"tunelib/internal/userstore"
	"tunelib/internal/wire"
)

const saltBytes = 16

var (
	ErrEmptyUsername = errors.New("username must not be empty")
	ErrEmptyPassword = errors.New("password must not be empty")
)

// User is an account and its library.
type User struct {
	Name         string
	Salt         string
	PasswordHash string
	Library      *library.Library
}

// New creates a user with a fresh salt and an empty library. A name that is
// not valid UTF-8 is converted the same way the store will write it.
func New(name, password string) (*User, error) {
	name = textutil.ValidUTF8(name)
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyUsername
	}
	if password == "" {
		return nil, ErrEmptyPassword
	}
	salt, err := NewSalt()
	if err != nil {
		return nil, err
	}
	return &User{
		Name:         name,
		Salt:         salt,
		PasswordHash: HashPassword(password, salt),
		Library:      library.New(),
	}, nil
}

// NewSalt returns 16 random bytes, base64 encoded.
func NewSalt() (string, error) {
	buf := make([]byte, saltBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}

// HashPassword returns hex(SHA-256(password + salt)).
func HashPassword(password, salt string) string {
	sum := sha256.Sum256([]byte(password + salt))
	return hex.EncodeToString(sum[:])
}

// CheckPassword reports whether password matches the stored hash.
func (u *User) CheckPassword(password string) bool {
	got := HashPassword(password, u.Salt)
	return subtle.ConstantTimeCompare([]byte(got), []byte(strings.ToLower(u.PasswordHash))) == 1
}

// FromRecord rebuilds a user from a store record. The user is returned even
// when the library cannot be decoded; the report and error describe what
// was lost.
func FromRecord(rec userstore.Record) (*User, *wire.Report, error) {
	u := &User{Name: rec.Username, Salt: rec.Salt, PasswordHash: rec.PasswordHash}
	lib, report, err := wire.UnmarshalLibrary(rec.Library)
	u.Library = lib
	if err != nil {
		return u, report, fmt.Errorf("decode library of %q: %w", rec.Username, err)
	}
	return u, report, nil
}

// Record converts u into a store record carrying the encoded library.
func (u *User) Record() (userstore.Record, error) {
	if strings.TrimSpace(u.Name) == "" {
		return userstore.Record{}, ErrEmptyUsername
	}
	lib := u.Library
	if lib == nil {
		lib = library.New()
	}
	return userstore.Record{
		Username:     u.Name,
		Salt:         u.Salt,
		PasswordHash: u.PasswordHash,
		Library:      wire.MarshalLibrary(lib),
	}, nil
}
