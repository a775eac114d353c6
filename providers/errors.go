package providers

import "errors"

var (
	// ErrAuthTokenIsRequired is returned if you are trying to initialize
	// a provider which requires some token to work.
	ErrAuthTokenIsRequired = errors.New("auth token is required")

	// ErrProviderFailed is returned if upstream has responded with
	// a correct HTTP response but reports that it cannot resolve an
	// address.
	ErrProviderFailed = errors.New("provider has failed to resolve an address")

	// ErrUnknownIP is returned by offline providers which have no
	// record for the address.
	ErrUnknownIP = errors.New("unknown ip address")

	// ErrDatabaseIsNotReadyYet returns if you are trying to access
	// an offline provider but it has no opened database. For example,
	// it was shutdown already.
	ErrDatabaseIsNotReadyYet = errors.New("database is not initialized yet")

	// ErrDatabasePathIsRequired is returned if mmdb provider has no
	// path to the city database.
	ErrDatabasePathIsRequired = errors.New("path to the database is required")
)
