// Package client talks to the GophAuth server.
//
// Client is implemented twice: HTTPClient against the JSON API and
// GRPCClient against gophauth.AuthService. Both translate server answers
// into the same errors so callers match with errors.Is:
//
//   - common.ErrInvalidInput          the server rejected the input (400 / InvalidArgument)
//   - common.ErrDuplicateUsername     username taken (409 / AlreadyExists)
//   - common.ErrAuthenticationFailed  bad credentials on Login
//   - common.ErrInvalidToken          bad or expired token on Whoami
//   - ErrUnavailable                  the server could not be reached
//
// Server-side failures come back as *ServerError whose Error() is the
// human-readable message the server sent.
//
// The package also opens the local SQLite session database (InitDatabase).
package client
