// Package surreal is a small client for the SurrealDB HTTP interface. It
// covers the /sql endpoint and the /key/{table}[/{id}] record endpoints:
// every call is a single authenticated request whose JSON envelope is
// validated and unwrapped into records or returned as a typed *Error.
//
// The Client holds only immutable connection settings and is safe for
// concurrent use. It performs no retries, pooling policy or caching beyond
// what the underlying HTTP transport does.
package surreal
