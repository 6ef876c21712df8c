// Package content loads editions, themes and column bodies from the
// registry and memoizes what it has parsed.
//
// Edition configs and themes are cached for the life of the process once
// they load successfully. Concurrent requests for the same edition share a
// single read. Failed loads are never cached, so a fixed file is picked up
// on the next request.
//
// Column bodies are read on demand. Callers that only render text use
// ColumnBody, which turns every failure into an empty body.
package content
