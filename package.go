// Scope2go is a Go-based bridge to the ModelScope inference API for
// node-graph image hosts. It wraps the asynchronous generation task
// protocol (submit, poll, download), image editing with URL-or-inline
// source payloads, and the OpenAI-compatible text and vision endpoints,
// exposing them as host-friendly node adapters with typed input schemas.
package scope2go
