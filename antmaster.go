// Package antmaster provides an "ask an expert" query router over an ant
// species catalog. Queries arrive as JSON-RPC calls over a persistent
// WebSocket (or plain HTTP), are classified by a rule cascade, resolved
// against the catalog with fuzzy name matching, and otherwise delegated to
// a knowledge backend (a large language model) with catalog context.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, gemini/, websocket/).
package antmaster
