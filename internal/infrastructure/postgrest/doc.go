// Package postgrest is a client for a hosted table exposed through a PostgREST
// compatible HTTP API, the dialect spoken by Supabase.
//
// Only the two calls the registry needs are implemented: a full-table select and a
// single-row insert. Requests carry the project key both as the apikey header and as
// a bearer token. Non-2xx responses become *APIError; nothing is retried.
package postgrest
