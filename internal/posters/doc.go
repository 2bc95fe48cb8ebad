// Package posters resolves artwork for notification embeds.
//
// The TVDB integration is a stub: Lookup honors the api-key and enable gates
// but always reports no artwork, and the embed field is simply left absent.
// Do not guess at a lookup protocol here; when a real integration lands it
// replaces this package behind the same function shape.
package posters
