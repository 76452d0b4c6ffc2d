package assets

import _ "embed"

// FallbackIcon is the placeholder image served whenever a real icon cannot be
// produced (invalid domain, blocked host, download failure). Shipping it inside
// the binary keeps the resolve path infallible.
//
//go:embed fallback-icon.png
var FallbackIcon []byte
