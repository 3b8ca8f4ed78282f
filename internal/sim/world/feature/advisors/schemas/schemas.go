// Package schemas embeds the six advisor stages' JSON Schema documents so
// a deployed binary can validate advisor output without the source tree
// present on disk.
package schemas

import "embed"

//go:embed *.schema.json
var FS embed.FS
