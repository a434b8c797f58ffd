// Package templates holds the server-rendered pages. Every page defines a
// "content" block rendered inside base.html.
package templates

import "embed"

//go:embed *.html
var files embed.FS

func FS() embed.FS {
	return files
}
