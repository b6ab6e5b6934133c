package handlers

import (
	"fmt"
	"html"

	"github.com/gofiber/fiber/v2"
)

// ShellHandler serves the application shell for page navigations that the
// route guard allowed. Rendering the actual UI is out of scope for the
// gateway; the shell is the placeholder the frontend bundle mounts into.
type ShellHandler struct{}

// NewShellHandler creates a new shell handler
func NewShellHandler() *ShellHandler {
	return &ShellHandler{}
}

const shellPage = `<!doctype html>
<html>
<head><meta charset="utf-8"><title>FinFlow</title></head>
<body><div id="app" data-path="%s"></div></body>
</html>`

// Page serves the shell for the requested path
func (h *ShellHandler) Page(c *fiber.Ctx) error {
	c.Type("html")
	return c.SendString(fmt.Sprintf(shellPage, html.EscapeString(c.Path())))
}
