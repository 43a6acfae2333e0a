package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"

	"stickynote/docs"
)

// RegisterDocs serves the API document at /swagger/*. Host and schemes are
// set once here because the document is shared by all requests.
func RegisterDocs(app *fiber.App, host string, schemes ...string) {
	docs.SwaggerInfo.Host = host
	docs.SwaggerInfo.Schemes = schemes
	app.Get("/swagger/*", swagger.HandlerDefault)
}
