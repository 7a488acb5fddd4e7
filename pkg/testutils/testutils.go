// Package testutils provides helpers shared by the HTTP tests.
package testutils

import (
	"bytes"
	"net/http"
	"net/http/httptest"

	"github.com/gofiber/fiber/v2"
)

// MakeRequestWithApp is a helper for making HTTP requests against a
// standalone fiber app in tests.
func MakeRequestWithApp(app *fiber.App, method, path, body string) *http.Response {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	resp, err := app.Test(req, 1000000)
	if err != nil {
		panic(err) // For standalone tests, panic on error
	}
	return resp
}
