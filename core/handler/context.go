package handler

import (
	"context"
	"net/http"
)

// Context is the contract request handlers and middleware operate on.
// It extends context.Context with HTTP request/response access, resolved
// path parameters, and request-scoped value storage.
type Context interface {
	context.Context
	Request() *http.Request
	ResponseWriter() http.ResponseWriter
	Param(key string) string
	SetValue(key, val any)
}
