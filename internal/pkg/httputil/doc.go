// Package httputil provides shared HTTP response/request helpers for the
// cut sheet handlers, so every endpoint returns the same error envelope.
package httputil
