package middleware

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

// Compression gzips responses for clients that accept it, except the docs UI
func Compression(enabled bool) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) { c.Next() }
	}
	return gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/swagger/"}))
}
