package api

import (
	"os"

	"github.com/gin-gonic/gin"
)

// ServeStaticFiles mounts the stylesheet directory when it exists. Tests and
// stripped deployments run without one.
func ServeStaticFiles(router *gin.Engine, dir string) {
	if _, err := os.Stat(dir); err == nil {
		router.Static("/static", dir)
	}
}
