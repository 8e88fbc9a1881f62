package router

import "github.com/gin-gonic/gin"

// Module describes a feature module that can register its routes on a RouterGroup
type Module interface {
	Register(rg *gin.RouterGroup)
}

// RootModule is implemented by modules that also need routes outside the
// /api group (e.g. provider webhooks on the engine root).
type RootModule interface {
	RegisterRoot(e *gin.Engine)
}
