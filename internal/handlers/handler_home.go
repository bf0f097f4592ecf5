package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetHome godoc
// @Summary Service banner
// @Description Returns a plain service identification string
// @Tags home
// @Produce plain
// @Success 200 {string} string "lma-backend"
// @Router /example/helloworld [get]
func GetHome(c *gin.Context) {
	c.String(http.StatusOK, "lma-backend")
}
