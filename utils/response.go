package utils

import "github.com/gin-gonic/gin"

// JSONSuccess writes the success envelope every handler responds with.
func JSONSuccess(c *gin.Context, code int, data interface{}) {
	c.JSON(code, gin.H{"success": true, "data": data})
}

// JSONError writes the error envelope; message comes from the Msg* constants
// for anything a client is expected to match on.
func JSONError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"success": false, "error": message})
}
