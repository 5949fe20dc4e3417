package response

import "github.com/gin-gonic/gin"

// ErrorBody is the error envelope every failing route returns. Successful
// responses are plain JSON values (the message, the array, the user id).
type ErrorBody struct {
	Message string `json:"message"`
}

func Error(c *gin.Context, httpStatus int, message string) {
	c.JSON(httpStatus, ErrorBody{Message: message})
}
