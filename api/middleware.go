package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nampwaztaken/skycast-ultra-casino/auth"
	"github.com/nampwaztaken/skycast-ultra-casino/responses"
)

func SetMiddlewareJSON() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Set("Content-Type", "application/json")
		ctx.Next()
	}
}

func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func Auth(context *gin.Context, secretKey string) (string, error) {
	tokenString := context.GetHeader("Authorization")
	if tokenString == "" {
		slog.Error("No token supplied")
		var err_msg, _ = json.Marshal(responses.ErrorMessage{Message: "Token is not present"})
		context.IndentedJSON(http.StatusUnauthorized,
			responses.JsonResponse[json.RawMessage]{Status: responses.Err, Data: err_msg})
		return "", errors.New("Unauthorized")
	}

	tokenString = strings.TrimPrefix(tokenString, "Bearer ")

	claims, err := auth.VerifyToken(tokenString, []byte(secretKey))
	if err != nil {
		slog.Error("Error verifying token", "err", err)
		var err_msg, _ = json.Marshal(responses.ErrorMessage{Message: err.Error()})
		context.IndentedJSON(http.StatusUnauthorized,
			responses.JsonResponse[json.RawMessage]{Status: responses.Err, Data: err_msg})
		return "", errors.New("Unauthorized")
	}

	sub, _ := claims.GetSubject()
	return sub, nil
}

func AuthMiddleware() gin.HandlerFunc {
	authSecretKey := os.Getenv("PASSWORD_SALT")
	return func(c *gin.Context) {
		sub, err := Auth(c, authSecretKey)
		if err != nil {
			c.AbortWithStatus(401)
			return
		}
		c.Set("sub", sub)
		c.Next()
	}
}
