package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nampwaztaken/skycast-ultra-casino/responses"
)

const defaultPageSize = 10

// pageSize is PAGE_SIZE from the environment, with a sane default.
func (c *SharedController) pageSize() int {
	if c.Env != nil && c.Env.PageSize > 0 {
		return int(c.Env.PageSize)
	}
	return defaultPageSize
}

func (c *SharedController) GetRounds(context *gin.Context) {
	gameName := context.Param("gameName")

	rounds, err := c.Db.RecentRounds(gameName, c.pageSize())
	if err != nil {
		slog.Error("Error listing rounds", "game", gameName, "err", err)
		var err_msg, _ = json.Marshal(responses.ErrorMessage{Message: "Error listing rounds"})
		context.IndentedJSON(http.StatusInternalServerError,
			responses.JsonResponse[json.RawMessage]{Status: responses.Err, Data: err_msg})
		return
	}

	response, _ := json.Marshal(rounds)
	context.IndentedJSON(http.StatusOK, responses.JsonResponse[json.RawMessage]{Status: responses.Ok, Data: response})
}

func (c *SharedController) GetUserRounds(context *gin.Context) {
	offset := 0
	if strOffset := context.Query("offset"); strOffset != "" {
		parsed, err := strconv.Atoi(strOffset)
		if err != nil || parsed < 0 {
			var err_msg, _ = json.Marshal(responses.ErrorMessage{Message: "bad offset"})
			context.IndentedJSON(http.StatusInternalServerError,
				responses.JsonResponse[json.RawMessage]{Status: responses.Err, Data: err_msg})
			return
		}
		offset = parsed
	}

	userID, err := strconv.Atoi(context.Param("userID"))
	if err != nil {
		var err_msg, _ = json.Marshal(responses.ErrorMessage{Message: err.Error()})
		context.IndentedJSON(http.StatusInternalServerError,
			responses.JsonResponse[json.RawMessage]{Status: responses.Err, Data: err_msg})
		return
	}

	rounds, err := c.Db.UserRounds(uint(userID), c.pageSize(), offset)
	if err != nil {
		slog.Error("Error listing user rounds", "userID", userID, "err", err)
		var err_msg, _ = json.Marshal(responses.ErrorMessage{Message: "Error listing rounds"})
		context.IndentedJSON(http.StatusInternalServerError,
			responses.JsonResponse[json.RawMessage]{Status: responses.Err, Data: err_msg})
		return
	}

	response, _ := json.Marshal(rounds)
	context.IndentedJSON(http.StatusOK, responses.JsonResponse[json.RawMessage]{Status: responses.Ok, Data: response})
}

func RoundsEndpoints(sCtrl *SharedController, router *gin.Engine) {
	router.GET("/rounds/list/:gameName", sCtrl.GetRounds)
	router.GET("/rounds/list", sCtrl.GetRounds)
	router.GET("/rounds/user/:userID", sCtrl.GetUserRounds)
}
