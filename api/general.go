package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nampwaztaken/skycast-ultra-casino/responses"
)

func (c *SharedController) Ping(context *gin.Context) {
	context.IndentedJSON(http.StatusOK,
		responses.JsonResponse[responses.Ping]{Status: responses.Ok, Data: responses.Ping{Pong: "pong"}})
}

func (c *SharedController) GetLeaderBoard(context *gin.Context) {
	timeBoundaries := context.Param("timeBoundaries")
	if timeBoundaries == "" {
		slog.Error("No time boundaries present")
		var err_msg, _ = json.Marshal(responses.ErrorMessage{Message: "No time boundaries present"})
		context.IndentedJSON(http.StatusInternalServerError,
			responses.JsonResponse[json.RawMessage]{Status: responses.Err, Data: err_msg})
		return
	}

	leaderboard, err := c.Db.FetchBiggestWins(timeBoundaries)
	if err != nil {
		slog.Error("Getting leaderboard", "err", err)
		var err_msg, _ = json.Marshal(responses.ErrorMessage{Message: "Error getting leaderboard"})
		context.IndentedJSON(http.StatusInternalServerError,
			responses.JsonResponse[json.RawMessage]{Status: responses.Err, Data: err_msg})
		return
	}

	response, _ := json.Marshal(leaderboard)
	context.IndentedJSON(http.StatusOK, responses.JsonResponse[json.RawMessage]{Status: responses.Ok, Data: response})
}

func GeneralEndpoints(sCtrl *SharedController, router *gin.Engine) {
	router.GET("/ping", sCtrl.Ping)
	router.GET("/general/leaderboard/:timeBoundaries", sCtrl.GetLeaderBoard)
}
