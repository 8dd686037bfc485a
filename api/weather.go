package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nampwaztaken/skycast-ultra-casino/requests"
	"github.com/nampwaztaken/skycast-ultra-casino/responses"
)

func (c *SharedController) GetWeather(context *gin.Context) {
	city := context.Param("city")

	data, err := c.Insight.CurrentWeather(context.Request.Context(), city)
	if err != nil {
		slog.Error("Weather lookup failed", "city", city, "err", err)
		var err_msg, _ = json.Marshal(responses.ErrorMessage{Message: "City not found in datastream"})
		context.IndentedJSON(http.StatusInternalServerError,
			responses.JsonResponse[json.RawMessage]{Status: responses.Err, Data: err_msg})
		return
	}

	response, _ := json.Marshal(data)
	context.IndentedJSON(http.StatusOK, responses.JsonResponse[json.RawMessage]{Status: responses.Ok, Data: response})
}

// GetAdvisory builds the flavor-text advisory for an already fetched
// snapshot. Condition and temperature ride in as query parameters.
func (c *SharedController) GetAdvisory(context *gin.Context) {
	city := context.Param("city")
	condition := context.Query("condition")
	temp, err := strconv.Atoi(context.DefaultQuery("temp", "20"))
	if err != nil {
		var err_msg, _ = json.Marshal(responses.ErrorMessage{Message: "bad temperature"})
		context.IndentedJSON(http.StatusInternalServerError,
			responses.JsonResponse[json.RawMessage]{Status: responses.Err, Data: err_msg})
		return
	}

	text := c.Insight.WeatherAdvisory(context.Request.Context(), city, condition, temp)
	context.IndentedJSON(http.StatusOK,
		responses.JsonResponse[responses.Fortune]{Status: responses.Ok, Data: responses.Fortune{Text: text}})
}

// UnlockLobby gates the casino screen behind the lobby code typed into the
// weather search box.
func (c *SharedController) UnlockLobby(context *gin.Context) {
	var req requests.UnlockLobby
	if err := context.BindJSON(&req); err != nil {
		var err_msg, _ = json.Marshal(responses.ErrorMessage{Message: err.Error()})
		context.IndentedJSON(http.StatusInternalServerError,
			responses.JsonResponse[json.RawMessage]{Status: responses.Err, Data: err_msg})
		return
	}

	if req.Code != c.Env.LobbyCode {
		var err_msg, _ = json.Marshal(responses.ErrorMessage{Message: "Unknown code"})
		context.IndentedJSON(http.StatusUnauthorized,
			responses.JsonResponse[json.RawMessage]{Status: responses.Err, Data: err_msg})
		return
	}

	context.IndentedJSON(http.StatusOK,
		responses.JsonResponse[string]{Status: responses.Ok, Data: "Lobby unlocked"})
}

func WeatherEndpoints(sCtrl *SharedController, router *gin.Engine) {
	router.GET("/weather/:city", sCtrl.GetWeather)
	router.GET("/weather/:city/advisory", sCtrl.GetAdvisory)
	router.POST("/lobby/unlock", sCtrl.UnlockLobby)
}
