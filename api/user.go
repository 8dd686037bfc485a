package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nampwaztaken/skycast-ultra-casino/db"
	"github.com/nampwaztaken/skycast-ultra-casino/responses"
)

func (c *SharedController) GetUser(context *gin.Context) {
	userID, err := strconv.Atoi(context.Param("userID"))
	if err != nil {
		var err_msg, _ = json.Marshal(responses.ErrorMessage{Message: "bad user id"})
		context.IndentedJSON(http.StatusInternalServerError,
			responses.JsonResponse[json.RawMessage]{Status: responses.Err, Data: err_msg})
		return
	}

	var user db.User
	if err := c.Db.Where("id = ?", userID).First(&user).Error; err != nil {
		slog.Error("User not found", "userID", userID, "err", err)
		var err_msg, _ = json.Marshal(responses.ErrorMessage{Message: "User not found"})
		context.IndentedJSON(http.StatusInternalServerError,
			responses.JsonResponse[json.RawMessage]{Status: responses.Err, Data: err_msg})
		return
	}

	response, _ := json.Marshal(responses.User{
		ID:               user.ID,
		RegistrationTime: user.RegistrationTime,
		Username:         user.Username,
	})
	context.IndentedJSON(http.StatusOK, responses.JsonResponse[json.RawMessage]{Status: responses.Ok, Data: response})
}

// GetProfile returns the caller's balance snapshot from the account store.
func (c *SharedController) GetProfile(context *gin.Context) {
	sub := context.GetString("sub")
	userID, err := strconv.Atoi(sub)
	if err != nil {
		var err_msg, _ = json.Marshal(responses.ErrorMessage{Message: "bad user id"})
		context.IndentedJSON(http.StatusInternalServerError,
			responses.JsonResponse[json.RawMessage]{Status: responses.Err, Data: err_msg})
		return
	}

	profile, err := c.Store.GetProfile(context.Request.Context(), uint(userID))
	if err != nil {
		slog.Error("Profile not found", "userID", userID, "err", err)
		var err_msg, _ = json.Marshal(responses.ErrorMessage{Message: "Profile not found"})
		context.IndentedJSON(http.StatusInternalServerError,
			responses.JsonResponse[json.RawMessage]{Status: responses.Err, Data: err_msg})
		return
	}

	response, _ := json.Marshal(responses.Profile{
		UserID:  profile.UserID,
		Balance: profile.Balance,
		LastWin: profile.LastWin,
	})
	context.IndentedJSON(http.StatusOK, responses.JsonResponse[json.RawMessage]{Status: responses.Ok, Data: response})
}

func UserEndpoints(sCtrl *SharedController, router *gin.Engine) {
	router.GET("/user/:userID", sCtrl.GetUser)
	router.GET("/profile", AuthMiddleware(), sCtrl.GetProfile)
}
