package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nampwaztaken/skycast-ultra-casino/auth"
	"github.com/nampwaztaken/skycast-ultra-casino/db"
	"github.com/nampwaztaken/skycast-ultra-casino/requests"
	"github.com/nampwaztaken/skycast-ultra-casino/responses"
)

var namePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

func (c *SharedController) Login(context *gin.Context) {
	var submittedCredentials requests.Login

	if err := context.BindJSON(&submittedCredentials); err != nil {
		slog.Error("Parsing login data error", "err", err)
		var err_msg, _ = json.Marshal(responses.ErrorMessage{Message: err.Error()})
		context.IndentedJSON(http.StatusInternalServerError,
			responses.JsonResponse[json.RawMessage]{Status: responses.Err, Data: err_msg})
		return
	}

	hashedPassword := auth.HashPassword(submittedCredentials.Password, c.Env.PasswordSalt)

	var existingUser db.User
	result := c.Db.Where("login = $1 AND password = $2", submittedCredentials.Login, hashedPassword).First(&existingUser)
	if result.Error != nil {
		slog.Error("No user found", "err", result.Error)
		var err_msg, _ = json.Marshal(responses.ErrorMessage{Message: "Wrong login or password"})
		context.IndentedJSON(http.StatusInternalServerError,
			responses.JsonResponse[json.RawMessage]{Status: responses.Err, Data: err_msg})
		return
	}

	credentials, err := auth.CreateCredentials(strconv.FormatInt(int64(existingUser.ID), 10), "local", c.Env.RefreshTokenValidity, c.Env.RefreshTokenValidity, []byte(c.Env.PasswordSalt))
	if err != nil {
		slog.Error("Error issuing tokens", "err", err)
		var err_msg, _ = json.Marshal(responses.ErrorMessage{Message: "Error issuing tokens"})
		context.IndentedJSON(http.StatusInternalServerError,
			responses.JsonResponse[json.RawMessage]{Status: responses.Err, Data: err_msg})
		return
	}

	refreshToken := &db.RefreshToken{
		Token:  credentials.RefreshToken,
		UserID: existingUser.ID,
	}
	if err := c.Db.Create(refreshToken).Error; err != nil {
		slog.Error("Error adding refresh token to db", "err", err)
		var err_msg, _ = json.Marshal(responses.ErrorMessage{Message: "Error creating refresh token"})
		context.IndentedJSON(http.StatusInternalServerError,
			responses.JsonResponse[json.RawMessage]{Status: responses.Err, Data: err_msg})
		return
	}

	token, _ := json.Marshal(credentials)
	context.IndentedJSON(http.StatusOK, responses.JsonResponse[json.RawMessage]{Status: responses.Ok, Data: token})
}

// consumeRefreshToken verifies a refresh token, revokes it and returns the
// user id it belongs to. Refresh tokens are single-use.
func (c *SharedController) consumeRefreshToken(context *gin.Context, tokenString string) (uint, bool) {
	claims, err := auth.VerifyToken(tokenString, []byte(c.Env.PasswordSalt))
	if err != nil {
		slog.Error("Error verifying token", "err", err)
		var err_msg, _ = json.Marshal(responses.ErrorMessage{Message: "Could not verify token"})
		context.IndentedJSON(http.StatusUnauthorized,
			responses.JsonResponse[json.RawMessage]{Status: responses.Err, Data: err_msg})
		return 0, false
	}

	aud, err := claims.GetAudience()
	if err != nil || len(aud) == 0 || aud[0] != auth.AudienceRefresh {
		slog.Error("Not a refresh token", "err", err)
		var err_msg, _ = json.Marshal(responses.ErrorMessage{Message: "Malformed token"})
		context.IndentedJSON(http.StatusInternalServerError,
			responses.JsonResponse[json.RawMessage]{Status: responses.Err, Data: err_msg})
		return 0, false
	}

	sub, err := claims.GetSubject()
	if err != nil {
		slog.Error("Unable to get subject", "err", err)
		var err_msg, _ = json.Marshal(responses.ErrorMessage{Message: "Error getting subject claim"})
		context.IndentedJSON(http.StatusInternalServerError,
			responses.JsonResponse[json.RawMessage]{Status: responses.Err, Data: err_msg})
		return 0, false
	}

	user_id, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		slog.Error("Unable to convert user id", "err", err)
		var err_msg, _ = json.Marshal(responses.ErrorMessage{Message: "bad user id"})
		context.IndentedJSON(http.StatusInternalServerError,
			responses.JsonResponse[json.RawMessage]{Status: responses.Err, Data: err_msg})
		return 0, false
	}

	err = c.Db.Where("token = $1 AND user_id = $2", tokenString, user_id).Delete(&db.RefreshToken{}).Error
	if err != nil {
		slog.Error("Could not revoke token", "err", err)
		var err_msg, _ = json.Marshal(responses.ErrorMessage{Message: "Error revoking token"})
		context.IndentedJSON(http.StatusInternalServerError,
			responses.JsonResponse[json.RawMessage]{Status: responses.Err, Data: err_msg})
		return 0, false
	}

	return uint(user_id), true
}

func (c *SharedController) Refresh(context *gin.Context) {
	tokenString := context.Param("token")

	userID, ok := c.consumeRefreshToken(context, tokenString)
	if !ok {
		return
	}

	credentials, err := auth.CreateCredentials(strconv.FormatUint(uint64(userID), 10), "local", c.Env.RefreshTokenValidity, c.Env.RefreshTokenValidity, []byte(c.Env.PasswordSalt))
	if err != nil {
		slog.Error("Error issuing tokens", "err", err)
		var err_msg, _ = json.Marshal(responses.ErrorMessage{Message: "Error issuing tokens"})
		context.IndentedJSON(http.StatusInternalServerError,
			responses.JsonResponse[json.RawMessage]{Status: responses.Err, Data: err_msg})
		return
	}

	refreshToken := db.RefreshToken{
		Token:  credentials.RefreshToken,
		UserID: userID,
	}
	if err := c.Db.Create(&refreshToken).Error; err != nil {
		slog.Error("Error adding refresh token to db", "err", err)
		var err_msg, _ = json.Marshal(responses.ErrorMessage{Message: "Error creating refresh token"})
		context.IndentedJSON(http.StatusInternalServerError,
			responses.JsonResponse[json.RawMessage]{Status: responses.Err, Data: err_msg})
		return
	}

	token, _ := json.Marshal(credentials)
	context.IndentedJSON(http.StatusOK, responses.JsonResponse[json.RawMessage]{Status: responses.Ok, Data: token})
}

func (c *SharedController) Logout(context *gin.Context) {
	tokenString := context.Param("token")

	if _, ok := c.consumeRefreshToken(context, tokenString); !ok {
		return
	}

	context.IndentedJSON(http.StatusOK, responses.JsonResponse[string]{Status: responses.Ok, Data: "Token has been revoked"})
}

func (c *SharedController) Register(context *gin.Context) {
	var submittedCredentials requests.RegisterUser
	if err := context.BindJSON(&submittedCredentials); err != nil {
		slog.Error("Parsing registration data error", "err", err)
		var err_msg, _ = json.Marshal(responses.ErrorMessage{Message: err.Error()})
		context.IndentedJSON(http.StatusInternalServerError,
			responses.JsonResponse[json.RawMessage]{Status: responses.Err, Data: err_msg})
		return
	}

	if submittedCredentials.Username == "" || !namePattern.MatchString(submittedCredentials.Username) {
		var err_msg, _ = json.Marshal(responses.ErrorMessage{Message: "bad username format"})
		context.IndentedJSON(http.StatusInternalServerError,
			responses.JsonResponse[json.RawMessage]{Status: responses.Err, Data: err_msg})
		return
	}
	if submittedCredentials.Login == "" || !namePattern.MatchString(submittedCredentials.Login) {
		var err_msg, _ = json.Marshal(responses.ErrorMessage{Message: "bad login format"})
		context.IndentedJSON(http.StatusInternalServerError,
			responses.JsonResponse[json.RawMessage]{Status: responses.Err, Data: err_msg})
		return
	}
	if len(submittedCredentials.Password) < 6 {
		var err_msg, _ = json.Marshal(responses.ErrorMessage{Message: "password is too short"})
		context.IndentedJSON(http.StatusInternalServerError,
			responses.JsonResponse[json.RawMessage]{Status: responses.Err, Data: err_msg})
		return
	}

	hashedPassword := auth.HashPassword(submittedCredentials.Password, c.Env.PasswordSalt)

	user := &db.User{
		Login:    submittedCredentials.Login,
		Username: submittedCredentials.Username,
		Password: hashedPassword,
	}

	// Every account starts with the same bankroll; the profile row is the
	// authoritative balance from here on.
	err := c.Db.Transaction(func(tx *gorm.DB) error {
		var existingUser db.User
		if err := tx.Where("login = ?", submittedCredentials.Login).First(&existingUser).Error; err == nil {
			slog.Error("User already exists", "Username", submittedCredentials.Username)
			var err_msg, _ = json.Marshal(responses.ErrorMessage{Message: "User already exists"})
			context.IndentedJSON(http.StatusInternalServerError,
				responses.JsonResponse[json.RawMessage]{Status: responses.Err, Data: err_msg})
			return gorm.ErrDuplicatedKey
		} else if err != gorm.ErrRecordNotFound {
			var err_msg, _ = json.Marshal(responses.ErrorMessage{Message: "Registration error"})
			context.IndentedJSON(http.StatusInternalServerError,
				responses.JsonResponse[json.RawMessage]{Status: responses.Err, Data: err_msg})
			return err
		}

		if err := tx.Create(user).Error; err != nil {
			var err_msg, _ = json.Marshal(responses.ErrorMessage{Message: "Registration error"})
			context.IndentedJSON(http.StatusInternalServerError,
				responses.JsonResponse[json.RawMessage]{Status: responses.Err, Data: err_msg})
			return err
		}

		profile := db.Profile{UserID: user.ID}
		if err := tx.Create(&profile).Error; err != nil {
			var err_msg, _ = json.Marshal(responses.ErrorMessage{Message: "Profile creation error"})
			context.IndentedJSON(http.StatusInternalServerError,
				responses.JsonResponse[json.RawMessage]{Status: responses.Err, Data: err_msg})
			return err
		}
		return nil
	})
	if err != nil {
		return
	}

	context.IndentedJSON(http.StatusOK, responses.JsonResponse[string]{Status: responses.Ok, Data: "User was created"})
}

func AuthEndpoints(sCtrl *SharedController, router *gin.Engine) {
	router.POST("/login", sCtrl.Login)
	router.POST("/register", sCtrl.Register)
	router.GET("/refresh/:token", sCtrl.Refresh)
	router.DELETE("/logout/:token", AuthMiddleware(), sCtrl.Logout)
}
