package controllers

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"storefront/apperr"
	"storefront/database"
	"storefront/mailer"
	"storefront/middleware"
	"storefront/models"
	"storefront/services"
	"storefront/utils"
)

func Register(c *gin.Context) {
	var input struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid input"})
		return
	}

	ctx := c.Request.Context()

	var existing models.User
	err := database.UserCollection.FindOne(ctx, bson.M{"email": input.Email}).Decode(&existing)
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"message": "email already registered"})
		return
	}

	hashed, err := hashPassword(input.Password)
	if err != nil {
		fail(c, err)
		return
	}
	user := models.User{
		ID:        primitive.NewObjectID(),
		Name:      input.Name,
		Email:     input.Email,
		Password:  hashed,
		Role:      models.RoleCustomer,
		CreatedAt: time.Now(),
	}

	// the unique email index backstops the read above under concurrent signups
	if _, err := database.UserCollection.InsertOne(ctx, user); err != nil {
		fail(c, writeErr(err, "email already registered", "failed to register"))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "registered",
		"user":    gin.H{"id": user.ID.Hex(), "name": user.Name, "email": user.Email, "role": user.Role},
	})
}

func Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid input"})
		return
	}

	ctx := c.Request.Context()

	var user models.User
	err := database.UserCollection.FindOne(ctx, bson.M{"email": input.Email}).Decode(&user)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid email or password"})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid email or password"})
		return
	}

	issueSession(c, &user)
}

// issueSession signs a token, sets the cookie and folds any guest cart into
// the user's cart. Shared by password login and OTP login.
func issueSession(c *gin.Context, user *models.User) {
	token, err := utils.GenerateToken(middleware.Secret(), user.ID.Hex(), user.Role, cfg.TokenTTL)
	if err != nil {
		fail(c, err)
		return
	}
	utils.SetTokenCookie(c, token, int(cfg.TokenTTL.Seconds()))

	if guestID, cerr := c.Cookie(utils.GuestCookie); cerr == nil && guestID != "" {
		if err := services.MergeGuestCart(c.Request.Context(), user.ID, guestID); err != nil {
			logrus.WithError(err).WithField("user", user.ID.Hex()).Error("guest cart merge failed")
		} else {
			utils.ClearGuestCookie(c)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":    user.ID.Hex(),
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
			"token": token,
		},
	})
}

func Logout(c *gin.Context) {
	tokenString, err := c.Cookie(utils.TokenCookie)
	if err != nil || tokenString == "" {
		header := c.GetHeader("Authorization")
		if len(header) > 7 && header[:7] == "Bearer " {
			tokenString = header[7:]
		}
	}
	utils.ClearTokenCookie(c)

	if tokenString == "" {
		c.JSON(http.StatusOK, gin.H{"message": "logged out"})
		return
	}

	claims, perr := utils.ParseToken(middleware.Secret(), tokenString)
	if perr != nil {
		c.JSON(http.StatusOK, gin.H{"message": "logged out"})
		return
	}

	_, err = database.BlacklistCollection.InsertOne(c.Request.Context(), bson.M{
		"token":     tokenString,
		"expiresAt": claims.ExpiresAt.Time,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to revoke token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func RequestOtp(c *gin.Context) {
	var input struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid email"})
		return
	}

	code, err := sixDigitCode()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to generate code"})
		return
	}

	ctx := c.Request.Context()
	otp := models.Otp{
		ID:        primitive.NewObjectID(),
		Email:     input.Email,
		Code:      code,
		ExpiresAt: time.Now().Add(cfg.OtpTTL),
		CreatedAt: time.Now(),
	}
	// one live code per email
	_, _ = database.OtpCollection.DeleteMany(ctx, bson.M{"email": input.Email})
	if _, err := database.OtpCollection.InsertOne(ctx, otp); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to store code"})
		return
	}

	mailer.SendOtp(ctx, input.Email, code)
	c.JSON(http.StatusOK, gin.H{"message": "code sent"})
}

func VerifyOtp(c *gin.Context) {
	var input struct {
		Email string `json:"email" binding:"required,email"`
		Code  string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid input"})
		return
	}

	ctx := c.Request.Context()

	var otp models.Otp
	err := database.OtpCollection.FindOne(ctx, bson.M{
		"email":     input.Email,
		"code":      input.Code,
		"expiresAt": bson.M{"$gt": time.Now()},
	}).Decode(&otp)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid or expired code"})
		return
	}
	_, _ = database.OtpCollection.DeleteOne(ctx, bson.M{"_id": otp.ID})

	var user models.User
	err = database.UserCollection.FindOne(ctx, bson.M{"email": input.Email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		user = models.User{
			ID:        primitive.NewObjectID(),
			Name:      input.Email,
			Email:     input.Email,
			Role:      models.RoleCustomer,
			CreatedAt: time.Now(),
		}
		if _, err := database.UserCollection.InsertOne(ctx, user); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to create user"})
			return
		}
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to fetch user"})
		return
	}

	issueSession(c, &user)
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		// bcrypt rejects passwords over 72 bytes
		return "", apperr.Wrap(err, apperr.Invalid, "password is too long")
	}
	return string(hashed), nil
}

func sixDigitCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
