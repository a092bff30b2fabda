package adminauthhandler

import (
	"fmt"
	"time"

	"budget-portal-backend/config"
	"budget-portal-backend/db"
	adminuserstore "budget-portal-backend/lib/admin-panel/store"
	authhelpers "budget-portal-backend/lib/utils/auth-helpers"
	authapimodels "budget-portal-backend/models/api/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	Login(email, password string) (response authapimodels.JWTResponse, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store: adminuserstore.NewInstance(db.DB),
	}
}

type impl struct {
	store adminuserstore.Provider
}

func (i impl) Login(email, password string) (response authapimodels.JWTResponse, err error) {
	logger := log.WithField("email", email)
	user, err := i.store.FindByEmail(email)
	if err != nil {
		logger.WithError(err).Error("failed to look up user by email")
		return authapimodels.JWTResponse{}, err
	}
	if user == nil {
		logger.Debug("no user with this email")
		return authapimodels.JWTResponse{}, errors.New("invalid email or password")
	}
	if authhelpers.GetMD5Hash(password) != user.Password {
		logger.Debug("password check failed")
		return authapimodels.JWTResponse{}, errors.New("invalid email or password")
	}
	claims := jwt.MapClaims{
		"name": fmt.Sprintf("%s %s", user.FirstName, user.LastName),
		"sub":  user.ID,
		"role": string(user.Role),
		"exp":  time.Now().Add(time.Second * time.Duration(config.Conf.Auth.JWTExpireInSec)).Unix(),
		"iat":  time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(config.Conf.Auth.JWTSecret))
	if err != nil {
		logger.WithError(err).Error("failed to sign JWT")
		return authapimodels.JWTResponse{}, err
	}
	err = i.store.Update(user.ID, map[string]interface{}{"last_login": time.Now()})
	if err != nil {
		logger.WithError(err).Error("failed to update last login date")
	}
	return authapimodels.JWTResponse{
		Token: tokenString,
	}, nil
}
