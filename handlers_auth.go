package main

import (
	"errors"
	"net/http"

	"storeapi/models"
	"storeapi/pkg/tokens"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// issueTokenPair signs an access/refresh pair for user and records the
// refresh token in the ledger.
func (s *server) issueTokenPair(user *models.User) (string, string, error) {
	access, err := tokens.Sign(user.ID, user.Role, s.cfg.AccessTTL, s.cfg.AccessSecret)
	if err != nil {
		return "", "", err
	}
	refresh, err := tokens.Sign(user.ID, user.Role, s.cfg.RefreshTTL, s.cfg.RefreshSecret)
	if err != nil {
		return "", "", err
	}
	if err := s.ledger.Record(refresh); err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (s *server) registerHandler(c *gin.Context) {
	var req registerRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}
	taken, err := s.users.EmailExists(req.Email)
	if err != nil {
		s.log.Error("register: email lookup failed", zap.Error(err))
		respondError(c, errInternal)
		return
	}
	if taken {
		respondError(c, alreadyExists("this email is already taken"))
		return
	}
	digest, err := hashPassword(req.Password)
	if err != nil {
		respondError(c, errInternal)
		return
	}
	user := models.User{Name: req.Name, Email: req.Email, Password: digest, Role: "customer"}
	if err := s.users.Create(&user); err != nil {
		if errors.Is(err, errEmailTaken) { // race after the pre-check
			respondError(c, alreadyExists("this email is already taken"))
			return
		}
		s.log.Error("register: create user failed", zap.Error(err))
		respondError(c, errInternal)
		return
	}
	access, refresh, err := s.issueTokenPair(&user)
	if err != nil {
		s.log.Error("register: token issue failed", zap.Error(err))
		respondError(c, errInternal)
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": access, "refresh_token": refresh})
}

func (s *server) loginHandler(c *gin.Context) {
	var req loginRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}
	user, err := s.users.ByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// same answer as a bad password, no account enumeration
			respondError(c, errWrongCredentials)
			return
		}
		s.log.Error("login: user lookup failed", zap.Error(err))
		respondError(c, errInternal)
		return
	}
	match, err := checkPassword(req.Password, user.Password)
	if err != nil {
		s.log.Error("login: stored digest malformed", zap.Uint("user_id", user.ID), zap.Error(err))
		respondError(c, errInternal)
		return
	}
	if !match {
		respondError(c, errWrongCredentials)
		return
	}
	access, refresh, err := s.issueTokenPair(user)
	if err != nil {
		s.log.Error("login: token issue failed", zap.Error(err))
		respondError(c, errInternal)
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": access, "refresh_token": refresh})
}

// logoutHandler revokes the refresh token. Revoke failures are logged but the
// client still gets the success acknowledgment; logout must stay repeatable.
func (s *server) logoutHandler(c *gin.Context) {
	var req refreshRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}
	if err := s.ledger.Revoke(req.RefreshToken); err != nil {
		s.log.Warn("logout: refresh token revoke failed", zap.Error(err))
	}
	c.JSON(http.StatusOK, gin.H{"status": 1})
}

// refreshHandler exchanges a refresh token for a new access token. The token
// must both be present in the ledger and verify against the refresh secret.
// No rotation: the refresh token stays valid until logout.
func (s *server) refreshHandler(c *gin.Context) {
	var req refreshRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}
	known, err := s.ledger.Exists(req.RefreshToken)
	if err != nil {
		s.log.Error("refresh: ledger lookup failed", zap.Error(err))
		respondError(c, errInternal)
		return
	}
	if !known {
		respondError(c, errUnauthorized)
		return
	}
	claims, err := tokens.Verify(req.RefreshToken, s.cfg.RefreshSecret)
	if err != nil {
		respondError(c, errUnauthorized)
		return
	}
	user, err := s.users.ByID(claims.UserID)
	if err != nil {
		respondError(c, errUnauthorized)
		return
	}
	access, err := tokens.Sign(user.ID, user.Role, s.cfg.AccessTTL, s.cfg.AccessSecret)
	if err != nil {
		s.log.Error("refresh: token issue failed", zap.Error(err))
		respondError(c, errInternal)
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": access})
}

func (s *server) meHandler(c *gin.Context) {
	userID, ok := c.Get(ctxUserID)
	if !ok {
		respondError(c, errUnauthorized)
		return
	}
	user, err := s.users.ByID(userID.(uint))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, notFound("user not found"))
			return
		}
		respondError(c, errInternal)
		return
	}
	c.JSON(http.StatusOK, user)
}
