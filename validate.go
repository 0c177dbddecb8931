package main

import (
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Request shapes, one per flow. Constraints live in the binding tags so each
// flow's rules are declared as data next to its fields.

type registerRequest struct {
	Name           string `json:"name" binding:"required,min=3,max=30"`
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required,passwd"`
	RepeatPassword string `json:"repeat_password" binding:"required,eqfield=Password"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,passwd"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// productForm arrives as multipart form fields next to the image file.
type productForm struct {
	Name  string `form:"name" binding:"required"`
	Price int64  `form:"price" binding:"required,gt=0"`
	Size  string `form:"size" binding:"required"`
}

var passwordRE = regexp.MustCompile(`^[a-zA-Z0-9]{3,30}$`)

// registerValidators installs the custom "passwd" rule on gin's validator
// engine. Must run before the first request is bound.
func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("passwd", func(fl validator.FieldLevel) bool {
			return passwordRE.MatchString(fl.Field().String())
		})
	}
}

// bindJSON wraps ShouldBindJSON so every malformed body becomes a uniform
// 400 through the central responder.
func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return validationError(err.Error())
	}
	return nil
}
