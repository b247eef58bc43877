package controllers

import (
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// lengthBetween bounds the rune length of an already-trimmed value. Length
// checks run on the trimmed string because that is what gets stored;
// surrounding whitespace must not count toward a minimum.
func lengthBetween(s string, min, max int) bool {
	n := utf8.RuneCountInString(s)
	return n >= min && n <= max
}

// bindingErrors flattens a gin binding failure into the per-field error list
// carried in the response envelope
func bindingErrors(err error) []gin.H {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]gin.H, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, gin.H{
				"field":   strings.ToLower(fe.Field()[:1]) + fe.Field()[1:],
				"message": fieldMessage(fe),
			})
		}
		return out
	}
	return []gin.H{{"message": err.Error()}}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return "Please provide a valid email"
	case "min":
		return fe.Field() + " must be at least " + fe.Param() + " characters"
	case "max":
		return fe.Field() + " cannot be more than " + fe.Param() + " characters"
	case "url":
		return fe.Field() + " must be a valid URL"
	default:
		return fe.Field() + " is invalid"
	}
}

// validationFailed writes the standard 400 envelope
func validationFailed(c *gin.Context, errs []gin.H) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"message": "Validation failed",
		"errors":  errs,
	})
}
