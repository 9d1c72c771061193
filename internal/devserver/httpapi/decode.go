package httpapi

import (
	"encoding/json"
	"io"
	"strconv"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// decodeValidate reads a JSON body into body and checks its validate tags.
func decodeValidate(r io.Reader, body any) error {
	if err := json.NewDecoder(r).Decode(body); err != nil {
		return badRequest("Body is invalid json")
	}
	if err := validate.Struct(body); err != nil {
		return badRequest("Required fields missing")
	}
	return nil
}

func parseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

type loginRequest struct {
	Username *string `json:"username" validate:"required_without=Email"`
	Email    *string `json:"email" validate:"required_without=Username"`
	Password string  `json:"password" validate:"required"`
}

type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type createGroupRequest struct {
	Name            string `json:"name" validate:"required"`
	Password        string `json:"password" validate:"required"`
	CreatorUsername string `json:"creatorUsername" validate:"required"`
}

type joinGroupRequest struct {
	Password string `json:"password" validate:"required"`
	Username string `json:"username" validate:"required"`
}

type usernameRequest struct {
	Username string `json:"username" validate:"required"`
}

type messageRequest struct {
	SenderUsername string `json:"senderUsername" validate:"required"`
	Content        string `json:"content" validate:"required"`
	Type           string `json:"type" validate:"oneof=text file"`
}
