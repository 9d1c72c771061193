package client

// Request bodies. Field names follow the server's JSON contract.

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
