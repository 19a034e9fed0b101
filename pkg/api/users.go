package api

// CreateUserRequest представляет запрос администратора на создание пользователя
type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"` // "regular" (по умолчанию) или "admin"
}

// User представляет пользователя в ответах API
type User struct {
	Username   string `json:"username"`
	Role       string `json:"role"`
	CreateTime string `json:"create_time"`
	ID         int64  `json:"id"`
}
