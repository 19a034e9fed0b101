package api

// GenerateTokenRequest представляет запрос на генерацию строки токена
type GenerateTokenRequest struct {
	ExpireTime string `json:"expire_time"` // "2006-01-02 15:04:05", UTC
	UserID     int64  `json:"user_id"`     // владелец токена
}

// TokenRequest is the body of token create (POST) and update (PUT).
type TokenRequest struct {
	ExpireTime string `json:"expire_time"` // "2006-01-02 15:04:05", UTC
	Token      string `json:"token"`       // строка токена, обычно из /generate
	UserID     int64  `json:"user_id"`     // владелец токена
}

// AccessToken представляет токен доступа в ответах API
type AccessToken struct {
	ExpireTime string `json:"expire_time"`
	CreateTime string `json:"create_time"`
	UpdateTime string `json:"update_time"`
	Token      string `json:"token"`
	UserName   string `json:"user_name,omitempty"`
	ID         int64  `json:"id"`
	UserID     int64  `json:"user_id"`
}

// TokenPage представляет одну страницу списка токенов
type TokenPage struct {
	TotalList   []AccessToken `json:"total_list"`
	Total       int64         `json:"total"`
	TotalPage   int64         `json:"total_page"`
	PageSize    int           `json:"page_size"`
	CurrentPage int           `json:"current_page"`
}
