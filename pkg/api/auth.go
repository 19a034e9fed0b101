package api

// LoginRequest представляет запрос на аутентификацию
type LoginRequest struct {
	Username string `json:"username"` // username пользователя
	Password string `json:"password"` // пароль в открытом виде (только по TLS)
}

// LoginResponse представляет ответ с JWT для последующих запросов
type LoginResponse struct {
	AccessToken string `json:"access_token"` // JWT access token
	TokenType   string `json:"token_type"`   // всегда "Bearer"
	ExpiresIn   int64  `json:"expires_in"`   // время жизни access token в секундах
}

// Response is the envelope of every JSON answer. Code and Msg come from
// the status package; Data is omitted on failures.
type Response struct {
	Data any    `json:"data,omitempty"`
	Msg  string `json:"msg"`
	Code int    `json:"code"`
}

// HealthResponse представляет ответ health check
type HealthResponse struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
	Version string `json:"version,omitempty"`
}
