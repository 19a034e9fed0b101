package models

import "time"

// AccessToken представляет токен доступа, выданный пользователю.
// Срок действия только хранится: проверка истечения выполняется
// потребителем токена, а не этим сервисом.
type AccessToken struct {
	ExpireTime time.Time `json:"expire_time"` // время истечения
	CreateTime time.Time `json:"create_time"` // время создания, не меняется после вставки
	UpdateTime time.Time `json:"update_time"` // время последнего обновления
	Token      string    `json:"token"`       // непрозрачная строка токена
	UserName   string    `json:"user_name"`   // имя владельца (заполняется при чтении из хранилища)
	ID         int64     `json:"id"`          // идентификатор, назначается хранилищем
	UserID     int64     `json:"user_id"`     // ID пользователя-владельца
}

// Clone возвращает копию токена
func (t *AccessToken) Clone() *AccessToken {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
