package models

import (
	"fmt"
	"time"
)

// Role определяет роль пользователя.
// Значения совпадают с порядковыми номерами user_type в таблице users.
type Role int

const (
	RoleRegular Role = iota // RoleRegular обычный пользователь
	RoleAdmin               // RoleAdmin администратор
)

// String возвращает строковое представление роли
func (r Role) String() string {
	switch r {
	case RoleRegular:
		return "regular"
	case RoleAdmin:
		return "admin"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// Valid проверяет, что значение роли известно
func (r Role) Valid() bool {
	return r == RoleRegular || r == RoleAdmin
}

// ParseRole разбирает роль из строки ("regular" или "admin")
func ParseRole(s string) (Role, error) {
	switch s {
	case "regular", "":
		return RoleRegular, nil
	case "admin":
		return RoleAdmin, nil
	default:
		return RoleRegular, fmt.Errorf("unknown role %q", s)
	}
}

// User представляет пользователя в системе
type User struct {
	CreatedAt    time.Time `json:"created_at"` // время создания
	UpdatedAt    time.Time `json:"updated_at"` // время последнего обновления
	Username     string    `json:"username"`   // уникальный username
	PasswordHash string    `json:"-"`          // argon2id хеш пароля
	ID           int64     `json:"id"`         // идентификатор пользователя
	Role         Role      `json:"role"`       // роль пользователя
}

// IsAdmin сообщает, является ли пользователь администратором
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
