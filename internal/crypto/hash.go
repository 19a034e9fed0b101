package crypto

import (
	"crypto/sha256"
	"encoding/hex"
)

// DigestSize длина hex-представления дайджеста токена (SHA256, 32 bytes * 2)
const DigestSize = sha256.Size * 2

// Digest хеширует входную строку с использованием SHA256 и возвращает
// hex-encoded строку фиксированной длины DigestSize.
// Функция детерминирована: одинаковый вход дает одинаковый хеш.
func Digest(input string) string {
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:])
}
