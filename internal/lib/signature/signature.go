// Package signature проверяет подлинность webhook-событий Paystack.
//
// Провайдер подписывает тело запроса HMAC-SHA512 своим секретным ключом и
// передаёт hex-подпись в заголовке X-Paystack-Signature. Подпись считается
// по сырым байтам тела запроса до какого-либо парсинга: повторная
// сериализация JSON не обязана совпадать побайтово с исходной.
package signature

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
)

// Verify сравнивает подпись заголовка с HMAC-SHA512 от сырого тела запроса.
// Сравнение выполняется через hmac.Equal.
func Verify(body []byte, signature, secret string) bool {
	if signature == "" || secret == "" {
		return false
	}
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// Sign возвращает hex-подпись тела, как её считает провайдер.
// Используется в тестах и локальных утилитах.
func Sign(body []byte, secret string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
