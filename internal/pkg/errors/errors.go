package errors

import "errors"

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда запись или ресурс не найдены.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized используется для ошибок авторизации (неверный токен, неверный пароль).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden используется, когда ресурс принадлежит другому пользователю.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation используется для ошибок валидации входных данных.
	ErrValidation = errors.New("validation failed")

	// ErrExpiredToken используется, когда токен истек или был отозван.
	ErrExpiredToken = errors.New("token is expired")

	// ErrConflict используется для конфликтов состояния (например, имя пользователя уже занято).
	ErrConflict = errors.New("resource state conflict")

	// ErrUnprocessable используется, когда запрос корректен, но данные на сервере
	// не позволяют его выполнить (например, формула ответа шаблона не вычисляется).
	ErrUnprocessable = errors.New("unprocessable entity")
)
