package service

import (
	"fmt"

	apperrors "github.com/yourusername/automatismes-api/internal/pkg/errors"
)

// Ошибки сервисов со стабильным error_type для хендлеров.
// Каждая оборачивает общую ошибку приложения, поэтому errors.Is работает с обеими.
var (
	// ErrNoData - каталог пуст, рекомендовать нечего
	ErrNoData = fmt.Errorf("%w: no_data", apperrors.ErrNotFound)
	// ErrCorrectionUnavailable - формула ответа шаблона не вычисляется, попытка не засчитывается
	ErrCorrectionUnavailable = fmt.Errorf("%w: correction_unavailable", apperrors.ErrUnprocessable)
)
