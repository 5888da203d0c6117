package claim

import "errors"

var (
	// ErrSlotTaken возвращается, когда ключ слота уже занят бронью или блокировкой
	ErrSlotTaken = errors.New("claim.repository: slot already claimed")

	// ErrClaimNotFound возвращается, когда заявка на слот с указанным владельцем не найдена
	ErrClaimNotFound = errors.New("claim.repository: claim not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("claim.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("claim.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("claim.repository: failed to scan row")
)
