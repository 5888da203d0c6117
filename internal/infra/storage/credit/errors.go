package credit

import "errors"

var (
	// ErrCreditNotFound возвращается, когда компенсация не найдена
	ErrCreditNotFound = errors.New("credit.repository: credit not found")

	// ErrAlreadyUsed возвращается, когда компенсация уже погашена
	ErrAlreadyUsed = errors.New("credit.repository: credit already used")

	// ErrNotRedeemed возвращается, когда компенсация не погашена указанной бронью
	ErrNotRedeemed = errors.New("credit.repository: credit not redeemed by booking")

	// ErrDuplicateCode возвращается при совпадении кода компенсации
	ErrDuplicateCode = errors.New("credit.repository: duplicate credit code")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("credit.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("credit.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("credit.repository: failed to scan row")
)
