package domain

// OperatorSet идентификаторы пользователей с правами оператора площадок
type OperatorSet map[int64]struct{}

// NewOperatorSet создает набор операторов из списка ID
func NewOperatorSet(ids []int64) OperatorSet {
	set := make(OperatorSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Contains returns true if the user is an operator
func (s OperatorSet) Contains(userID int64) bool {
	_, ok := s[userID]
	return ok
}
