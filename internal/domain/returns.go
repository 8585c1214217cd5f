package domain

import "time"

// ReturnStatus описывает жизненный цикл заявки на возврат.
type ReturnStatus string

const (
	ReturnStatusPending  ReturnStatus = "pending"
	ReturnStatusApproved ReturnStatus = "approved"
	ReturnStatusRejected ReturnStatus = "rejected"
	ReturnStatusPickedUp ReturnStatus = "picked_up"
	ReturnStatusRefunded ReturnStatus = "refunded"
)

// allowedReturnTransitions — таблица переходов заявки на возврат.
var allowedReturnTransitions = map[ReturnStatus][]ReturnStatus{
	ReturnStatusPending:  {ReturnStatusApproved, ReturnStatusRejected},
	ReturnStatusApproved: {ReturnStatusPickedUp},
	ReturnStatusPickedUp: {ReturnStatusRefunded},
	ReturnStatusRejected: {},
	ReturnStatusRefunded: {},
}

// CanTransitionTo сообщает, разрешён ли переход заявки в статус next.
func (s ReturnStatus) CanTransitionTo(next ReturnStatus) bool {
	for _, allowed := range allowedReturnTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ParseReturnStatus разбирает статус заявки из внешнего представления.
func ParseReturnStatus(raw string) (ReturnStatus, error) {
	status := ReturnStatus(raw)
	switch status {
	case ReturnStatusPending, ReturnStatusApproved, ReturnStatusRejected,
		ReturnStatusPickedUp, ReturnStatusRefunded:
		return status, nil
	}
	return "", ErrStatusUnknown
}

// ReturnRequest — заявка покупателя на возврат позиции доставленного заказа.
type ReturnRequest struct {
	ID          string
	OrderID     string
	ProductID   string
	UserID      string
	Reason      string
	Description string
	Status      ReturnStatus
	RequestedAt time.Time
	ResolvedAt  *time.Time
}
