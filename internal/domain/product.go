package domain

import "time"

// Product — товар каталога в части, нужной движку заказов: цена и остаток.
// Инвариант: Stock никогда не наблюдается отрицательным.
type Product struct {
	ID   string
	Name string
	// PriceMinor — актуальная цена за единицу в минимальных денежных единицах.
	PriceMinor int64
	// Stock — количество непроданных единиц.
	Stock     int32
	ImageURL  string
	UpdatedAt time.Time
}

// CartLine — строка корзины пользователя. Живёт до успешной оплаты заказа.
type CartLine struct {
	UserID    string
	ProductID string
	Qty       int32
	AddedAt   time.Time
}

// User хранится внешней подсистемой; движку заказов нужен только e-mail для проекции.
type User struct {
	ID    string
	Email string
}
