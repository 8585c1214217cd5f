package app

// Config описывает настройки запуска приложения.
type Config struct {
	HTTPAddr    string
	MetricsAddr string
	// PostgresDSN пустой — используется in-memory хранилище.
	PostgresDSN string
	// KafkaBrokers пустой — уведомления пишутся в журнал.
	KafkaBrokers string
	Currency     string
}

// DefaultConfig возвращает базовые адреса и валюту по умолчанию.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:    ":8080",
		MetricsAddr: ":9090",
		Currency:    "USD",
	}
}
