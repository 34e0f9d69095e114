package cmd

import "time"

// Config carries everything the composition root needs to assemble the
// service: HTTP port, database, carrier credentials and endpoints, shipper
// identity, and workflow tuning.
type Config struct {
	HTTPPort string
	LogLevel string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	// RedisAddr enables the shared carrier token cache when set; empty
	// falls back to the in-process cache.
	RedisAddr     string
	RedisPassword string

	// AmqpURL enables waybill event publishing when set.
	AmqpURL      string
	AmqpExchange string

	UpsClientID      string
	UpsClientSecret  string
	UpsAccountNumber string

	UpsAuthEndpoint            string
	UpsRateEndpoint            string
	UpsShipEndpoint            string
	UpsVoidEndpoint            string
	UpsAddressValidateEndpoint string
	UpsPaperlessUploadEndpoint string
	UpsPaperlessImageEndpoint  string
	UpsPreRegisterEndpoint     string

	// Shipper is the origin address printed on labels and invoices.
	ShipperName         string
	ShipperAttentionTo  string
	ShipperAddressLine1 string
	ShipperAddressLine2 string
	ShipperCity         string
	ShipperState        string
	ShipperPostalCode   string
	ShipperCountryCode  string
	ShipperPhone        string
	ShipperEmail        string

	// HandlingFee is a flat surcharge added to rate quotes; zero disables it.
	HandlingFee float64

	// CustomsCoolDown is the delay between labeling and the first customs
	// submission attempt.
	CustomsCoolDown time.Duration
}
