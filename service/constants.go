package service

const (
	DefaultBatchSize = 20
	MaxBatchSize     = 200 // máximo de leads por lote demo

	// Comisión de originación usada para estimar ingresos por préstamo
	OriginationRate = 0.01

	StaleContactDays = 7
	MaxActionItems   = 3
)
