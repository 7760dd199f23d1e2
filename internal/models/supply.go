package models

import "time"

// SupplySnapshot holds supply and volume derived from the last good CoinGecko response
type SupplySnapshot struct {
	Circulating    *float64  // market cap / price
	Full           *float64  // FDV / price
	TotalVolumeUSD *float64  // 24h volume in USD
	UpdatedAt      time.Time // When this snapshot was created
}

// TTL constants for cache expiration
const (
	SupplyTTL = 24 * time.Hour   // Circulating/Full supply cache lifetime
	VolumeTTL = 30 * time.Minute // Volume cache lifetime
)

// NewSupplySnapshot derives a snapshot from CoinGecko data. Supplies are left
// nil when the price is missing or zero.
func NewSupplySnapshot(data *CoinData, now time.Time) SupplySnapshot {
	snapshot := SupplySnapshot{
		UpdatedAt:      now,
		TotalVolumeUSD: data.Volume24h.USD,
	}

	price := data.Price.USD
	if price == nil || *price <= 0 {
		return snapshot
	}
	if mc := data.MarketCap.USD; mc != nil && *mc > 0 {
		snapshot.Circulating = Float64(*mc / *price)
	}
	if fdv := data.FullyDilutedValuation.USD; fdv != nil && *fdv > 0 {
		snapshot.Full = Float64(*fdv / *price)
	}
	return snapshot
}

// ValidSupply checks if the supply data (Circulating/Full) is still valid
func (s *SupplySnapshot) ValidSupply(now time.Time, ttl time.Duration) bool {
	return now.Sub(s.UpdatedAt) < ttl
}

// ValidVolume checks if the volume data is still valid
func (s *SupplySnapshot) ValidVolume(now time.Time, ttl time.Duration) bool {
	return now.Sub(s.UpdatedAt) < ttl
}
