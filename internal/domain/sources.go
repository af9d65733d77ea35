package domain

import "context"

// WeatherObservation is a point-in-time weather reading for a location,
// plus the surface elevation reported by the weather provider.
type WeatherObservation struct {
	Conditions WeatherConditions
	ElevationM float64
}

// WeatherSource fetches current weather conditions for a coordinate.
type WeatherSource interface {
	CurrentWeather(ctx context.Context, lat, lon float64) (WeatherObservation, error)
}

// LightningSource reports recent lightning activity near a coordinate.
type LightningSource interface {
	RecentActivity(ctx context.Context, lat, lon float64) (LightningActivity, error)
}
