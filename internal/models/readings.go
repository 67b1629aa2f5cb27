package models

import "strings"

// Sensor reading value objects. Each constructor is the single place its
// bounds are enforced; readings stored inside a Sample are never re-checked.

// SpeedKmh is a non-negative vehicle speed.
type SpeedKmh float64

func NewSpeedKmh(v float64) (SpeedKmh, error) {
	if v < 0 {
		return 0, invalid("speed_kmh", "must be >= 0")
	}
	return SpeedKmh(v), nil
}

// OdometerKm is a non-negative odometer reading.
type OdometerKm float64

func NewOdometerKm(v float64) (OdometerKm, error) {
	if v < 0 {
		return 0, invalid("odometer_km", "must be >= 0")
	}
	return OdometerKm(v), nil
}

// GeoPoint is a WGS84 coordinate pair.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func NewGeoPoint(lat, lon float64) (GeoPoint, error) {
	if lat < -90 || lat > 90 {
		return GeoPoint{}, invalid("location.lat", "must be within [-90, 90]")
	}
	if lon < -180 || lon > 180 {
		return GeoPoint{}, invalid("location.lon", "must be within [-180, 180]")
	}
	return GeoPoint{Lat: lat, Lon: lon}, nil
}

// TemperatureCelsius is bounded to the range the sensors can physically
// report.
type TemperatureCelsius float64

func NewTemperatureCelsius(field string, v float64) (TemperatureCelsius, error) {
	if v < -50 || v > 150 {
		return 0, invalid(field, "must be within [-50, 150]")
	}
	return TemperatureCelsius(v), nil
}

// HumidityPercent is a relative humidity percentage.
type HumidityPercent float64

func NewHumidityPercent(v float64) (HumidityPercent, error) {
	if v < 0 || v > 100 {
		return 0, invalid("cabin_humidity_pct", "must be within [0, 100]")
	}
	return HumidityPercent(v), nil
}

// ElectricalCurrent is an instantaneous current draw in amperes. No physical
// bound is imposed; regenerative readings may be negative.
type ElectricalCurrent float64

// TirePressure carries per-wheel PSI readings; each wheel is independently
// optional.
type TirePressure struct {
	FrontLeft  *float64 `json:"front_left,omitempty"`
	FrontRight *float64 `json:"front_right,omitempty"`
	RearLeft   *float64 `json:"rear_left,omitempty"`
	RearRight  *float64 `json:"rear_right,omitempty"`
}

func NewTirePressure(frontLeft, frontRight, rearLeft, rearRight *float64) (TirePressure, error) {
	wheels := map[string]*float64{
		"tire_pressure.front_left":  frontLeft,
		"tire_pressure.front_right": frontRight,
		"tire_pressure.rear_left":   rearLeft,
		"tire_pressure.rear_right":  rearRight,
	}
	for field, psi := range wheels {
		if psi == nil {
			continue
		}
		if *psi <= 0 || *psi > 80 {
			return TirePressure{}, invalid(field, "must be within (0, 80] PSI")
		}
	}
	return TirePressure{
		FrontLeft:  frontLeft,
		FrontRight: frontRight,
		RearLeft:   rearLeft,
		RearRight:  rearRight,
	}, nil
}

// Readings returns the present wheel pressures in a stable order.
func (t TirePressure) Readings() []float64 {
	var out []float64
	for _, psi := range []*float64{t.FrontLeft, t.FrontRight, t.RearLeft, t.RearRight} {
		if psi != nil {
			out = append(out, *psi)
		}
	}
	return out
}

// CabinGasLevel is a gas concentration reading inside the cabin.
type CabinGasLevel struct {
	Gas              string  `json:"gas"`
	ConcentrationPpm float64 `json:"concentration_ppm"`
}

func NewCabinGasLevel(gas string, concentrationPpm float64) (CabinGasLevel, error) {
	if strings.TrimSpace(gas) == "" {
		return CabinGasLevel{}, invalid("cabin_gas.gas", "gas type is required")
	}
	if concentrationPpm < 0 {
		return CabinGasLevel{}, invalid("cabin_gas.concentration_ppm", "must be >= 0")
	}
	return CabinGasLevel{Gas: gas, ConcentrationPpm: concentrationPpm}, nil
}

// AccelerationVector carries per-axis G readings; each axis is independently
// optional.
type AccelerationVector struct {
	LateralG      *float64 `json:"lateral_g,omitempty"`
	LongitudinalG *float64 `json:"longitudinal_g,omitempty"`
	VerticalG     *float64 `json:"vertical_g,omitempty"`
}

func NewAccelerationVector(lateralG, longitudinalG, verticalG *float64) (AccelerationVector, error) {
	axes := map[string]*float64{
		"acceleration.lateral_g":      lateralG,
		"acceleration.longitudinal_g": longitudinalG,
		"acceleration.vertical_g":     verticalG,
	}
	for field, g := range axes {
		if g == nil {
			continue
		}
		if *g < -5 || *g > 5 {
			return AccelerationVector{}, invalid(field, "must be within [-5, 5] G")
		}
	}
	return AccelerationVector{
		LateralG:      lateralG,
		LongitudinalG: longitudinalG,
		VerticalG:     verticalG,
	}, nil
}

// FaultCode is a diagnostic trouble code together with the standard it was
// read under (OBD-II, J1939, ...).
type FaultCode struct {
	Code     string `json:"code"`
	Standard string `json:"standard"`
}

func NewFaultCode(code, standard string) (FaultCode, error) {
	if strings.TrimSpace(code) == "" {
		return FaultCode{}, invalid("fault.code", "code is required")
	}
	if strings.TrimSpace(standard) == "" {
		return FaultCode{}, invalid("fault.standard", "standard is required")
	}
	return FaultCode{Code: code, Standard: standard}, nil
}
