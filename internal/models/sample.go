package models

import (
	"fmt"
	"time"
)

// SampleType labels which vehicle subsystem produced a sample.
type SampleType string

const (
	SampleTypeEngine     SampleType = "engine"
	SampleTypeBattery    SampleType = "battery"
	SampleTypeTires      SampleType = "tires"
	SampleTypeCabin      SampleType = "cabin"
	SampleTypeDriving    SampleType = "driving"
	SampleTypeLocation   SampleType = "location"
	SampleTypeDiagnostic SampleType = "diagnostic"
)

var sampleTypes = map[SampleType]bool{
	SampleTypeEngine:     true,
	SampleTypeBattery:    true,
	SampleTypeTires:      true,
	SampleTypeCabin:      true,
	SampleTypeDriving:    true,
	SampleTypeLocation:   true,
	SampleTypeDiagnostic: true,
}

// Severity grades how serious a sample is, as reported by the device.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

var severities = map[Severity]bool{
	SeverityLow:      true,
	SeverityMedium:   true,
	SeverityHigh:     true,
	SeverityCritical: true,
}

// Sample is an immutable telemetry reading. Type, severity and occurred-at
// are always present; every sensor field is independently optional because
// partial coverage is normal. All bounds are enforced by NewSample.
type Sample struct {
	Type       SampleType `json:"type"`
	Severity   Severity   `json:"severity"`
	OccurredAt time.Time  `json:"occurred_at"`
	VehicleID  int64      `json:"vehicle_id"`
	DriverID   int64      `json:"driver_id"`

	Speed         *SpeedKmh           `json:"speed_kmh,omitempty"`
	Location      *GeoPoint           `json:"location,omitempty"`
	Odometer      *OdometerKm         `json:"odometer_km,omitempty"`
	Fault         *FaultCode          `json:"fault,omitempty"`
	TirePressure  *TirePressure       `json:"tire_pressure,omitempty"`
	CabinGas      *CabinGasLevel      `json:"cabin_gas,omitempty"`
	Acceleration  *AccelerationVector `json:"acceleration,omitempty"`
	EngineTemp    *TemperatureCelsius `json:"engine_temp_c,omitempty"`
	CabinTemp     *TemperatureCelsius `json:"cabin_temp_c,omitempty"`
	CabinHumidity *HumidityPercent    `json:"cabin_humidity_pct,omitempty"`
	Current       *ElectricalCurrent  `json:"current_amps,omitempty"`
}

// SampleInput is the raw shape decoded from HTTP and websocket payloads.
type SampleInput struct {
	Type       string    `json:"type"`
	Severity   string    `json:"severity"`
	OccurredAt time.Time `json:"occurred_at"`
	VehicleID  int64     `json:"vehicle_id"`
	DriverID   int64     `json:"driver_id"`

	SpeedKmh      *float64            `json:"speed_kmh,omitempty"`
	Location      *GeoPoint           `json:"location,omitempty"`
	OdometerKm    *float64            `json:"odometer_km,omitempty"`
	Fault         *FaultCode          `json:"fault,omitempty"`
	TirePressure  *TirePressure       `json:"tire_pressure,omitempty"`
	CabinGas      *CabinGasLevel      `json:"cabin_gas,omitempty"`
	Acceleration  *AccelerationVector `json:"acceleration,omitempty"`
	EngineTempC   *float64            `json:"engine_temp_c,omitempty"`
	CabinTempC    *float64            `json:"cabin_temp_c,omitempty"`
	CabinHumidity *float64            `json:"cabin_humidity_pct,omitempty"`
	CurrentAmps   *float64            `json:"current_amps,omitempty"`
}

// NewSample validates the input and builds an immutable sample. Each present
// sensor field is bounds-checked independently; the first violation aborts
// construction.
func NewSample(in SampleInput) (*Sample, error) {
	sType := SampleType(in.Type)
	if !sampleTypes[sType] {
		return nil, invalid("type", fmt.Sprintf("unknown sample type %q", in.Type))
	}
	sev := Severity(in.Severity)
	if !severities[sev] {
		return nil, invalid("severity", fmt.Sprintf("unknown severity %q", in.Severity))
	}
	if in.OccurredAt.IsZero() {
		return nil, invalid("occurred_at", "timestamp is required")
	}

	s := &Sample{
		Type:       sType,
		Severity:   sev,
		OccurredAt: in.OccurredAt.UTC(),
		VehicleID:  in.VehicleID,
		DriverID:   in.DriverID,
	}

	if in.SpeedKmh != nil {
		speed, err := NewSpeedKmh(*in.SpeedKmh)
		if err != nil {
			return nil, err
		}
		s.Speed = &speed
	}
	if in.Location != nil {
		loc, err := NewGeoPoint(in.Location.Lat, in.Location.Lon)
		if err != nil {
			return nil, err
		}
		s.Location = &loc
	}
	if in.OdometerKm != nil {
		odo, err := NewOdometerKm(*in.OdometerKm)
		if err != nil {
			return nil, err
		}
		s.Odometer = &odo
	}
	if in.Fault != nil {
		fault, err := NewFaultCode(in.Fault.Code, in.Fault.Standard)
		if err != nil {
			return nil, err
		}
		s.Fault = &fault
	}
	if in.TirePressure != nil {
		tp, err := NewTirePressure(in.TirePressure.FrontLeft, in.TirePressure.FrontRight, in.TirePressure.RearLeft, in.TirePressure.RearRight)
		if err != nil {
			return nil, err
		}
		s.TirePressure = &tp
	}
	if in.CabinGas != nil {
		gas, err := NewCabinGasLevel(in.CabinGas.Gas, in.CabinGas.ConcentrationPpm)
		if err != nil {
			return nil, err
		}
		s.CabinGas = &gas
	}
	if in.Acceleration != nil {
		acc, err := NewAccelerationVector(in.Acceleration.LateralG, in.Acceleration.LongitudinalG, in.Acceleration.VerticalG)
		if err != nil {
			return nil, err
		}
		s.Acceleration = &acc
	}
	if in.EngineTempC != nil {
		temp, err := NewTemperatureCelsius("engine_temp_c", *in.EngineTempC)
		if err != nil {
			return nil, err
		}
		s.EngineTemp = &temp
	}
	if in.CabinTempC != nil {
		temp, err := NewTemperatureCelsius("cabin_temp_c", *in.CabinTempC)
		if err != nil {
			return nil, err
		}
		s.CabinTemp = &temp
	}
	if in.CabinHumidity != nil {
		humidity, err := NewHumidityPercent(*in.CabinHumidity)
		if err != nil {
			return nil, err
		}
		s.CabinHumidity = &humidity
	}
	if in.CurrentAmps != nil {
		current := ElectricalCurrent(*in.CurrentAmps)
		s.Current = &current
	}

	return s, nil
}

// Bound reports whether the sample carries resolved vehicle and driver
// identities. A device whose binding has not been resolved upstream produces
// unbound samples; ingesting one must fail rather than silently drop.
func (s *Sample) Bound() bool {
	return s.VehicleID > 0 && s.DriverID > 0
}
