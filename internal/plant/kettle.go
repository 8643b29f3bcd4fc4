package plant

import (
	"fmt"
	"math"
)

const (
	// kJ/(kg*K)
	specificHeatWater = 4.186
	// W/(m*K), vessel wall
	thermalConductivitySteel = 15.0
	heaterEfficiency         = 0.98
)

type kettleInitial struct {
	KettleTemp float64 `mapstructure:"kettle_temp"`
}

type kettleConstants struct {
	AmbientTemp    float64 `mapstructure:"ambient_temp"`
	Volume         float64 `mapstructure:"volume"`
	Diameter       float64 `mapstructure:"diameter"`
	HeaterPower    float64 `mapstructure:"heater_power"`
	HeatLossFactor float64 `mapstructure:"heat_loss_factor"`
}

// Kettle models a fixed volume of liquid heated by an electric element
// against convective loss to ambient through the vessel wall. The actuator
// command is heater duty in percent (0-100) of the rated element power.
//
// Constants: ambient_temp (deg C), volume (liters), diameter (cm),
// heater_power (kW), heat_loss_factor (dimensionless scale on losses).
// Initial values: kettle_temp (deg C).
type Kettle struct {
	temp           float64
	mass           float64 // kg, 1 liter of water ~ 1 kg
	surface        float64 // m^2, heat-exchanging vessel surface
	ambientTemp    float64
	heaterPower    float64 // kW
	heatLossFactor float64
}

// NewKettle builds a kettle from initial values and physical constants.
// Missing keys fall back to a 70 l, 50 cm, 6 kW kettle at 20 deg C ambient.
func NewKettle(initial, constants map[string]float64) (*Kettle, error) {
	init := kettleInitial{KettleTemp: 20.0}
	if err := decodeParams(initial, &init); err != nil {
		return nil, fmt.Errorf("Kettle initial values: %w", err)
	}
	consts := kettleConstants{
		AmbientTemp:    20.0,
		Volume:         70.0,
		Diameter:       50.0,
		HeaterPower:    6.0,
		HeatLossFactor: 1.0,
	}
	if err := decodeParams(constants, &consts); err != nil {
		return nil, fmt.Errorf("Kettle constant values: %w", err)
	}
	if consts.Volume <= 0 || consts.Diameter <= 0 {
		return nil, fmt.Errorf("plant: Kettle volume and diameter must be positive")
	}

	// Cylinder sized to hold the volume: surface = both ends plus the
	// side wall, converted from cm^2 to m^2.
	radius := consts.Diameter / 2.0
	height := (consts.Volume * 1000.0) / (math.Pi * radius * radius)
	surface := (2.0*math.Pi*radius*radius + 2.0*math.Pi*radius*height) / 10000.0

	return &Kettle{
		temp:           init.KettleTemp,
		mass:           consts.Volume,
		surface:        surface,
		ambientTemp:    consts.AmbientTemp,
		heaterPower:    consts.HeaterPower,
		heatLossFactor: consts.HeatLossFactor,
	}, nil
}

// Update applies the heater duty for duration seconds, then the ambient
// heat loss over the same interval. Direct Euler step over the whole
// duration; the command is held constant (zero-order hold).
func (k *Kettle) Update(command, duration float64) {
	duty := command
	if duty < 0 {
		duty = 0
	} else if duty > 100 {
		duty = 100
	}

	power := k.heaterPower * duty / 100.0 * heaterEfficiency
	k.temp += k.deltaTemp(power, duration)

	// Q = k * A * (T - Tambient), W -> kW
	lossPower := thermalConductivitySteel * k.surface * (k.temp - k.ambientTemp) / 1000.0
	k.temp -= k.deltaTemp(lossPower, duration) * k.heatLossFactor
}

// SensableState returns the liquid temperature in deg C.
func (k *Kettle) SensableState() float64 {
	return k.temp
}

// deltaTemp converts power (kW) applied for duration seconds into a
// temperature change of the liquid mass.
func (k *Kettle) deltaTemp(power, duration float64) float64 {
	return (power * duration) / (specificHeatWater * k.mass)
}
