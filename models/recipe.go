package models

// DryingCondition enumerates the film drying procedures offered on the recipe form.
type DryingCondition string

const (
	DryingRoomTemp24h     DryingCondition = "room_temp_24h"
	DryingOven100CRoom24h DryingCondition = "oven_100c_room_24h"
)

// Recipe is the fabrication recipe of a thin-film gas sensor.
type Recipe struct {
	Polymer           string          `json:"polymer" yaml:"polymer" binding:"required"`
	PolymerMass       float64         `json:"polymer_g" yaml:"polymer_g" binding:"gte=0"`
	Solvent           string          `json:"solvent" yaml:"solvent" binding:"required"`
	SolventVolume     float64         `json:"solvent_ml" yaml:"solvent_ml" binding:"gte=0"`
	FillerType        string          `json:"filler_type" yaml:"filler_type" binding:"required"`
	FillerMass        float64         `json:"filler_g" yaml:"filler_g" binding:"gte=0"`
	SpinSpeed         int             `json:"spin_rpm" yaml:"spin_rpm" binding:"gte=0"`
	CoatingCount      int             `json:"coating_count" yaml:"coating_count" binding:"gte=1"`
	ElectrodeMaterial string          `json:"electrode" yaml:"electrode" binding:"required"`
	Drying            DryingCondition `json:"drying" yaml:"drying" binding:"required,oneof=room_temp_24h oven_100c_room_24h"`
}

// DefaultRecipe returns the recipe the lab form is pre-filled with.
func DefaultRecipe() Recipe {
	return Recipe{
		Polymer:           "PNPD",
		PolymerMass:       0.09,
		Solvent:           "EtOH",
		SolventVolume:     12.5,
		FillerType:        "BP-2000",
		FillerMass:        0.02,
		SpinSpeed:         1000,
		CoatingCount:      2,
		ElectrodeMaterial: "Ti/Au",
		Drying:            DryingRoomTemp24h,
	}
}

// ElectrodeMeasurement holds the resistances (kΩ) read from one electrode.
// Index is 1-based (0 means "by position") and the order of measurements
// in a run is significant.
type ElectrodeMeasurement struct {
	Index    int     `json:"index" yaml:"index" binding:"gte=0"`
	Baseline float64 `json:"baseline" yaml:"baseline" binding:"gt=0"`
	Gas      float64 `json:"gas" yaml:"gas" binding:"gte=0"`
	Bump     float64 `json:"bump" yaml:"bump" binding:"gte=0"`
}
