package analysis

import "sort"

// Literature keys.
const (
	LitFiller       = "filler"
	LitFillerReduce = "filler_reduce"
	LitSpinSpeed    = "spin_speed"
	LitCoating      = "coating"
	LitSolvent      = "solvent"
	LitElectrode    = "electrode"
)

// literature is read-only after package initialisation.
var literature = map[string]string{
	LitFiller: "Increasing the carbon-black content strengthens the conductive percolation network " +
		"and raises ΔR/R sensitivity (Sensors and Actuators B, 2018).",
	LitFillerReduce: "Filler loading far above the percolation threshold promotes agglomeration; " +
		"a slight reduction evens out the network and steadies the baseline (Sensors and Actuators B, 2018).",
	LitSpinSpeed: "A higher spin speed thins the film, improving gas diffusion into the sensing layer " +
		"and tending to increase sensitivity (Thin Solid Films, 2017).",
	LitCoating: "Multiple coatings improve the continuity of the sensing layer, reducing " +
		"electrode-to-electrode variation and improving reproducibility (ACS Applied Materials, 2020).",
	LitSolvent: "Less solvent raises solution viscosity, giving a denser and more uniform cast film " +
		"at the same spin speed (Thin Solid Films, 2017).",
	LitElectrode: "Ti/Au electrodes form a stable metal-polymer interface that suppresses " +
		"contact-resistance fluctuation and drift (IEEE Sensors Journal, 2016).",
}

// Literature returns the citation text stored under key.
func Literature(key string) (string, bool) {
	text, ok := literature[key]
	return text, ok
}

// LiteratureEntry is one key/citation pair of the knowledge base.
type LiteratureEntry struct {
	Key      string `json:"key"`
	Citation string `json:"citation"`
}

// LiteratureEntries lists the knowledge base sorted by key.
func LiteratureEntries() []LiteratureEntry {
	out := make([]LiteratureEntry, 0, len(literature))
	for k, v := range literature {
		out = append(out, LiteratureEntry{Key: k, Citation: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
