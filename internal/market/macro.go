package market

// Observation is one structural data point. Period is the dataset's own time
// label ("2023", "2023Q4", "2024M03").
type Observation struct {
	Period string  `json:"period"`
	Value  float64 `json:"value"`
}

type Observations []Observation

func (o Observations) Last() (Observation, bool) {
	if len(o) == 0 {
		return Observation{}, false
	}
	return o[len(o)-1], true
}

// Country is one entry of the economy catalog.
type Country struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// SectorShare is one slice of the output breakdown, in percent of GDP.
type SectorShare struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// MacroSet is the settled structural data for one country selection.
type MacroSet struct {
	Generation   uint64        `json:"generation"`
	TraceID      string        `json:"trace_id"`
	Selection    Selection     `json:"selection"`
	Status       Status        `json:"status"`
	Reason       string        `json:"reason,omitempty"`
	GDP          Observations  `json:"gdp"`
	Inflation    Observations  `json:"inflation"`
	Unemployment Observations  `json:"unemployment"`
	Sectors      []SectorShare `json:"sectors"`
}
