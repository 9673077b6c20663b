package ai

// Profile is the candidate data every prompt is grounded on. Generated
// documents may only restate what is written here.
type Profile struct {
	Name       string
	Location   string
	Experience string   // role ledger, one role per line
	Highlights string   // pipe-separated achievements for the CV
	KeyWins    []string // quantified wins a cover letter may cite
}

const defaultExperience = `Nokia – Customer Technology Lead (2024–present): 10% YoY revenue growth, 25% efficiency gain, 40% client engagement increase. C-suite technology adviser to Telia, VodafoneThree, Indosat.
Nokia – Senior Programme Manager (2021–2024): Cloud and data capacity programmes, 15% latency reduction, 60% processing capability increase.
Nokia – Head of Cloud Core Network Build Services (2020–2021): 20% reliability improvement, EUR 2M annualised savings, 15% cost reduction.
Nokia – Lead Technical PM 5G (2018–2020): 5G deployment across multiple markets, 15% implementation cost reduction.
Nokia – Global Head of Services Process Framework (2016–2018): 30% efficiency improvement, pioneered RPA integration, basis for US Patent 11562313.
Ulticom – Head of Solution Sales India (2007–2008): 15% sales uplift.
Aricent/Capgemini – Product Manager (2006–2007): Established network engineering service line, 25% revenue increase.`

const defaultHighlights = "EUR 2M savings | 40% efficiency gains | US Patent 11562313 | MVNO Nation Live 2025 Keynote Speaker | Lean Six Sigma Black Belt | 28 years global telecoms and technology leadership"

var defaultKeyWins = []string{
	"EUR 2M annualised savings delivered at Nokia",
	"40% efficiency gains through process transformation and RPA",
	"US Patent 11562313 for services process automation",
	"MVNO Nation Live 2025 Keynote Speaker",
	"28 years global telecoms and technology leadership",
	"10% YoY revenue growth in current Customer Technology Lead role",
	"25% efficiency gain, 40% client engagement increase (current role)",
}

// DefaultProfile returns the built-in candidate profile.
func DefaultProfile() Profile {
	return Profile{
		Name:       "Prashant Vashishtha",
		Location:   "London, UK",
		Experience: defaultExperience,
		Highlights: defaultHighlights,
		KeyWins:    append([]string(nil), defaultKeyWins...),
	}
}

// Merge returns p with every empty field filled from def.
func (p Profile) Merge(def Profile) Profile {
	if p.Name == "" {
		p.Name = def.Name
	}
	if p.Location == "" {
		p.Location = def.Location
	}
	if p.Experience == "" {
		p.Experience = def.Experience
	}
	if p.Highlights == "" {
		p.Highlights = def.Highlights
	}
	if len(p.KeyWins) == 0 {
		p.KeyWins = def.KeyWins
	}
	return p
}
