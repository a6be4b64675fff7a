package main

// Page identifies one of the persona journey pages
type Page int

const (
	PageProfile Page = iota
	PageTaxation
	PageSpending
	PageInfluence
	PageEngagement
	PageSynthesis
)

// JourneyPages lists the sub-pages in navigation order (profile excluded)
var JourneyPages = []Page{PageTaxation, PageSpending, PageInfluence, PageEngagement, PageSynthesis}

func (p Page) String() string {
	switch p {
	case PageProfile:
		return "Profile"
	case PageTaxation:
		return "Taxation"
	case PageSpending:
		return "Public Spending"
	case PageInfluence:
		return "Political Influence"
	case PageEngagement:
		return "Voter Engagement"
	case PageSynthesis:
		return "Synthesis"
	default:
		return "Unknown"
	}
}

// Slug returns the URL path segment for the page
func (p Page) Slug() string {
	switch p {
	case PageTaxation:
		return "taxation"
	case PageSpending:
		return "spending"
	case PageInfluence:
		return "influence"
	case PageEngagement:
		return "engagement"
	case PageSynthesis:
		return "synthesis"
	default:
		return ""
	}
}

// ParsePage maps a URL segment back to a Page
func ParsePage(slug string) (Page, bool) {
	if slug == "" {
		return PageProfile, true
	}
	for _, p := range JourneyPages {
		if p.Slug() == slug {
			return p, true
		}
	}
	return PageProfile, false
}

// Next returns the page that follows p in the journey, or false at the end
func (p Page) Next() (Page, bool) {
	if p == PageProfile {
		return PageTaxation, true
	}
	for i, jp := range JourneyPages {
		if jp == p && i+1 < len(JourneyPages) {
			return JourneyPages[i+1], true
		}
	}
	return p, false
}

// Previous returns the page before p, with the profile as the first page
func (p Page) Previous() (Page, bool) {
	for i, jp := range JourneyPages {
		if jp == p {
			if i == 0 {
				return PageProfile, true
			}
			return JourneyPages[i-1], true
		}
	}
	return p, false
}

// Persona is one of the fixed Zurich residents the visitor can follow
type Persona struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	FullName        string   `json:"fullName"`
	Occupation      string   `json:"occupation"`
	Age             int      `json:"age"`
	Location        string   `json:"location"`
	Income          float64  `json:"income"`        // Gross annual income (CHF)
	Assets          string   `json:"assets"`
	TaxMultiplier   float64  `json:"taxMultiplier"` // Municipal multiplier shown on the profile (%)
	Municipality    string   `json:"municipality"`
	ShortBio        string   `json:"shortBio"`
	Characteristics []string `json:"characteristics"`
	ImagePath       string   `json:"imagePath"`
}

// Initial returns the first letter of the persona's name, used for avatars
func (p Persona) Initial() string {
	for _, r := range p.Name {
		return string(r)
	}
	return "?"
}

// PersonasDocument is the personas.json fixture
type PersonasDocument struct {
	Personas []Persona `json:"personas"`
}

// TaxBracket is one contiguous income range taxed at a single marginal rate
type TaxBracket struct {
	LowerBound float64 `json:"lowerBound"`
	UpperBound float64 `json:"upperBound"`
	Rate       float64 `json:"rate"` // Percentage, e.g. 2.64 = 2.64%
}

// MunicipalityMultiplier is an entry of the cantonal multiplier list
type MunicipalityMultiplier struct {
	Municipality string  `json:"municipality"`
	Multiplier   float64 `json:"multiplier"`
}

// CantonalRates holds the cantonal base rate and the per-municipality list
type CantonalRates struct {
	BaseRate    float64                  `json:"baseRate"` // Percentage of federal tax
	Multipliers []MunicipalityMultiplier `json:"multipliers"`
}

// RateSchedule is the rate part of tax-data.json
type RateSchedule struct {
	Federal   []TaxBracket       `json:"federal"`
	Cantonal  CantonalRates      `json:"cantonal"`
	Municipal map[string]float64 `json:"municipal"` // Municipality name -> multiplier (%)
}

// DeductionSchedule holds the static deduction parameters
type DeductionSchedule struct {
	Standard                float64 `json:"standard"`
	ProfessionalExpenses    float64 `json:"professionalExpenses"` // Fraction of income, e.g. 0.03
	MaxProfessionalExpenses float64 `json:"maxProfessionalExpenses"`
	HealthInsurance         float64 `json:"healthInsurance"`
	ThirdPillar             float64 `json:"thirdPillar"`
}

// TaxData is the tax-data.json fixture
type TaxData struct {
	TaxRates   RateSchedule      `json:"taxRates"`
	Deductions DeductionSchedule `json:"deductions"`
}

// Deductions is the itemized deduction result for one income
type Deductions struct {
	Standard        float64 `json:"standard"`
	Professional    float64 `json:"professional"`
	HealthInsurance float64 `json:"health_insurance"`
	ThirdPillar     float64 `json:"third_pillar"`
	Total           float64 `json:"total"`
}

// TaxBreakdown is the rounded result of a tax computation. Never persisted.
type TaxBreakdown struct {
	Federal       float64 `json:"federal"`
	Cantonal      float64 `json:"cantonal"`
	Municipal     float64 `json:"municipal"`
	Total         float64 `json:"total"`
	EffectiveRate float64 `json:"effective_rate"` // Percentage, one decimal
}

// BracketContribution is the federal tax owed inside one bracket
type BracketContribution struct {
	Bracket TaxBracket `json:"bracket"`
	Taxed   float64    `json:"taxed"` // Portion of taxable income inside the bracket
	Tax     float64    `json:"tax"`
}

// TaxDetail carries the unrounded intermediate values behind a breakdown,
// used by the PDF report and the console output
type TaxDetail struct {
	Income        float64               `json:"income"`
	Municipality  string                `json:"municipality"`
	Multiplier    float64               `json:"multiplier"`
	Deductions    Deductions            `json:"deductions"`
	TaxableIncome float64               `json:"taxable_income"`
	Brackets      []BracketContribution `json:"brackets"`
	MarginalRate  float64               `json:"marginal_rate"`
	Breakdown     TaxBreakdown          `json:"breakdown"`
}

// TaxComparison is one row of the cross-persona comparison table
type TaxComparison struct {
	Persona   Persona      `json:"persona"`
	Breakdown TaxBreakdown `json:"breakdown"`
}

// SpendingCategory is a share of a government budget
type SpendingCategory struct {
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
	Amount     float64 `json:"amount"`
}

// PersonaBenefit is a public service a persona uses
type PersonaBenefit struct {
	Category    string `json:"category"`
	Description string `json:"description"`
}

// SpendingData is the spending-data.json fixture
type SpendingData struct {
	GovernmentSpending struct {
		Canton struct {
			Categories []SpendingCategory `json:"categories"`
		} `json:"canton"`
		Federal struct {
			Categories []SpendingCategory `json:"categories"`
		} `json:"federal"`
		PersonaBenefits map[string][]PersonaBenefit `json:"personaBenefits"`
	} `json:"governmentSpending"`
}

// WealthShare is the share of total wealth held by a population group
type WealthShare struct {
	Group       string  `json:"group"`
	WealthShare float64 `json:"wealthShare"`
}

// CampaignDonation is an example of campaign financing
type CampaignDonation struct {
	Donor     string  `json:"donor"`
	Amount    float64 `json:"amount"`
	Recipient string  `json:"recipient"`
}

// PoliticalAccess describes how a persona reaches decision-makers
type PoliticalAccess struct {
	Description string `json:"description"`
}

// LobbyingMechanism describes one channel of indirect influence
type LobbyingMechanism struct {
	Mechanism   string `json:"mechanism"`
	Description string `json:"description"`
}

// InfluenceData is the influence-data.json fixture
type InfluenceData struct {
	WealthInfluence struct {
		WealthDistribution struct {
			Switzerland   []WealthShare `json:"switzerland"`
			CantonChanges []WealthShare `json:"cantonChanges,omitempty"`
		} `json:"wealthDistribution"`
		PoliticalAccess map[string]PoliticalAccess `json:"politicalAccess"`
		CampaignFinancing struct {
			Examples []CampaignDonation `json:"examples"`
		} `json:"campaignFinancing"`
		LobbyingMechanisms []LobbyingMechanism `json:"lobbyingMechanisms"`
	} `json:"wealthInfluence"`
}

// Turnout is voter turnout for a group. Education rows use Level, the
// others use Group.
type Turnout struct {
	Level   string  `json:"level,omitempty"`
	Group   string  `json:"group,omitempty"`
	Turnout float64 `json:"turnout"`
}

// Label returns whichever of Level or Group is set
func (t Turnout) Label() string {
	if t.Level != "" {
		return t.Level
	}
	return t.Group
}

// ParticipationBarrier is an obstacle to voting with an impact score of 0-10
type ParticipationBarrier struct {
	Barrier     string  `json:"barrier"`
	Impact      float64 `json:"impact"`
	Description string  `json:"description"`
}

// PolicyAlignment is how closely policy outcomes follow an income group's preferences
type PolicyAlignment struct {
	IncomeGroup string  `json:"incomeGroup"`
	Alignment   float64 `json:"alignment"`
	Description string  `json:"description"`
}

// ZurichTurnout holds the turnout statistics for the canton
type ZurichTurnout struct {
	NationalCouncil2023 float64   `json:"nationalCouncil2023"`
	FederalAverage      float64   `json:"federalAverage"`
	ByEducation         []Turnout `json:"byEducation"`
	ByIncome            []Turnout `json:"byIncome"`
	ByAge               []Turnout `json:"byAge"`
}

// EngagementData is the engagement-data.json fixture
type EngagementData struct {
	VoterEngagement struct {
		TurnoutRates struct {
			Zurich ZurichTurnout `json:"zurich"`
		} `json:"turnoutRates"`
		ParticipationBarriers map[string][]ParticipationBarrier `json:"participationBarriers"`
		RepresentationEffects struct {
			PolicyAlignment []PolicyAlignment `json:"policyAlignment"`
			KeyFindings     []string          `json:"keyFindings"`
		} `json:"representationEffects"`
	} `json:"voterEngagement"`
}
