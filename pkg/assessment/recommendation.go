package assessment

// CareType is one of the two recommendation variants.
type CareType string

const (
	CareTypeMemoryCare     CareType = "Memory Care"
	CareTypeAssistedLiving CareType = "Assisted Living"
)

// CareRecommendation is produced once, at submission, and held until restart.
type CareRecommendation struct {
	Type        CareType `json:"type" yaml:"type"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	SuiteImages []string `json:"suiteImages" yaml:"suiteImages"`
	Features    []string `json:"features" yaml:"features"`
}

type recommendationTemplate struct {
	careType     CareType
	description  string
	coupleImages []string
	singleImages []string
	features     []string
}

var memoryCareTemplate = recommendationTemplate{
	careType: CareTypeMemoryCare,
	description: "Based on your responses, Memory Care might provide the level of support and safety needed. " +
		"Our specialized memory care community offers 24/7 supervision, structured activities, and a secure " +
		"environment designed for residents with memory-related conditions.",
	coupleImages: []string{"/suite-3.jpg", "/suite-5.jpg"},
	singleImages: []string{"/suite-3.jpg", "/suite-6.jpg"},
	features: []string{
		"24/7 specialized memory care support",
		"Secure, comfortable environment",
		"Structured daily activities and cognitive programs",
		"Medication management and health monitoring",
		"Family support and education services",
		"Person-centered care plans",
	},
}

var assistedLivingTemplate = recommendationTemplate{
	careType: CareTypeAssistedLiving,
	description: "Based on your responses, Assisted Living may be a great fit. Our assisted living community " +
		"provides the right balance of independence and support, allowing residents to maintain their " +
		"lifestyle while receiving the help they need.",
	coupleImages: []string{"/suite-2.jpg", "/suite-4.jpg"},
	singleImages: []string{"/suite-2.jpg", "/suite-4.jpg", "/suite-6.jpg"},
	features: []string{
		"Personalized assistance with daily activities",
		"Medication management and health coordination",
		"Housekeeping, laundry, and maintenance services",
		"Social activities and wellness programs",
		"24/7 emergency response system",
		"Restaurant-style dining with nutritious meals",
	},
}

func (t recommendationTemplate) build(couple bool) CareRecommendation {
	images := t.singleImages
	if couple {
		images = t.coupleImages
	}
	return CareRecommendation{
		Type:        t.careType,
		Title:       string(t.careType),
		Description: t.description,
		SuiteImages: cloneStrings(images),
		Features:    cloneStrings(t.features),
	}
}
