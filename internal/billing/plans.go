package billing

import "fmt"

// Plan is a purchasable subscription tier. The catalog is static; the
// payment provider holds the authoritative plan objects and we key into
// them by PlanID per mode.
type Plan struct {
	Key         string `json:"key"`      // e.g. "solo_monthly"
	Name        string `json:"name"`     // display name
	Period      string `json:"period"`   // "monthly" or "yearly"
	AmountPaise int64  `json:"amount"`   // smallest currency unit
	Currency    string `json:"currency"` // "INR"
	TestPlanID  string `json:"-"`        // provider plan id, test mode
	LivePlanID  string `json:"-"`        // provider plan id, live mode
	Description string `json:"description"`
}

var planCatalog = []Plan{
	{
		Key:         "solo_monthly",
		Name:        "Solo Monthly",
		Period:      "monthly",
		AmountPaise: 79900,
		Currency:    "INR",
		TestPlanID:  "plan_solo_m_test",
		LivePlanID:  "plan_solo_m_live",
		Description: "Single seat, unlimited projects and AI drafting",
	},
	{
		Key:         "solo_yearly",
		Name:        "Solo Yearly",
		Period:      "yearly",
		AmountPaise: 799000,
		Currency:    "INR",
		TestPlanID:  "plan_solo_y_test",
		LivePlanID:  "plan_solo_y_live",
		Description: "Single seat, two months free",
	},
	{
		Key:         "studio_monthly",
		Name:        "Studio Monthly",
		Period:      "monthly",
		AmountPaise: 249900,
		Currency:    "INR",
		TestPlanID:  "plan_studio_m_test",
		LivePlanID:  "plan_studio_m_live",
		Description: "Five seats, shared projects and templates",
	},
	{
		Key:         "studio_yearly",
		Name:        "Studio Yearly",
		Period:      "yearly",
		AmountPaise: 2499000,
		Currency:    "INR",
		TestPlanID:  "plan_studio_y_test",
		LivePlanID:  "plan_studio_y_live",
		Description: "Five seats, two months free",
	},
}

// Plans returns the static plan catalog.
func Plans() []Plan {
	out := make([]Plan, len(planCatalog))
	copy(out, planCatalog)
	return out
}

// PlanByKey looks up a plan in the catalog.
func PlanByKey(key string) (Plan, error) {
	for _, p := range planCatalog {
		if p.Key == key {
			return p, nil
		}
	}
	return Plan{}, fmt.Errorf("unknown plan %q", key)
}

// ProviderPlanID returns the payment provider's plan id for the given mode.
func (p Plan) ProviderPlanID(mode string) (string, error) {
	switch mode {
	case "test":
		return p.TestPlanID, nil
	case "live":
		return p.LivePlanID, nil
	default:
		return "", fmt.Errorf("invalid mode: %s", mode)
	}
}
