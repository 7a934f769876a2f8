package qa

import "github.com/de-tools/pillar-atlas/pkg/models/domain"

var (
	qTotalRevenue  = domain.NewText("What is the total revenue?", "מהי ההכנסה הכוללת?")
	qMainExpenses  = domain.NewText("What are the main expenses?", "מהם ההוצאות העיקריות?")
	qNetProfit     = domain.NewText("What is the net profit?", "מהו הרווח הנקי?")
	qTotalTax      = domain.NewText("What is the total tax?", "מהו סך המס?")
	qWhyTaxZero    = domain.NewText("Why is the tax zero?", "למה המס הוא אפס?")
	qETR           = domain.NewText("What is the effective tax rate?", "מהו שיעור המס האפקטיבי?")
	qJurisdictions = domain.NewText("How is the data distributed by jurisdictions?", "איך מתחלקים הנתונים לפי מדינות?")
	qAdjustments   = domain.NewText("What tax adjustments apply?", "אילו התאמות מס חלות?")
)

var related = map[domain.Intent][]domain.Text{
	domain.IntentWhyTaxZero:            {qTotalTax, qETR, qNetProfit},
	domain.IntentTotalTax:              {qWhyTaxZero, qETR, qJurisdictions},
	domain.IntentTotalRevenue:          {qMainExpenses, qNetProfit, qJurisdictions},
	domain.IntentTotalExpenses:         {qTotalRevenue, qNetProfit},
	domain.IntentNetProfit:             {qTotalRevenue, qMainExpenses, qTotalTax},
	domain.IntentETRExplanation:        {qJurisdictions, qTotalTax, qWhyTaxZero},
	domain.IntentJurisdictionBreakdown: {qETR, qTotalRevenue},
	domain.IntentTaxAdjustments:        {qTotalTax, qETR, qNetProfit},
	domain.IntentUnrecognized:          {qTotalRevenue, qMainExpenses, qNetProfit},
}

var suggestions = []domain.Text{
	domain.NewText("What is the total revenue of the company?", "מהי ההכנסה הכוללת של החברה?"),
	qMainExpenses,
	qNetProfit,
	qJurisdictions,
	qETR,
	qTotalTax,
	qWhyTaxZero,
	qAdjustments,
}

func relatedQuestions(intent domain.Intent, lang domain.Language) []string {
	qs := related[intent]
	out := make([]string, 0, len(qs))
	for _, q := range qs {
		out = append(out, q.Render(lang))
	}
	return out
}
