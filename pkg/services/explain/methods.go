package explain

import "github.com/de-tools/pillar-atlas/pkg/models/domain"

var methodLabels = map[domain.Method]domain.Text{
	domain.MethodDirectSum: domain.NewText(
		"Direct sum of source columns",
		"סכום ישיר של עמודות המקור"),
	domain.MethodDirectSumZero: domain.NewText(
		"Tax column present, values zero or empty",
		"עמודת מס קיימת, הערכים אפס או ריקים"),
	domain.MethodInferredColumn: domain.NewText(
		"Sum of a column inferred from its values",
		"סכום של עמודה שזוהתה לפי ערכיה"),
	domain.MethodEstimatedDefaultRate: domain.NewText(
		"Standard corporate tax rate estimate",
		"הערכה לפי שיעור מס חברות סטנדרטי"),
	domain.MethodDerived: domain.NewText(
		"Derived from other computed figures",
		"נגזר מנתונים מחושבים אחרים"),
	domain.MethodRatio: domain.NewText(
		"Ratio of computed figures",
		"יחס בין נתונים מחושבים"),
	domain.MethodJurisdictionMean: domain.NewText(
		"Mean of per-jurisdiction effective tax rates",
		"ממוצע שיעורי המס האפקטיביים לפי תחום שיפוט"),
	domain.MethodAdjustedIncome: domain.NewText(
		"Pretax profit adjusted for recognised tax adjustments",
		"רווח לפני מס מותאם להתאמות המס שזוהו"),
	domain.MethodNotApplicable: domain.NewText(
		"Not computable from the available data",
		"לא ניתן לחישוב מהנתונים הזמינים"),
}

// MethodLabel returns the bilingual label of a method.
func MethodLabel(m domain.Method) domain.Text {
	if label, ok := methodLabels[m]; ok {
		return label
	}
	return domain.NewText(string(m), string(m))
}

var zeroTaxCauses = map[domain.ZeroTaxCause]domain.Text{
	domain.ZeroTaxNoColumn: domain.NewText(
		"no tax column was found in the dataset",
		"לא נמצאה עמודת מס בקובץ הנתונים"),
	domain.ZeroTaxNoRevenue: domain.NewText(
		"revenue is zero or negative, so there is no taxable income",
		"ההכנסות הן אפס או שליליות ולכן אין הכנסה חייבת"),
	domain.ZeroTaxValuesZero: domain.NewText(
		"the tax column is present but all of its values are zero or empty",
		"עמודת המס קיימת אך כל ערכיה אפס או ריקים"),
}

// ZeroTaxCauseText describes why taxes are zero.
func ZeroTaxCauseText(c domain.ZeroTaxCause) domain.Text {
	return zeroTaxCauses[c]
}
