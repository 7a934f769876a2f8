package config

import (
	"fmt"
	"strings"

	"github.com/de-tools/pillar-atlas/pkg/models/domain"
	"github.com/de-tools/pillar-atlas/pkg/services/columns"
	"gopkg.in/ini.v1"
)

var knownFields = map[string]domain.Field{
	string(domain.FieldRevenue):      domain.FieldRevenue,
	string(domain.FieldExpense):      domain.FieldExpense,
	string(domain.FieldTax):          domain.FieldTax,
	string(domain.FieldTopUpTax):     domain.FieldTopUpTax,
	string(domain.FieldJurisdiction): domain.FieldJurisdiction,
	string(domain.FieldEntity):       domain.FieldEntity,
}

// LoadSynonyms reads a synonym registry. Each section names a field and may carry comma
// separated exact, synonyms and exclude keys:
//
//	[revenue]
//	exact = net sales, הכנסות נטו
//	synonyms = proceeds
func LoadSynonyms(path string) (map[domain.Field]columns.SynonymOverride, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load synonyms file: %w", err)
	}

	overrides := make(map[domain.Field]columns.SynonymOverride)
	for _, section := range cfg.Sections() {
		if len(section.Keys()) == 0 {
			continue
		}
		field, ok := knownFields[strings.ToLower(strings.TrimSpace(section.Name()))]
		if !ok {
			return nil, fmt.Errorf("unknown field in synonyms file: %s", section.Name())
		}
		overrides[field] = columns.SynonymOverride{
			Exact:    splitList(section.Key("exact").String()),
			Synonyms: splitList(section.Key("synonyms").String()),
			Exclude:  splitList(section.Key("exclude").String()),
		}
	}
	return overrides, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
