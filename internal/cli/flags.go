package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/programhub/internal/domain"
	"github.com/spf13/pflag"
)

// statusValue is a pflag.Value accepting NOT_STARTED, IN_PROGRESS or DONE in
// any case, with "-" or " " in place of "_".
type statusValue struct{ p *domain.WorkStatus }

var _ pflag.Value = statusValue{}

func newStatusValue(p *domain.WorkStatus) statusValue { return statusValue{p: p} }

func (v statusValue) String() string {
	if v.p == nil {
		return ""
	}
	return string(*v.p)
}

func (v statusValue) Set(s string) error {
	norm := strings.NewReplacer("-", "_", " ", "_").Replace(strings.ToUpper(strings.TrimSpace(s)))
	if !domain.ValidWorkStatuses[norm] {
		return fmt.Errorf("must be one of not_started, in_progress, done")
	}
	*v.p = domain.WorkStatus(norm)
	return nil
}

func (v statusValue) Type() string { return "status" }

// unknownsValue accepts any spelling domain.LookupUnknownsLevel understands.
type unknownsValue struct{ p *domain.UnknownsLevel }

var _ pflag.Value = unknownsValue{}

func newUnknownsValue(p *domain.UnknownsLevel) unknownsValue { return unknownsValue{p: p} }

func (v unknownsValue) String() string {
	if v.p == nil {
		return ""
	}
	return string(*v.p)
}

func (v unknownsValue) Set(s string) error {
	l, ok := domain.LookupUnknownsLevel(s)
	if !ok {
		return fmt.Errorf("must be one of none, low, low-moderate, high, very-high")
	}
	*v.p = l
	return nil
}

func (v unknownsValue) Type() string { return "unknowns" }

// integrationValue accepts any spelling domain.LookupIntegrationLevel understands.
type integrationValue struct{ p *domain.IntegrationLevel }

var _ pflag.Value = integrationValue{}

func newIntegrationValue(p *domain.IntegrationLevel) integrationValue {
	return integrationValue{p: p}
}

func (v integrationValue) String() string {
	if v.p == nil {
		return ""
	}
	return string(*v.p)
}

func (v integrationValue) Set(s string) error {
	l, ok := domain.LookupIntegrationLevel(s)
	if !ok {
		return fmt.Errorf("must be one of single, 1-2, multiple, cross-team")
	}
	*v.p = l
	return nil
}

func (v integrationValue) Type() string { return "integration" }

type outputFormat string

const (
	outputText outputFormat = "text"
	outputJSON outputFormat = "json"
)

// outputValue selects between styled text and JSON output.
type outputValue struct{ p *outputFormat }

var _ pflag.Value = outputValue{}

func newOutputValue(p *outputFormat) outputValue {
	*p = outputText
	return outputValue{p: p}
}

func (v outputValue) String() string {
	if v.p == nil {
		return string(outputText)
	}
	return string(*v.p)
}

func (v outputValue) Set(s string) error {
	switch f := outputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case outputText, outputJSON:
		*v.p = f
		return nil
	default:
		return fmt.Errorf("must be text or json")
	}
}

func (v outputValue) Type() string { return "format" }

// addOutputFlag registers -o/--output on fs.
func addOutputFlag(fs *pflag.FlagSet, p *outputFormat) {
	fs.VarP(newOutputValue(p), "output", "o", "output format (text|json)")
}
