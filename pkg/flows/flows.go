// Package flows declares the dialog trees of the BQA Insight bot.
package flows

import (
	"context"
	"fmt"

	"github.com/bahrain-bp/bqa-insight-ai/pkg/domain"
	"github.com/bahrain-bp/bqa-insight-ai/pkg/dsl"
	"github.com/bahrain-bp/bqa-insight-ai/pkg/prompts"
)

// Mapper turns the collected slot values into template data.
type Mapper func(v domain.Values) prompts.Data

// Render builds a prompt callback that renders template name with the data produced by m.
func Render(lib *prompts.Library, name string, m Mapper) domain.PromptFunc {
	return func(ctx context.Context, v domain.Values) (string, error) {
		return lib.Render(name, m(v))
	}
}

// Trees builds the step tree of every intent, rendering prompts from lib.
func Trees(lib *prompts.Library) (map[string]*domain.Step, error) {
	if lib == nil {
		return nil, fmt.Errorf("flows: nil prompt library")
	}
	b := dsl.New()

	b.Intent(IntentMenu).
		Branch(SlotMenu).
		Option(OptionAnalyze).Handoff(IntentAnalyze, SlotInstituteType).End().
		Option(OptionCompare).Handoff(IntentCompare, SlotCompareType).End().
		Option(OptionOther).Handoff(IntentFollowUp, SlotFollowUp)

	analyze := b.Intent(IntentAnalyze).Branch(SlotInstituteType)
	analyze.Option(OptionSchool).
		Require(SlotSchoolAspect, SlotAnalyzeSchool).
		Prompt(Render(lib, prompts.AnalyzeSchool, AnalyzeSchoolData))
	analyze.Option(OptionVocational).
		Require(SlotVocationalAspect, SlotAnalyzeVocational).
		Prompt(Render(lib, prompts.AnalyzeVocational, AnalyzeVocationalData))
	university := analyze.Option(OptionUniversity).Branch(SlotAnalyzeUniversity)
	university.Option(OptionProgramReview).
		Require(SlotProgramName, SlotStandardProg).
		Prompt(Render(lib, prompts.AnalyzeProgram, AnalyzeProgramData))
	university.Option(OptionInstitutionalReview).
		Require(SlotUniversityName).
		Handoff(IntentStandard, SlotStandard)

	b.Intent(IntentStandard).
		Require(SlotStandard).
		Prompt(Render(lib, prompts.AnalyzeUniversity, AnalyzeUniversityData))

	compare := b.Intent(IntentCompare).Branch(SlotCompareType)
	schools := compare.Option(OptionSchool).
		Require(SlotCompareSchoolAspect).
		Branch(SlotCompareSchool)
	schools.Option(OptionGovernorate).
		Require(SlotGovernorate).
		Prompt(Render(lib, prompts.CompareSchools, CompareSchoolsData))
	schools.Option(OptionSpecific).
		Require(SlotCompareSpecific).
		Prompt(Render(lib, prompts.CompareSchools, CompareSchoolsData))
	schools.Option(OptionAllGovernment).
		Prompt(Render(lib, prompts.CompareSchools, CompareSchoolsData))
	schools.Option(OptionAllPrivate).
		Prompt(Render(lib, prompts.CompareSchools, CompareSchoolsData))
	compare.Option(OptionVocational).
		Require(SlotCompareVocationalAspect, SlotCompareVocational).
		Prompt(Render(lib, prompts.CompareVocational, CompareVocationalData))
	universities := compare.Option(OptionUniversity).Branch(SlotCompareUniversity)
	universities.Option(OptionCompareInstitutional).
		Require(SlotCompareUni, SlotCompareUniversityWith).
		Prompt(Render(lib, prompts.CompareUniversities, CompareUniversitiesData))
	universities.Option(OptionComparePrograms).
		Require(SlotCompareProgramsStandard, SlotComparePrograms).
		Prompt(Render(lib, prompts.ComparePrograms, CompareProgramsData))

	b.Intent(IntentFollowUp).
		Require(SlotFollowUp).
		Prompt(Render(lib, prompts.FollowUp, FollowUpData))

	return b.Build()
}

// AnalyzeSchoolData maps a school analysis.
func AnalyzeSchoolData(v domain.Values) prompts.Data {
	return prompts.Data{Subject: v[SlotAnalyzeSchool], Aspect: v[SlotSchoolAspect]}
}

// AnalyzeVocationalData maps a vocational training center analysis.
func AnalyzeVocationalData(v domain.Values) prompts.Data {
	return prompts.Data{Subject: v[SlotAnalyzeVocational], Aspect: v[SlotVocationalAspect]}
}

// AnalyzeProgramData maps a programme review.
func AnalyzeProgramData(v domain.Values) prompts.Data {
	return prompts.Data{Subject: v[SlotProgramName], Aspect: v[SlotStandardProg]}
}

// AnalyzeUniversityData maps an institutional review. The university comes from the
// stashed AnalyzingIntent slots.
func AnalyzeUniversityData(v domain.Values) prompts.Data {
	return prompts.Data{Subject: v[SlotUniversityName], Aspect: v[SlotStandard]}
}

// CompareSchoolsData maps every school comparison branch.
func CompareSchoolsData(v domain.Values) prompts.Data {
	d := prompts.Data{Aspect: v[SlotCompareSchoolAspect]}
	switch v[SlotCompareSchool] {
	case OptionGovernorate:
		d.Governorate = v[SlotGovernorate]
	case OptionSpecific:
		d.Subject = v[SlotCompareSpecific]
	case OptionAllGovernment:
		d.Scope = OptionAllGovernment
		d.AllGovernment = true
	case OptionAllPrivate:
		d.Scope = OptionAllPrivate
		d.AllPrivate = true
	default:
		d.Scope = v[SlotCompareSchool]
	}
	return d
}

// CompareVocationalData maps a vocational training center comparison.
func CompareVocationalData(v domain.Values) prompts.Data {
	return prompts.Data{Subject: v[SlotCompareVocational], Aspect: v[SlotCompareVocationalAspect]}
}

// CompareUniversitiesData maps an institutional review comparison.
func CompareUniversitiesData(v domain.Values) prompts.Data {
	return prompts.Data{Subject: v[SlotCompareUni], Others: v[SlotCompareUniversityWith]}
}

// CompareProgramsData maps a programme comparison.
func CompareProgramsData(v domain.Values) prompts.Data {
	return prompts.Data{Subject: v[SlotComparePrograms], Aspect: v[SlotCompareProgramsStandard]}
}

// FollowUpData maps a free-text question.
func FollowUpData(v domain.Values) prompts.Data {
	return prompts.Data{Question: v[SlotFollowUp]}
}
