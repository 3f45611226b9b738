package flows

import "github.com/bahrain-bp/bqa-insight-ai/pkg/domain"

// Intents of the bot.
const (
	IntentMenu     = domain.RootIntent
	IntentAnalyze  = "AnalyzingIntent"
	IntentCompare  = "ComparingIntent"
	IntentStandard = "StandardIntent"
	IntentFollowUp = domain.FollowUpIntent
)

// Slots of the bot. The names are shared with the platform's bot definition.
const (
	SlotMenu = domain.RootSlot

	SlotInstituteType     = "InstituteTypeSlot"
	SlotSchoolAspect      = "SchoolAspectSlot"
	SlotAnalyzeSchool     = "AnalyzeSchoolSlot"
	SlotVocationalAspect  = "VocationalAspectSlot"
	SlotAnalyzeVocational = "AnalyzeVocationalSlot"
	SlotAnalyzeUniversity = "AnalyzeUniversitySlot"
	SlotProgramName       = "ProgramNameSlot"
	SlotStandardProg      = "StandardProgSlot"
	SlotUniversityName    = "AnalyzeUniversityNameSlot"
	SlotStandard          = "StandardSlot"

	SlotCompareType             = "InstituteCompareTypeSlot"
	SlotCompareSchoolAspect     = "CompareSchoolAspectlSlot"
	SlotCompareSchool           = "CompareSchoolSlot"
	SlotGovernorate             = "GovernorateSlot"
	SlotCompareSpecific         = "CompareSpecificInstitutesSlot"
	SlotCompareVocationalAspect = "CompareVocationalaspectSlot"
	SlotCompareVocational       = "CompareVocationalSlot"
	SlotCompareUniversity       = "CompareUniversitySlot"
	SlotCompareUni              = "CompareUniSlot"
	SlotCompareUniversityWith   = "CompareUniversityWUniSlot"
	SlotCompareProgramsStandard = "CompareUniversityWProgramsSlot"
	SlotComparePrograms         = "CompareUniversityWprogSlot"

	SlotFollowUp = domain.FollowUpSlot
)

// Option values of the branching slots.
const (
	OptionAnalyze = "Analyze"
	OptionCompare = "Compare"
	OptionOther   = "Other"

	OptionSchool     = "School"
	OptionVocational = "Vocational training center"
	OptionUniversity = "University"

	OptionProgramReview       = "Program Review"
	OptionInstitutionalReview = "Institutional Review"

	OptionGovernorate   = "Governorate"
	OptionSpecific      = "Specific Institutes"
	OptionAllGovernment = "All Government Schools"
	OptionAllPrivate    = "All Private Schools"

	OptionCompareInstitutional = "Institutional review"
	OptionComparePrograms      = "Programs"
)

var slotPrompts = map[string]string{
	SlotMenu:              "Welcome to BQA Insight. Would you like to Analyze, Compare, or ask about something Other?",
	SlotInstituteType:     "Which type of institute would you like to analyze?",
	SlotSchoolAspect:      "Which aspect of the school would you like to analyze?",
	SlotAnalyzeSchool:     "What is the name of the school?",
	SlotVocationalAspect:  "Which aspect of the vocational training center would you like to analyze?",
	SlotAnalyzeVocational: "What is the name of the vocational training center?",
	SlotAnalyzeUniversity: "Would you like a Program Review or an Institutional Review?",
	SlotProgramName:       "What is the name of the program?",
	SlotStandardProg:      "Which program review standard are you interested in?",
	SlotUniversityName:    "What is the name of the university?",
	SlotStandard:          "Which institutional review standard are you interested in?",

	SlotCompareType:             "Which type of institutes would you like to compare?",
	SlotCompareSchoolAspect:     "Which aspect would you like to compare the schools on?",
	SlotCompareSchool:           "Which schools would you like to compare?",
	SlotGovernorate:             "Which governorate?",
	SlotCompareSpecific:         "Which schools would you like to compare? Separate the names with commas.",
	SlotCompareVocationalAspect: "Which aspect would you like to compare the vocational training centers on?",
	SlotCompareVocational:       "Which vocational training centers would you like to compare?",
	SlotCompareUniversity:       "Would you like to compare an Institutional review or Programs?",
	SlotCompareUni:              "Which university would you like to compare?",
	SlotCompareUniversityWith:   "Which universities would you like to compare it with?",
	SlotCompareProgramsStandard: "Which program review standard would you like to compare?",
	SlotComparePrograms:         "Which programs would you like to compare?",

	SlotFollowUp: "What are the questions in your mind?",
}

// SlotPrompt returns the question the platform asks for slot.
func SlotPrompt(slot string) (string, bool) {
	p, ok := slotPrompts[slot]
	return p, ok
}
