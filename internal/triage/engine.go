// Package triage classifies a free-text chatbot message into an emergency
// level, self-care advice or a doctor referral.
package triage

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityUrgent   Severity = "urgent"
)

// Outcome names the rule that produced a Result
type Outcome string

const (
	OutcomeEmergency    Outcome = "emergency"
	OutcomeSelfCare     Outcome = "self_care"
	OutcomeMultiSymptom Outcome = "multi_symptom"
	OutcomeReferral     Outcome = "referral"
	OutcomeSmallTalk    Outcome = "small_talk"
	OutcomeFallback     Outcome = "fallback"
)

const (
	DefaultFeverThreshold = 103
	EmergencyTypeFever    = "high_fever"
	EmergencyTypeGeneral  = "general"
)

type Result struct {
	Message        string
	Outcome        Outcome
	IsEmergency    bool
	Severity       Severity
	EmergencyType  string
	ReferToDoctor  bool
	DoctorID       *uuid.UUID
	DoctorName     string
	Specialization string
	Symptoms       []string
}

type Doctor struct {
	ID             uuid.UUID
	Name           string
	Specialization string
}

// DoctorFinder returns a doctor practicing the specialization, or nil when there is none
type DoctorFinder interface {
	FindBySpecialization(ctx context.Context, specialization string) (*Doctor, error)
}

var (
	feverPattern = regexp.MustCompile(`(\d+)(?:\.\d+)?\s*(?:degrees?|°|fahrenheit|f\b)`)
	wordPattern  = regexp.MustCompile(`[a-z']+`)
)

type Engine struct {
	finder         DoctorFinder
	log            *logrus.Logger
	feverThreshold int
}

func NewEngine(finder DoctorFinder, log *logrus.Logger, feverThreshold int) *Engine {
	if feverThreshold <= 0 {
		feverThreshold = DefaultFeverThreshold
	}
	return &Engine{
		finder:         finder,
		log:            log,
		feverThreshold: feverThreshold,
	}
}

// Classify never fails: a message nothing matches gets the fallback reply.
func (e *Engine) Classify(ctx context.Context, message string) Result {
	text := strings.ToLower(strings.TrimSpace(message))

	if e.hasHighFever(text) {
		return emergency(SeverityCritical, EmergencyTypeFever)
	}
	if severity, category, ok := matchIntensity(text); ok {
		return emergency(severity, category)
	}
	if severity, emergencyType, ok := matchPhrases(text); ok {
		return emergency(severity, emergencyType)
	}
	words := wordSet(text)
	if severity, ok := matchSeverityVocabulary(words); ok {
		return emergency(severity, EmergencyTypeGeneral)
	}

	if symptoms := matchSymptoms(text); len(symptoms) > 0 {
		return selfCare(symptoms)
	}

	if result, ok := e.referral(ctx, words); ok {
		return result
	}
	for _, talk := range smallTalkReplies {
		if containsAnyWord(words, talk.words) {
			return Result{Message: talk.reply, Outcome: OutcomeSmallTalk}
		}
	}

	return Result{Message: fallbackReply, Outcome: OutcomeFallback}
}

func (e *Engine) hasHighFever(text string) bool {
	for _, match := range feverPattern.FindAllStringSubmatch(text, -1) {
		degrees, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		if degrees >= e.feverThreshold {
			return true
		}
	}
	return false
}

func matchIntensity(text string) (Severity, string, bool) {
	for _, category := range intensityCategories {
		if adjacentToModifier(text, category.critical, criticalModifiers) {
			return SeverityCritical, category.name, true
		}
		if adjacentToModifier(text, category.urgent, urgentModifiers) {
			return SeverityUrgent, category.name, true
		}
	}
	return "", "", false
}

// adjacentToModifier matches the modifier as a whole word ("very" never matches
// inside "every") while the keyword may still be part of a longer word.
func adjacentToModifier(text string, keywords, modifiers []string) bool {
	for _, keyword := range keywords {
		for _, modifier := range modifiers {
			if containsBounded(text, modifier+" "+keyword, true, false) || containsBounded(text, keyword+" "+modifier, false, true) {
				return true
			}
		}
	}
	return false
}

func matchPhrases(text string) (Severity, string, bool) {
	for _, p := range criticalPhrases {
		if strings.Contains(text, p.phrase) {
			return SeverityCritical, p.emergencyType, true
		}
	}
	for _, p := range urgentPhrases {
		if strings.Contains(text, p.phrase) {
			return SeverityUrgent, p.emergencyType, true
		}
	}
	return "", "", false
}

func matchSeverityVocabulary(words map[string]struct{}) (Severity, bool) {
	if !containsAnyWord(words, medicalTerms) {
		return "", false
	}
	if containsAnyWord(words, criticalVocabulary) {
		return SeverityCritical, true
	}
	if containsAnyWord(words, urgentVocabulary) {
		return SeverityUrgent, true
	}
	return "", false
}

func matchSymptoms(text string) []selfCareSymptom {
	var matched []selfCareSymptom
	for _, symptom := range selfCareSymptoms {
		if containsAny(text, symptom.aliases) {
			matched = append(matched, symptom)
		}
	}
	return matched
}

func (e *Engine) referral(ctx context.Context, words map[string]struct{}) (Result, bool) {
	if e.finder == nil {
		return Result{}, false
	}

	tried := make(map[string]struct{})
	for _, condition := range conditionReferrals {
		if _, ok := words[condition.word]; !ok {
			continue
		}
		if _, ok := tried[condition.specialization]; ok {
			continue
		}
		tried[condition.specialization] = struct{}{}

		doctor, err := e.finder.FindBySpecialization(ctx, condition.specialization)
		if err != nil {
			e.log.Warnf("Failed to find %s doctor for referral: %+v", condition.specialization, err)
			continue
		}
		if doctor == nil {
			continue
		}

		doctorID := doctor.ID
		return Result{
			Message: fmt.Sprintf(
				"Based on what you describe, a %s specialist can help. I recommend Dr. %s. Would you like to book an appointment?",
				condition.specialization, doctor.Name,
			),
			Outcome:        OutcomeReferral,
			ReferToDoctor:  true,
			DoctorID:       &doctorID,
			DoctorName:     doctor.Name,
			Specialization: condition.specialization,
		}, true
	}
	return Result{}, false
}

func emergency(severity Severity, emergencyType string) Result {
	label := strings.ReplaceAll(emergencyType, "_", " ")

	var message string
	if severity == SeverityCritical {
		message = fmt.Sprintf(
			"EMERGENCY (%s, severity: critical). Your symptoms may be life-threatening. Seek immediate medical attention: call your local emergency number or go to the nearest emergency room now.",
			label,
		)
	} else {
		guidance, ok := urgentGuidance[emergencyType]
		if !ok {
			guidance = genericUrgentGuidance
		}
		message = fmt.Sprintf(
			"URGENT (%s, severity: urgent). Your symptoms need medical attention within 24 hours. Please book an appointment with a doctor or visit an urgent care clinic. In the meantime: %s",
			label, guidance,
		)
	}

	return Result{
		Message:       message,
		Outcome:       OutcomeEmergency,
		IsEmergency:   true,
		Severity:      severity,
		EmergencyType: emergencyType,
	}
}

func selfCare(symptoms []selfCareSymptom) Result {
	names := make([]string, len(symptoms))
	for i, s := range symptoms {
		names[i] = s.name
	}

	if len(symptoms) == 1 {
		return Result{
			Message:  fmt.Sprintf("For your %s: %s", symptoms[0].name, symptoms[0].advice),
			Outcome:  OutcomeSelfCare,
			Symptoms: names,
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You mentioned several symptoms (%s). Here is some guidance for each:\n", strings.Join(names, ", "))
	for _, s := range symptoms {
		fmt.Fprintf(&b, "- %s: %s\n", s.name, s.advice)
	}
	b.WriteString("Since you have more than one symptom, we recommend seeing a doctor for a proper evaluation.")

	return Result{
		Message:       b.String(),
		Outcome:       OutcomeMultiSymptom,
		ReferToDoctor: true,
		Symptoms:      names,
	}
}

func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}

// containsBounded reports whether term occurs in text. With left or right set, the
// match must not be preceded or followed by a letter on that side.
func containsBounded(text, term string, left, right bool) bool {
	for offset := 0; offset < len(text); {
		i := strings.Index(text[offset:], term)
		if i < 0 {
			return false
		}
		start := offset + i
		end := start + len(term)
		if (!left || start == 0 || !isLetter(text[start-1])) && (!right || end == len(text) || !isLetter(text[end])) {
			return true
		}
		offset = start + 1
	}
	return false
}

func isLetter(b byte) bool {
	return b >= 'a' && b <= 'z'
}

func wordSet(text string) map[string]struct{} {
	words := make(map[string]struct{})
	for _, w := range wordPattern.FindAllString(text, -1) {
		words[w] = struct{}{}
	}
	return words
}

func containsAnyWord(words map[string]struct{}, candidates []string) bool {
	for _, c := range candidates {
		if _, ok := words[c]; ok {
			return true
		}
	}
	return false
}
