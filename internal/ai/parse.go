package ai

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/advocase-dev/advocase-store/pkg/schema"
)

const defaultNotes = "AI-generated summary. Please consult with your advocate for legal interpretation."

var (
	sectionHeader = regexp.MustCompile(`(?i)^\s*(GOALS|SERVICES|ACCOMMODATIONS|NOTES?|SUMMARY|DISCLAIMER)\s*:?\s*$`)
	itemSplit     = regexp.MustCompile(`\n|•|\*|^-|\s-\s|\d+\.`)
	digitsOnly    = regexp.MustCompile(`^[\d\s.]*$`)
)

// parseSummary walks the completion line by line, assigning bullet content
// to whichever section header was seen last. Sections the model skipped get
// a placeholder item so callers always have something to render.
func parseSummary(completion string, generatedAt time.Time) schema.IEPSummary {
	sections := map[string][]string{}
	var notes []string
	current := ""
	for _, line := range strings.Split(completion, "\n") {
		if m := sectionHeader.FindStringSubmatch(line); m != nil {
			current = canonicalSection(m[1])
			continue
		}
		// Inline headers like "GOALS: improve reading".
		if name, rest, ok := inlineHeader(line); ok {
			current = name
			line = rest
		}
		switch current {
		case "NOTES":
			if s := strings.TrimSpace(line); s != "" {
				notes = append(notes, s)
			}
		case "GOALS", "SERVICES", "ACCOMMODATIONS":
			sections[current] = append(sections[current], splitItems(line)...)
		}
	}

	return schema.IEPSummary{
		Goals:          orPlaceholder(cap10(sections["GOALS"]), "No specific goals identified"),
		Services:       orPlaceholder(cap10(sections["SERVICES"]), "No specific services identified"),
		Accommodations: orPlaceholder(cap10(sections["ACCOMMODATIONS"]), "No specific accommodations identified"),
		Notes:          orDefault(strings.TrimSpace(strings.Join(notes, " ")), defaultNotes),
		GeneratedAt:    generatedAt,
	}
}

func canonicalSection(name string) string {
	switch strings.ToUpper(name) {
	case "GOALS":
		return "GOALS"
	case "SERVICES":
		return "SERVICES"
	case "ACCOMMODATIONS":
		return "ACCOMMODATIONS"
	default:
		return "NOTES"
	}
}

func inlineHeader(line string) (section, rest string, ok bool) {
	trimmed := strings.TrimSpace(line)
	for _, name := range []string{"GOALS", "SERVICES", "ACCOMMODATIONS", "NOTES"} {
		if strings.HasPrefix(strings.ToUpper(trimmed), name+":") {
			return canonicalSection(name), trimmed[len(name)+1:], true
		}
	}
	return "", "", false
}

// splitItems breaks a line on bullet markers and drops fragments that are
// too short, purely numeric or leftover prompt placeholders.
func splitItems(line string) []string {
	var out []string
	for _, raw := range itemSplit.Split(line, -1) {
		item := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(raw), "-• \t"))
		if len(item) <= 5 || digitsOnly.MatchString(item) {
			continue
		}
		lower := strings.ToLower(item)
		if strings.Contains(lower, "[goal") || strings.Contains(lower, "[service") ||
			strings.Contains(lower, "[accommodation") || strings.Contains(lower, "[etc") {
			continue
		}
		out = append(out, item)
	}
	return out
}

func cap10(items []string) []string {
	if len(items) > 10 {
		return items[:10]
	}
	return items
}

func orPlaceholder(items []string, placeholder string) []string {
	if len(items) == 0 {
		return []string{placeholder}
	}
	return items
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func joinItems(items []string) string {
	return strings.Join(items, ", ")
}

var fallbackQuestions = []string{
	"What are your child's strongest areas according to this IEP?",
	"Which goals are most important for your child's daily life?",
	"How can you support these goals at home?",
	"What questions do you have about the services listed?",
	"Are there any accommodations missing that your child needs?",
}

// parseQuestions keeps up to seven question-shaped fragments; a completion
// with none falls back to a standard set.
func parseQuestions(completion string) []string {
	var out []string
	for _, raw := range itemSplit.Split(completion, -1) {
		q := strings.TrimSpace(raw)
		if len(q) > 10 && strings.Contains(q, "?") {
			out = append(out, q)
		}
		if len(out) == 7 {
			break
		}
	}
	if len(out) == 0 {
		return append([]string(nil), fallbackQuestions...)
	}
	return out
}

// sampleDocument synthesizes IEP text for a file whose contents are not
// reachable, keyed loosely off the file name.
func sampleDocument(fileName string) string {
	student := "Student Name"
	lower := strings.ToLower(fileName)
	switch {
	case strings.Contains(lower, "john"):
		student = "John Doe"
	case strings.Contains(lower, "sarah"):
		student = "Sarah Smith"
	case strings.Contains(lower, "mike"):
		student = "Michael Johnson"
	}

	return fmt.Sprintf(`INDIVIDUALIZED EDUCATION PROGRAM (IEP)

Student: %s
Grade: 5th Grade
School: Lincoln Elementary School
Document: %s

PRESENT LEVELS OF PERFORMANCE:
The student demonstrates reading skills below grade level and requires additional support with comprehension strategies. Shows strength in mathematics but struggles with word problems requiring reading comprehension.

ANNUAL GOALS:
• Reading Comprehension: By the end of the IEP year, when given grade-level reading passages, the student will answer comprehension questions with 80%% accuracy in 4 out of 5 trials as measured by weekly assessments.
• Social Communication: By the end of the IEP year, the student will initiate appropriate social interactions with peers during unstructured activities with 70%% success rate as measured by daily observations.
• Math Problem Solving: By the end of the IEP year, the student will complete multi-step math word problems with 75%% accuracy in 4 out of 5 trials as measured by bi-weekly assessments.

SPECIAL EDUCATION AND RELATED SERVICES:
• Special Education Resource Room: 60 minutes daily for reading and math support in a small group setting
• Speech-Language Therapy: 30 minutes twice weekly for social communication skills development
• Occupational Therapy: 45 minutes once weekly for fine motor skills and sensory processing support

ACCOMMODATIONS AND MODIFICATIONS:
• Extended time (1.5x) for all tests and assignments
• Preferential seating near the teacher and away from distractions
• Use of visual schedules and graphic organizers for all subjects
• Frequent breaks during lengthy activities (every 15 minutes)
• Access to text-to-speech software for reading assignments

This IEP is effective from September 1, 2024 to August 31, 2025.
Next annual review scheduled for August 2025.`, student, fileName)
}
