package prompts

import (
	"fmt"
	"strings"
)

// QuestionSystem is the system prompt for segment question generation.
const QuestionSystem = `You are an expert in creating educational quiz questions. Use the submit_questions tool to return your questions; do not reply with prose.`

// ThemeSystem is the system prompt for theme summarization.
const ThemeSystem = `You are a helpful assistant that provides concise and accurate thematic summaries.`

// ConfigSystem is the system prompt for game config rewriting.
const ConfigSystem = `You update JavaScript game configs to match a theme. Preserve the structure of the config exactly; change only values.`

// SearchQuerySystem is the system prompt for Wikipedia query generation.
const SearchQuerySystem = `You are an expert at generating effective search queries for educational content on Wikipedia. Generate a single specific query that would yield comprehensive information about the core concepts, principles, and applications of the user's topic. Prioritize technical understanding over historical background. Use the submit_query tool to return the query.`

// SegmentQuestions builds the prompt for one segment's generation call.
func SegmentQuestions(segment string, count int) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Below is a section of text. Create %d diverse quiz questions based ONLY on the information in this text.\n\n", count))
	sb.WriteString("For each question:\n")
	sb.WriteString("- Mix multiple choice (4 options) and true/false\n")
	sb.WriteString("- The question should be very short and concise\n")
	sb.WriteString("- For multiple choice, the answer choices should only be 1-2 words\n")
	sb.WriteString("- Each question covers a different concept or fact from the text\n")
	sb.WriteString("- Rate each question easy, medium, or hard\n")
	sb.WriteString("- For multiple choice, give 4 distinct answer choices, and the correct answer must exactly match one of them\n")
	sb.WriteString("- For true/false, the correct answer is \"true\" or \"false\"\n")
	sb.WriteString("- Include a short explanation for each answer and a playful success message\n")
	sb.WriteString("- Do NOT include any markdown or LaTeX formatting in questions or answer choices\n")
	sb.WriteString("- Make the questions funny and trivia-like where possible\n")
	sb.WriteString("\nTEXT SECTION:\n")
	sb.WriteString(segment)

	return sb.String()
}

// ThemeSummary builds the prompt for the single theme summarization call.
func ThemeSummary(content string) string {
	var sb strings.Builder

	sb.WriteString("Please provide a 2-3 sentence summary of the main theme of the following text.\n")
	sb.WriteString("Focus on capturing the core subject matter and key concepts.\n")
	sb.WriteString("\nTEXT:\n")
	sb.WriteString(content)

	return sb.String()
}

// ConfigRewrite builds the prompt for one config mutation call. question is
// a serialized view of the question's non-transient fields.
func ConfigRewrite(theme, question, originalConfig string) string {
	var sb strings.Builder

	sb.WriteString("Update the JavaScript config below to reflect the theme and question details.\n")
	sb.WriteString("\nTHEME SUMMARY:\n")
	sb.WriteString(theme)
	sb.WriteString("\n\nQUESTION CONTENT:\n")
	sb.WriteString(question)
	sb.WriteString("\n\nORIGINAL CONFIG:\n")
	sb.WriteString(originalConfig)
	sb.WriteString("\n\nModify color schemes, text elements, or visual components to match the theme, while preserving the structure.\n")
	sb.WriteString("Include the declaration: const config = { ... };\n")

	return sb.String()
}

// SearchQuery builds the prompt for Wikipedia query generation.
func SearchQuery(topic string) string {
	return fmt.Sprintf("Generate a Wikipedia search query for the educational topic: %s", topic)
}
