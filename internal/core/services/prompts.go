package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/medalpine/medrag/internal/core/domain"
)

// normalizePromptTemplate converts informal patient language into
// clinical terminology before embedding. The model must return only
// the converted text.
const normalizePromptTemplate = `You convert informal medical questions into formal clinical terminology.
Keep the meaning intact. Return ONLY the converted text, nothing else.

Example:
Input: My dad keeps forgetting things and gets confused at night. What medicines could help him?
Output: What are the current pharmacological treatment options for a patient presenting with progressive memory loss and nocturnal confusion?

Example:
Input: heart attack warning signs
Output: clinical presentation and early symptoms of myocardial infarction

Input: %s
Output:`

// answerPromptTemplate grounds the generated answer in retrieved
// research context and fixes the citation format.
const answerPromptTemplate = `You are a medical research assistant supporting clinicians.
Answer the question using the research context below. When you draw on a
context block, cite its source inline in parentheses, e.g. (PMC1234567).
If the context does not cover the question, say so briefly and answer
from established medical knowledge instead.

Research context:
%s

Question: %s

Answer:`

// casePromptTemplate asks for a structured assessment of a case study.
const casePromptTemplate = `You are a medical research assistant supporting clinicians.
Analyze the following case study using the research context below. Cite
context sources inline in parentheses, e.g. (PMC1234567). Structure the
response as: Assessment, Differential Considerations, Suggested Next Steps.

Case study:
%s

Research context:
%s

Analysis:`

// alzheimersAugmentation is appended to the research context for
// triggered queries so treatment answers always reflect the approved
// drug classes.
const alzheimersAugmentation = `FDA-approved treatment classes for Alzheimer's disease:
- Cholinesterase inhibitors (donepezil, rivastigmine, galantamine)
- NMDA receptor antagonists (memantine)
- Anti-amyloid monoclonal antibodies (lecanemab, donanemab)
- Combination therapy (memantine with donepezil)`

// contextSeparator joins retrieved context blocks in prompts.
const contextSeparator = "\n\n===\n\n"

// noContextPlaceholder stands in when retrieval produced nothing.
const noContextPlaceholder = "No relevant research context was retrieved."

func normalizePrompt(query string) string {
	return fmt.Sprintf(normalizePromptTemplate, query)
}

func answerPrompt(contextText, question string) string {
	if strings.TrimSpace(contextText) == "" {
		contextText = noContextPlaceholder
	}
	return fmt.Sprintf(answerPromptTemplate, contextText, question)
}

func casePrompt(cs domain.CaseStudy, contextText string) string {
	if strings.TrimSpace(contextText) == "" {
		contextText = noContextPlaceholder
	}
	return fmt.Sprintf(casePromptTemplate, cs.Description(), contextText)
}

// buildWebQuery constructs the supplementary search query: normalized
// terms, recency hints, and trusted medical domains.
func buildWebQuery(normalized string) string {
	year := time.Now().Year()
	return fmt.Sprintf("%s latest treatment guidelines %d %d site:nih.gov OR site:fda.gov OR site:alz.org",
		normalized, year-1, year)
}
