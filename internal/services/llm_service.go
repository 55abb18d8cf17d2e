package services

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"

	"github.com/jibbitats/jibbit-ats/internal/config"
)

// LLMService wraps the Gemini client used for job-posting extraction.
type LLMService struct {
	Client llms.Model
}

// NewLLMService initializes the Gemini client.
func NewLLMService(ctx context.Context, cfg *config.GeminiConfig) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is empty")
	}

	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(cfg.APIKey),
		googleai.WithDefaultModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &LLMService{Client: llm}, nil
}

const jobExtractionPrompt = `
You are an expert Job Data Extraction Agent. Your task is to analyze the provided raw HTML/Text from a job posting and extract structured data.

### INSTRUCTIONS:
1. **Analyze** the text to identify the core job details.
2. **Ignore** navigation menus, footers, "similar jobs" lists, and site advertisements.
3. **Extract** the following fields strictly.
4. **Format** the output as valid JSON only. Do not wrap the output in markdown code blocks.

### OUTPUT SCHEMA:
{
    "company_name": "Name of the company (e.g., Google, StartupInc)",
    "title": "Job title (e.g., Senior Backend Engineer)",
    "location": "Job location or 'Remote'",
    "salary_min": "Lower salary bound as an integer if explicitly mentioned, otherwise null",
    "salary_max": "Upper salary bound as an integer if explicitly mentioned, otherwise null",
    "application_deadline": "Deadline as an RFC3339 date if explicitly mentioned, otherwise null",
    "notes": "A clean summary of the posting. Focus on Responsibilities and Requirements. Remove HTML tags."
}

### CONSTRAINT:
If a piece of information is missing, set the value to null. Do not hallucinate or guess.

### RAW CONTENT:
%s
`

// ExtractJobDetails takes raw posting HTML and returns a structured JSON
// draft matching the creation request shape.
func (s *LLMService) ExtractJobDetails(ctx context.Context, rawHTML string) (string, error) {
	if len(rawHTML) > 20000 {
		rawHTML = rawHTML[:20000]
	}
	prompt := fmt.Sprintf(jobExtractionPrompt, rawHTML)
	resp, err := llms.GenerateFromSinglePrompt(ctx, s.Client, prompt)
	if err != nil {
		return "", err
	}
	return resp, nil
}
