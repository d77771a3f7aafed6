package openai

import (
	"fmt"
)

const expansionResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "keywords": {
      "type": "array",
      "items": {
        "type": "string",
        "pattern": "^[a-z0-9]+( [a-z0-9]+)*$"
      }
    }
  },
  "required": ["keywords"],
  "additionalProperties": false
}`

const expansionPromptTemplate = `A user is looking for a Windows setting. Suggest search keywords that name the
setting or feature they most likely mean, and return them as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- Keywords must be lowercase, 1-3 words each.
- Return at most %d keywords, most relevant first.
- Prefer the names Windows itself uses (for example "night light", "battery saver", "dark mode").
- Do not repeat the user's words unless they are the setting's name.
- If the request is not about a Windows setting, return "keywords": [].
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Example:
Input: "my screen is too yellow at night"
Output:
{"keywords": ["night light", "color temperature", "display"]}

Example (informal):
Input: "laptop dies too fast"
Output:
{"keywords": ["battery saver", "power plan", "battery"]}

Example (unrelated):
Input: "whats the capital of france"
Output:
{"keywords": []}`

// buildSystemPrompt creates the system prompt with the schema and term limit embedded.
func buildSystemPrompt(maxTerms int) string {
	return fmt.Sprintf(expansionPromptTemplate, expansionResponseSchema, maxTerms)
}
