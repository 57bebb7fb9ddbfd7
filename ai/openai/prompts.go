package openai

import (
	"fmt"
	"strings"

	"github.com/madvet/vetsearch/ai"
)

const expansionResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "clinical_terms": {
      "type": "array",
      "items": {
        "type": "string",
        "pattern": "^[a-z]+( [a-z]+)*$"
      }
    },
    "species": {
      "type": "array",
      "items": {
        "type": "string"
      }
    },
    "form_factor": {
      "type": "array",
      "items": {
        "type": "string"
      }
    },
    "is_follow_up": {
      "type": "boolean"
    },
    "is_emergency": {
      "type": "boolean"
    }
  },
  "required": ["clinical_terms", "species", "form_factor", "is_follow_up", "is_emergency"],
  "additionalProperties": false
}`

const expansionPromptTemplate = `You analyze messages sent to a veterinary medicine shop in rural India. Messages mix Hindi, Hinglish (romanized Hindi) and English. Extract the clinical meaning and return it as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- clinical_terms are English veterinary search terms: the symptom, the condition, and the treatment category. Lowercase, 1-3 words each.
- Translate Hindi and Hinglish symptoms into English: "keede" means worms, "bukhar" means fever, "dast" means diarrhea, "cheechad" means ticks, "thanela" means mastitis, "afara" means bloat, "kamzori" means weakness, "zakhm" means wound.
- species values must come from: %s. Translate Hindi animal names: "gaay" is cow/cattle, "bhains" is buffalo, "bakri" is goat, "murgi" is poultry, "kutta" is dog, "billi" is cat.
- form_factor values must come from: %s. Only include forms the customer actually asked for.
- is_follow_up is true only when the message continues a previous conversation (asking about dose, price, confirmation) rather than describing a problem.
- is_emergency is true for conditions needing immediate veterinary attention: bloat, milk fever, high fever, maggot wounds.
- Include only what the message states or clearly implies. Do not hallucinate.
- If nothing can be extracted, return empty arrays.
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.



Example (Hinglish symptom query):
Input: "gaay ko keede ho gaye hain"
Output:
{
  "clinical_terms": ["worms", "parasite", "dewormer"],
  "species": ["cow", "cattle"],
  "form_factor": [],
  "is_follow_up": false,
  "is_emergency": false
}

---  // more message styles

Example (fever with species):
Input: "bhains ko bukhar hai kya dawa du"
Output:
{
  "clinical_terms": ["fever", "antipyretic"],
  "species": ["buffalo"],
  "form_factor": [],
  "is_follow_up": false,
  "is_emergency": false
}

Example (form factor requested):
Input: "tick spray for dog"
Output:
{
  "clinical_terms": ["ticks", "ectoparasite"],
  "species": ["dog"],
  "form_factor": ["spray", "topical"],
  "is_follow_up": false,
  "is_emergency": false
}

Example (follow-up about dosage):
Input: "kitna dena hai roz"
Output:
{
  "clinical_terms": [],
  "species": [],
  "form_factor": [],
  "is_follow_up": true,
  "is_emergency": false
}

Example (emergency):
Input: "gaay ka pet phula hua hai turant dawa chahiye"
Output:
{
  "clinical_terms": ["bloat", "tympany"],
  "species": ["cow", "cattle"],
  "form_factor": [],
  "is_follow_up": false,
  "is_emergency": true
}

Example (nothing clinical):
Input: "shop kab khulti hai"
Output:
{
  "clinical_terms": [],
  "species": [],
  "form_factor": [],
  "is_follow_up": false,
  "is_emergency": false
}`

// buildSystemPrompt creates the system prompt with canonical token lists embedded.
func buildSystemPrompt() string {
	return fmt.Sprintf(expansionPromptTemplate,
		expansionResponseSchema,
		strings.Join(ai.SpeciesTokens, ", "),
		strings.Join(ai.FormTokens, ", "))
}
