package ocr

import (
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// responseSchema is the subset of the OCR.space reply we rely on. Anything
// else in the payload is ignored.
const responseSchema = `{
  "type": "object",
  "properties": {
    "ParsedResults": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "properties": {
          "ParsedText": {"type": ["string", "null"]}
        }
      }
    },
    "IsErroredOnProcessing": {"type": "boolean"}
  }
}`

func compileResponseSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("ocrspace-response.json", strings.NewReader(responseSchema)); err != nil {
		return nil, err
	}
	return compiler.Compile("ocrspace-response.json")
}
