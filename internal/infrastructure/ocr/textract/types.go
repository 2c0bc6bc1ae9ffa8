package textract

// Block types emitted by the OCR service.
const (
	blockTypeLine        = "LINE"
	blockTypeWord        = "WORD"
	blockTypeKeyValueSet = "KEY_VALUE_SET"

	entityTypeKey   = "KEY"
	entityTypeValue = "VALUE"

	relationshipChild = "CHILD"
	relationshipValue = "VALUE"
)

// Block is one typed element of an OCR response. Confidence is on the
// service's native 0-100 scale.
type Block struct {
	ID            string         `json:"Id"`
	BlockType     string         `json:"BlockType"`
	Text          string         `json:"Text,omitempty"`
	Confidence    float64        `json:"Confidence,omitempty"`
	EntityTypes   []string       `json:"EntityTypes,omitempty"`
	Relationships []Relationship `json:"Relationships,omitempty"`
}

// Relationship links a KEY or VALUE block to its constituent WORD blocks or
// a KEY block to its VALUE block.
type Relationship struct {
	Type string   `json:"Type"`
	IDs  []string `json:"Ids"`
}

type detectRequest struct {
	Document documentPayload `json:"Document"`
}

type analyzeRequest struct {
	Document     documentPayload `json:"Document"`
	FeatureTypes []string        `json:"FeatureTypes"`
}

type documentPayload struct {
	// Bytes marshals to base64 via encoding/json.
	Bytes []byte `json:"Bytes"`
}

type documentTextResponse struct {
	Blocks []Block `json:"Blocks"`
}

type apiErrorBody struct {
	Type    string `json:"__type"`
	Message string `json:"message"`
}
