package textract

import "strings"

// assembleText builds document text from typed blocks:
//
//  1. LINE blocks above the confidence threshold, joined with newlines.
//  2. If that yields under minPrimaryTextLength non-whitespace characters,
//     WORD blocks above the threshold joined with spaces as one line.
//  3. Matched KEY_VALUE_SET pairs appended as "key: value" lines; these
//     capture structured fields that line detection can miss.
//
// The service reports confidence on a 0-100 scale; the local threshold is
// 0-1, so the comparison rescales by 100.
func (c *Client) assembleText(resp *documentTextResponse) string {
	minConfidence := c.confidenceThreshold * 100

	var lines []string
	for _, block := range resp.Blocks {
		if block.BlockType == blockTypeLine && block.Confidence >= minConfidence {
			lines = append(lines, block.Text)
		}
	}

	if len(strings.TrimSpace(strings.Join(lines, "\n"))) < minPrimaryTextLength {
		var words []string
		for _, block := range resp.Blocks {
			if block.BlockType == blockTypeWord && block.Confidence >= minConfidence {
				words = append(words, block.Text)
			}
		}
		if len(words) > 0 {
			lines = []string{strings.Join(words, " ")}
		}
	}

	lines = append(lines, keyValueLines(resp)...)
	return strings.Join(lines, "\n")
}

// keyValueLines matches KEY blocks to their VALUE blocks through the
// relationship links and renders each pair as one "key: value" line.
func keyValueLines(resp *documentTextResponse) []string {
	byID := make(map[string]Block, len(resp.Blocks))
	for _, block := range resp.Blocks {
		byID[block.ID] = block
	}

	var keys []Block
	values := make(map[string]Block)
	for _, block := range resp.Blocks {
		if block.BlockType != blockTypeKeyValueSet {
			continue
		}
		switch {
		case hasEntityType(block, entityTypeKey):
			keys = append(keys, block)
		case hasEntityType(block, entityTypeValue):
			values[block.ID] = block
		}
	}

	var out []string
	for _, key := range keys {
		for _, rel := range key.Relationships {
			if rel.Type != relationshipValue {
				continue
			}
			for _, valueID := range rel.IDs {
				value, ok := values[valueID]
				if !ok {
					continue
				}
				keyText := childWordText(key, byID)
				valueText := childWordText(value, byID)
				if keyText != "" && valueText != "" {
					out = append(out, keyText+": "+valueText)
				}
			}
		}
	}
	return out
}

func hasEntityType(block Block, entityType string) bool {
	for _, t := range block.EntityTypes {
		if t == entityType {
			return true
		}
	}
	return false
}

// childWordText collects the WORD children of a KEY or VALUE block.
func childWordText(block Block, byID map[string]Block) string {
	var parts []string
	for _, rel := range block.Relationships {
		if rel.Type != relationshipChild {
			continue
		}
		for _, id := range rel.IDs {
			child, ok := byID[id]
			if ok && child.BlockType == blockTypeWord {
				parts = append(parts, child.Text)
			}
		}
	}
	return strings.Join(parts, " ")
}
