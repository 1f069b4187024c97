package capability

import (
	"fmt"
	"strings"

	contractx "github.com/roamfit/roamfit/agent/contract"
)

// extractJSONObject returns the substring between the first '{' and the last
// '}' of a model response. Models often wrap their JSON payload in prose;
// this tolerates leading and trailing text.
func extractJSONObject(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start < 0 || end < start {
		return "", fmt.Errorf("%w: no JSON object found in response", contractx.ErrSchemaViolation)
	}
	return trimmed[start : end+1], nil
}
