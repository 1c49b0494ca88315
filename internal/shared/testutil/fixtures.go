package testutil

import (
	"encoding/json"
)

// ScenarioRequest is the reference portfolio used across handler and
// service tests: 100000 loans at 2% default probability.
func ScenarioRequest() map[string]any {
	return map[string]any{
		"lambda":     0.05,
		"q":          0.05,
		"numU":       128,
		"pd":         0.02,
		"numLoans":   100000.0,
		"volatility": 0.5,
	}
}

// ScenarioXMin is the lower loss bound implied by ScenarioRequest
const ScenarioXMin = -100000.0 * 0.02 * (1 + 3*0.5) * 3

// RequestBody encodes ScenarioRequest with the given overrides applied.
// A nil override value removes the key.
func RequestBody(overrides map[string]any) []byte {
	body := ScenarioRequest()
	for k, v := range overrides {
		if v == nil {
			delete(body, k)
			continue
		}
		body[k] = v
	}

	data, err := json.Marshal(body)
	if err != nil {
		panic(err)
	}
	return data
}
